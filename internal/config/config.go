package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level bankfeed.yaml configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Import  ImportConfig  `yaml:"import"`
}

// StoreConfig locates the transaction database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ImportConfig controls the ingest command.
type ImportConfig struct {
	// Dir is the drop directory scanned by `ingest --all`.
	Dir string `yaml:"dir"`
	// DefaultSource is used when a file carries no --source flag.
	DefaultSource string `yaml:"default_source"`
}

// Load reads a bankfeed.yaml file from disk. The BANKFEED_STORE and
// BANKFEED_LOG environment variables override their file counterparts,
// so a .env file can redirect a checkout without editing config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if v := os.Getenv("BANKFEED_STORE"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("BANKFEED_LOG"); v != "" {
		cfg.Logging.Level = v
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Store:   StoreConfig{Path: "bankfeed.db"},
		Logging: LoggingConfig{Level: "info"},
		Import:  ImportConfig{Dir: "import"},
	}
}
