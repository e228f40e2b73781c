package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage classification rules",
	}
	cmd.AddCommand(newRulesAddCommand())
	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesLoadCommand())
	return cmd
}

func newRulesAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword> <category> <bucket>",
		Short: "Append a keyword rule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := parseRule(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			_, _, st, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.AddRule(rule); err != nil {
				return err
			}
			fmt.Printf("rule added: %q -> %s / %s\n", rule.Keyword, rule.Category, rule.Bucket)
			return nil
		},
	}
}

func newRulesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in application order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, st, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			rules, err := st.Rules()
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				fmt.Println("no rules defined")
				return nil
			}
			for i, rule := range rules {
				fmt.Printf("%3d. %-25q %s / %s\n",
					i+1, rule.Keyword, color.CyanString("%s", rule.Category), rule.Bucket)
			}
			return nil
		},
	}
}

// ruleFile is the YAML shape accepted by `rules load`.
type ruleFile struct {
	Rules []model.Rule `yaml:"rules"`
}

func newRulesLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.yaml>",
		Short: "Append rules from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading rules file: %w", err)
			}

			var rf ruleFile
			if err := yaml.Unmarshal(data, &rf); err != nil {
				return fmt.Errorf("parsing rules file: %w", err)
			}

			_, _, st, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			for i, rule := range rf.Rules {
				validated, err := parseRule(rule.Keyword, rule.Category, string(rule.Bucket))
				if err != nil {
					return fmt.Errorf("rule %d: %w", i+1, err)
				}
				if err := st.AddRule(validated); err != nil {
					return err
				}
			}
			fmt.Printf("%s rules loaded\n", color.GreenString("%d", len(rf.Rules)))
			return nil
		},
	}
}

func parseRule(keyword, category, bucket string) (model.Rule, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return model.Rule{}, fmt.Errorf("keyword must not be empty")
	}
	category = strings.TrimSpace(category)
	if category == "" || category == model.Uncategorized {
		return model.Rule{}, fmt.Errorf("category must be a real label, got %q", category)
	}

	b := model.Bucket(strings.ToUpper(strings.TrimSpace(bucket)))
	if !model.ValidBucket(b) {
		return model.Rule{}, fmt.Errorf("bucket must be SPEND, BILL, INCOME, or TRANSFER, got %q", bucket)
	}

	return model.Rule{Keyword: keyword, Category: category, Bucket: b}, nil
}
