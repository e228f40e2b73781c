package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/adapter"
	"github.com/bankfeed-dev/bankfeed/internal/auditlog"
	"github.com/bankfeed-dev/bankfeed/internal/ingest"
)

func newIngestCommand() *cobra.Command {
	var source string
	var all bool

	cmd := &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Ingest bank export files into the store",
		Long: "Ingest CSV exports (through the adapter named by --source) or\n" +
			"extracted statement text files. With --all, every file waiting in\n" +
			"the import directory is ingested and moved to processed/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("nothing to ingest: pass files or --all")
			}

			cfg, log, st, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if source == "" {
				source = cfg.Import.DefaultSource
			}
			svc := ingest.NewService(adapter.Default(), st, log)

			if all {
				files, err := ingest.Scan(cfg.Import.Dir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Println("import directory is empty")
					return nil
				}
				for _, f := range files {
					if err := ingestOne(svc, f.Path, source); err != nil {
						return err
					}
					if err := ingest.MarkProcessed(cfg.Import.Dir, f.Name); err != nil {
						return err
					}
				}
				return nil
			}

			for _, path := range args {
				if err := ingestOne(svc, path, source); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source adapter for CSV files (e.g. chase)")
	cmd.Flags().BoolVar(&all, "all", false, "ingest every file in the import directory")

	return cmd
}

func ingestOne(svc *ingest.Service, path, source string) error {
	name := filepath.Base(path)

	fileSource := source
	if fileSource == "" {
		if strings.HasSuffix(strings.ToLower(name), ".csv") {
			return fmt.Errorf("%s: CSV ingestion needs --source (or import.default_source)", name)
		}
		fileSource = "statement"
	}

	res, err := svc.File(path, fileSource)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s inserted, %s duplicates, %s skipped\n",
		name,
		color.GreenString("%d", res.Inserted),
		color.YellowString("%d", res.Duplicates),
		color.RedString("%d", res.Skipped),
	)

	return auditlog.Append(".", []auditlog.Entry{{
		Timestamp: time.Now(),
		Action:    "ingest",
		Target:    name,
		Source:    fileSource,
		Inserted:  res.Inserted,
		Skipped:   res.Skipped,
	}})
}
