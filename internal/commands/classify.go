package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/auditlog"
	"github.com/bankfeed-dev/bankfeed/internal/classify"
)

func newClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Apply keyword rules to unclassified transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, st, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			updated, err := classify.NewEngine(st, log).Run()
			if err != nil {
				return err
			}

			fmt.Printf("%s transactions classified\n", color.GreenString("%d", updated))

			return auditlog.Append(".", []auditlog.Entry{{
				Timestamp: time.Now(),
				Action:    "classify",
				Updated:   updated,
			}})
		},
	}
}
