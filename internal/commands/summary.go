package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/report"
)

func newSummaryCommand() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the monthly budget summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("parsing --month %q (want YYYY-MM): %w", month, err)
				}
				when = parsed
			}

			_, _, st, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			m, err := report.Summarize(st, when.Year(), when.Month())
			if err != nil {
				return err
			}

			fmt.Printf("%s %d\n", m.Month, m.Year)
			fmt.Printf("  income   %s\n", color.GreenString("$%s", m.Income.StringFixed(2)))
			fmt.Printf("  bills    %s\n", color.YellowString("$%s", m.Bills.StringFixed(2)))
			fmt.Printf("  spending %s\n", color.RedString("$%s", m.Spend.StringFixed(2)))
			fmt.Printf("  net      $%s\n", m.Net.StringFixed(2))

			if len(m.SpendByCategory) > 0 {
				fmt.Println("  spending by category:")
				for _, ct := range m.SpendByCategory {
					fmt.Printf("    %-20s $%s\n", ct.Category, ct.Total.StringFixed(2))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to summarize as YYYY-MM (default: current)")

	return cmd
}
