package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/utils"
)

var (
	sumPreset string
	sumSince  string
)

// summaryCmd prints per-exercise totals for a period.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Training summary (this week by default)",
	Example: `  liftlog summary
  liftlog summary --preset last30days
  liftlog summary --since 2026-01-01 --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := cfg.Location()
		from, to, err := utils.GetDateRange(sumPreset, loc)
		if err != nil {
			return fmt.Errorf("invalid --preset %q: %w", sumPreset, err)
		}
		if sumSince != "" {
			if from, err = utils.ParseDay(sumSince, loc); err != nil {
				return fmt.Errorf("invalid --since %q: %w", sumSince, err)
			}
			if to, err = utils.ParseDay("today", loc); err != nil {
				return err
			}
		}

		s, err := db.LoadSummary(dbh, from, to)
		if err != nil {
			return err
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		out, err := r.Summary(s)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVar(&sumPreset, "preset", "week", "Period: today, yesterday, week, month, year, last7days, last30days, last90days")
	summaryCmd.Flags().StringVar(&sumSince, "since", "", "From this day through today (overrides --preset)")
}
