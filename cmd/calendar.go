package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/render"
	"github.com/ramanasai/liftlog/internal/utils"
)

var calMonth string

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show a month grid with workouts per day",
	Example: `  liftlog calendar
  liftlog calendar --month 2026-03
  liftlog calendar --month last`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := cfg.Location()
		month := time.Now().In(loc)
		if calMonth != "" {
			var err error
			if month, err = utils.ParseMonth(calMonth, loc); err != nil {
				return fmt.Errorf("invalid --month %q: %w", calMonth, err)
			}
		}
		from, to := db.MonthBounds(month)
		counts, err := db.GetWorkoutCountsByDate(dbh, from, to)
		if err != nil {
			return err
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), r.Calendar(month, counts, render.CalendarOptions{
			Today:  time.Now().In(loc),
			Legend: true,
		}))
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringVarP(&calMonth, "month", "m", "", "Month to show (YYYY-MM, Apr 2026, last, next)")
}
