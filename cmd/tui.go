package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ramanasai/liftlog/internal/ui"
)

// tuiCmd launches the Bubble Tea TUI.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive workout browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go runReminder(ctx)

		return ui.Run(ui.Options{
			DB:         dbh,
			Location:   cfg.Location(),
			MaxItems:   cfg.List.MaxItems,
			WeightUnit: cfg.WeightUnit,
		})
	},
}
