package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramanasai/liftlog/internal/config"
	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/logging"
	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/notify"
	"github.com/ramanasai/liftlog/internal/render"
	"github.com/ramanasai/liftlog/internal/schedule"
	"github.com/ramanasai/liftlog/internal/utils"
)

var (
	cfgFile      string
	dbPath       string
	verbose      bool
	outputFormat string
	noColor      bool

	cfg    config.Config
	logger *zap.Logger
	dbh    *sql.DB
)

// skipStore marks commands that run without opening the database.
const skipStore = "liftlog/no-db"

var rootCmd = &cobra.Command{
	Use:           "liftlog",
	Short:         "Workout log with templates and a training calendar",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		if logger, err = logging.New(level, cfg.Log.JSON); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		if cmd.Annotations[skipStore] == "true" {
			return nil
		}
		// A failed RunE skips PersistentPostRun.
		if dbh != nil {
			_ = dbh.Close()
		}
		path := cfg.DBPath
		if dbPath != "" {
			path = dbPath
		}
		if dbh, err = db.Open(path); err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		logger.Debug("database opened", zap.String("path", path))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbh != nil {
			_ = dbh.Close()
			dbh = nil
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/liftlog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (overrides db_path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "default", "Output format: default, table, json, csv, compact, quiet")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(exerciseCmd, complexCmd, workoutCmd, templateCmd, calendarCmd, summaryCmd, tuiCmd, serveCmd, versionCmd)
}

// newRenderer builds a renderer from flags and config, resolving exercise
// names against the catalog.
func newRenderer() (*render.Renderer, error) {
	rc := render.DefaultConfig()
	f, err := render.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	rc.Format = f
	rc.WeightUnit = cfg.WeightUnit
	if noColor || cfg.Theme == "plain" {
		rc.Color = false
	}
	catalog, err := db.Catalog(dbh)
	if err != nil {
		return nil, err
	}
	return render.NewRenderer(rc, catalog), nil
}

// runReminder nudges the user on training days until ctx ends. The
// message counts the workouts already logged this week.
func runReminder(ctx context.Context) {
	if !cfg.Reminder.Enabled {
		return
	}
	logger.Info("reminder scheduled", zap.Time("next", schedule.NextAt(time.Now(), cfg)))
	schedule.RunConfigured(ctx, cfg, func() {
		logged, err := db.CountWorkoutsSince(dbh, db.WeekStart(time.Now().In(cfg.Location())))
		if err != nil {
			logger.Warn("count workouts for reminder", zap.Error(err))
		}
		title, msg := notify.FormatDailyPrompt(logged)
		if err := notify.Desktop(title, msg); err != nil {
			logger.Warn("send reminder", zap.Error(err))
		}
	})
}

// parseDayFlag reads a --date style flag; empty means today.
func parseDayFlag(s string) (time.Time, error) {
	if s == "" {
		s = "today"
	}
	return utils.ParseDay(s, cfg.Location())
}

func splitTagsFlag(s string) []string {
	if s == "" {
		return nil
	}
	return model.SplitTags(s)
}
