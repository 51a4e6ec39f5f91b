package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
	"github.com/ramanasai/liftlog/internal/render"
	"github.com/ramanasai/liftlog/internal/utils"
)

var (
	woDate      string
	woTags      string
	woNotes     string
	woDuration  int
	woTemplate  string
	woName      string
	woSince     string
	woUntil     string
	woPreset    string
	woPage      int
	woLimit     int
	woMax       int
	woEntry     entryFlags
	woClearTags bool
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"wo"},
	Short:   "Log and edit workouts",
}

var workoutNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Start a workout, optionally from a template",
	Example: `  liftlog workout new "Lower A" --tags strength
  liftlog workout new --from-template "Lower A" --date yesterday`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDayFlag(woDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		meta := model.Workout{Name: name, Date: date, Notes: woNotes, Tags: splitTagsFlag(woTags)}
		if woDuration > 0 {
			d := woDuration
			meta.DurationMinutes = &d
		}

		var w model.Workout
		if woTemplate != "" {
			if w, err = db.StartWorkoutFromTemplate(dbh, woTemplate, name, date); err != nil {
				return err
			}
			if meta.Notes != "" || len(meta.Tags) > 0 || meta.DurationMinutes != nil {
				w.Notes, w.Tags, w.DurationMinutes = meta.Notes, meta.Tags, meta.DurationMinutes
				if err := db.UpdateWorkout(dbh, w); err != nil {
					return err
				}
			}
		} else {
			if name == "" {
				return fmt.Errorf("a name is required unless --from-template is given")
			}
			// Entries are added afterwards with add-entry.
			if w, err = db.CreateWorkout(dbh, meta); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Started %s on %s [%s]\n", w.Name, w.Date.Format(model.DateLayout), w.ID[:8])
		if len(w.Entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Add exercises with: liftlog workout add-entry %s <exercise> --sets 3 --reps 10\n", w.ID[:8])
		}
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts, newest first",
	Example: `  liftlog workout list
  liftlog workout list --preset last30days --tags strength
  liftlog workout list --since "2 weeks ago" --format csv
  liftlog workout list --page 2 --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := cfg.Location()
		var f db.WorkoutFilter
		var err error
		switch {
		case woPreset != "":
			if f.From, f.To, err = utils.GetDateRange(woPreset, loc); err != nil {
				return fmt.Errorf("invalid --preset %q: %w", woPreset, err)
			}
		case woSince != "":
			if f.From, err = utils.ParseDay(woSince, loc); err != nil {
				return fmt.Errorf("invalid --since %q: %w", woSince, err)
			}
		}
		if woUntil != "" {
			if f.To, err = utils.ParseDay(woUntil, loc); err != nil {
				return fmt.Errorf("invalid --until %q: %w", woUntil, err)
			}
		}
		f.Tags = splitTagsFlag(woTags)

		if woLimit <= 0 || woLimit > 500 {
			woLimit = 20
		}
		f.Limit = woLimit
		f.Offset = (max(woPage, 1) - 1) * woLimit
		workouts, total, err := db.ListWorkouts(dbh, f)
		if err != nil {
			return err
		}
		pagination := utils.NewPagination(total, woLimit, woPage)
		if pagination.Offset != f.Offset {
			f.Limit, f.Offset = pagination.LimitOffset()
			if workouts, _, err = db.ListWorkouts(dbh, f); err != nil {
				return err
			}
		}

		filters := map[string]string{}
		if !f.From.IsZero() {
			filters["from"] = f.From.Format(model.DateLayout)
		}
		if !f.To.IsZero() {
			filters["to"] = f.To.Format(model.DateLayout)
		}
		if len(f.Tags) > 0 {
			filters["tags"] = strings.Join(f.Tags, ",")
		}

		r, err := newRenderer()
		if err != nil {
			return err
		}
		out, err := r.WorkoutList(&render.WorkoutList{
			Workouts:   workouts,
			Pagination: pagination,
			Filters:    filters,
			MaxItems:   maxItemsFlag(cmd),
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a workout with its exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(args[0])
		if err != nil {
			return err
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		limit := 0
		if cmd.Flags().Changed("max") {
			limit = woMax
		}
		out, err := r.Workout(w, limit)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var workoutAddEntryCmd = &cobra.Command{
	Use:   "add-entry <workout> <exercise>",
	Short: "Add an exercise to a workout",
	Example: `  liftlog workout add-entry 3f2a "Back Squat" --sets 5 --reps 5 --weight 100
  liftlog workout add-entry 3f2a "Pull-up" --sets 3 --reps 8 --group A --at 2
  liftlog workout add-entry 3f2a Plank --sets 3 --unit TIME --reps 45`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(args[0])
		if err != nil {
			return err
		}
		d, err := woEntry.draft(args[1], model.ForWorkout)
		if err != nil {
			return err
		}
		if err := model.CheckDuplicate(w.Entries, d.ExerciseID); err != nil {
			return err
		}
		entries, err := db.ReplaceWorkoutEntries(dbh, w.ID, ordering.InsertAt(w.Entries, d, woEntry.index()))
		if err != nil {
			return err
		}
		w.Entries = ordering.SortForDisplay(entries)
		return printWorkout(cmd, w)
	},
}

var workoutMoveCmd = &cobra.Command{
	Use:   "move <workout> <from> <to>",
	Short: "Move an exercise to another position (1-based)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(args[0])
		if err != nil {
			return err
		}
		from, err := position(args[1], len(w.Entries))
		if err != nil {
			return err
		}
		to, err := position(args[2], len(w.Entries))
		if err != nil {
			return err
		}
		entries, err := db.ReplaceWorkoutEntries(dbh, w.ID, ordering.Move(w.Entries, from, to))
		if err != nil {
			return err
		}
		w.Entries = ordering.SortForDisplay(entries)
		return printWorkout(cmd, w)
	},
}

var workoutRmEntryCmd = &cobra.Command{
	Use:   "rm-entry <workout> <position>",
	Short: "Remove the exercise at a position (1-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(args[0])
		if err != nil {
			return err
		}
		at, err := position(args[1], len(w.Entries))
		if err != nil {
			return err
		}
		entries, err := db.ReplaceWorkoutEntries(dbh, w.ID, ordering.RemoveAt(w.Entries, at))
		if err != nil {
			return err
		}
		w.Entries = ordering.SortForDisplay(entries)
		return printWorkout(cmd, w)
	},
}

var workoutEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit workout name, date, notes, duration or tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		changed := false
		for _, name := range []string{"name", "date", "notes", "duration", "tags", "clear-tags"} {
			changed = changed || flags.Changed(name)
		}
		if !changed {
			return fmt.Errorf("nothing to update - specify at least one field to edit")
		}

		if flags.Changed("name") {
			w.Name = woName
		}
		if flags.Changed("date") {
			if w.Date, err = parseDayFlag(woDate); err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
		}
		if flags.Changed("notes") {
			w.Notes = woNotes
		}
		if flags.Changed("duration") {
			if woDuration > 0 {
				d := woDuration
				w.DurationMinutes = &d
			} else {
				w.DurationMinutes = nil
			}
		}
		if flags.Changed("tags") {
			w.Tags = splitTagsFlag(woTags)
		}
		if woClearTags {
			w.Tags = nil
		}
		if err := db.UpdateWorkout(dbh, w); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", w.Name)
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := findWorkout(args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteWorkout(dbh, w.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", w.Name, w.Date.Format(model.DateLayout))
		return nil
	},
}

// findWorkout accepts a full id or a unique id prefix as printed by list.
func findWorkout(ref string) (model.Workout, error) {
	id, err := db.ResolveWorkoutID(dbh, ref)
	if err != nil {
		return model.Workout{}, err
	}
	return db.GetWorkout(dbh, id)
}

func printWorkout(cmd *cobra.Command, w model.Workout) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	out, err := r.Workout(w, 0)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// maxItemsFlag is --max when given, else list.max_items from config.
func maxItemsFlag(cmd *cobra.Command) int {
	if cmd.Flags().Changed("max") {
		return woMax
	}
	return cfg.List.MaxItems
}

func init() {
	workoutNewCmd.Flags().StringVar(&woDate, "date", "", "Workout day (today, yesterday, 3d, mon, 2026-04-09)")
	workoutNewCmd.Flags().StringVarP(&woTags, "tags", "t", "", "Comma separated tags")
	workoutNewCmd.Flags().StringVar(&woNotes, "notes", "", "Notes")
	workoutNewCmd.Flags().IntVar(&woDuration, "duration", 0, "Duration in minutes")
	workoutNewCmd.Flags().StringVar(&woTemplate, "from-template", "", "Copy exercises from this template (id or name)")

	workoutListCmd.Flags().StringVar(&woSince, "since", "", "Only workouts on or after this day")
	workoutListCmd.Flags().StringVar(&woUntil, "until", "", "Only workouts on or before this day")
	workoutListCmd.Flags().StringVar(&woPreset, "preset", "", "Date preset: today, yesterday, week, month, year, last7days, last30days, last90days")
	workoutListCmd.Flags().StringVarP(&woTags, "tags", "t", "", "Only workouts with all of these tags")
	workoutListCmd.Flags().IntVar(&woPage, "page", 1, "Page number")
	workoutListCmd.Flags().IntVar(&woLimit, "limit", 20, "Workouts per page")
	workoutListCmd.Flags().IntVar(&woMax, "max", 0, "Exercises shown per workout (default list.max_items)")

	workoutShowCmd.Flags().IntVar(&woMax, "max", 0, "Show at most this many exercises")

	woEntry.bind(workoutAddEntryCmd, 3)

	workoutEditCmd.Flags().StringVar(&woName, "name", "", "New name")
	workoutEditCmd.Flags().StringVar(&woDate, "date", "", "New day")
	workoutEditCmd.Flags().StringVar(&woNotes, "notes", "", "New notes")
	workoutEditCmd.Flags().IntVar(&woDuration, "duration", 0, "Duration in minutes (0 clears)")
	workoutEditCmd.Flags().StringVarP(&woTags, "tags", "t", "", "Replace tags")
	workoutEditCmd.Flags().BoolVar(&woClearTags, "clear-tags", false, "Remove all tags")

	workoutCmd.AddCommand(workoutNewCmd, workoutListCmd, workoutShowCmd, workoutAddEntryCmd,
		workoutMoveCmd, workoutRmEntryCmd, workoutEditCmd, workoutDeleteCmd)
}
