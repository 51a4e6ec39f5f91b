package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
)

// entryFlags is the add-entry form shared by workouts and templates.
type entryFlags struct {
	sets    int
	reps    string
	unit    string
	weight  string
	rest    int
	group   string
	section string
	notes   string
	at      int
}

func (f *entryFlags) bind(cmd *cobra.Command, defaultSets int) {
	cmd.Flags().IntVar(&f.sets, "sets", defaultSets, "Number of sets")
	cmd.Flags().StringVar(&f.reps, "reps", "", `Reps per set: "10" or "12,10,8" (seconds with --unit TIME)`)
	cmd.Flags().StringVar(&f.unit, "unit", "REPS", "REPS or TIME")
	cmd.Flags().StringVar(&f.weight, "weight", "", "Load per set; empty for bodyweight")
	cmd.Flags().IntVar(&f.rest, "rest", -1, "Rest between sets in seconds")
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Superset group label (A, B, ...)")
	cmd.Flags().StringVar(&f.section, "section", "", "Section title (Warm-up, Main, ...)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes")
	cmd.Flags().IntVar(&f.at, "at", -1, "Insert at this 1-based position (default: append)")
}

// draft resolves exRef against the catalog and builds a validated draft.
func (f *entryFlags) draft(exRef string, ctx model.ValidationContext) (ordering.Draft, error) {
	ex, err := db.FindExercise(dbh, exRef)
	if err != nil {
		return ordering.Draft{}, err
	}
	d := ordering.Draft{
		ExerciseID:   ex.ID,
		Sets:         f.sets,
		Unit:         ordering.Unit(strings.ToUpper(f.unit)),
		Reps:         f.reps,
		Notes:        f.notes,
		Group:        strings.ToUpper(f.group),
		SectionTitle: f.section,
	}
	if f.weight != "" {
		w, err := strconv.ParseFloat(f.weight, 64)
		if err != nil {
			return d, fmt.Errorf("--weight: %w", err)
		}
		d.Weight = &w
	}
	if f.rest >= 0 {
		rest := f.rest
		d.RestTime = &rest
	}
	return model.ValidateDraft(d, ctx)
}

// index converts the 1-based --at flag to InsertAt's index; anything out
// of range appends.
func (f *entryFlags) index() int {
	if f.at < 1 {
		return -1
	}
	return f.at - 1
}

// position parses a 1-based position argument.
func position(arg string, n int) (int, error) {
	p, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	if p < 1 || p > n {
		return 0, fmt.Errorf("position %d out of range 1-%d", p, n)
	}
	return p - 1, nil
}
