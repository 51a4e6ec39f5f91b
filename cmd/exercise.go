package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
)

var (
	exDescription string
	exKind        string
	exSearch      string
	exName        string
	exParts       string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalog",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := db.CreateExercise(dbh, model.Exercise{
			Name:        args[0],
			Kind:        model.KindExercise,
			Description: exDescription,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added exercise %s [%s]\n", ex.Name, ex.ID[:8])
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog exercises",
	Example: `  liftlog exercise list
  liftlog exercise list --kind complex
  liftlog exercise list --search squat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			exercises []model.Exercise
			err       error
		)
		if exSearch != "" {
			exercises, err = db.SearchExercises(dbh, exSearch, 50)
		} else {
			kind := model.Kind(exKind)
			if kind != "" && !kind.Valid() {
				return fmt.Errorf("--kind must be %s or %s", model.KindExercise, model.KindComplex)
			}
			exercises, err = db.ListExercises(dbh, kind)
		}
		if err != nil {
			return err
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		out, err := r.Exercises(exercises)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show one catalog item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := db.FindExercise(dbh, args[0])
		if err != nil {
			return err
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		out, err := r.Exercises([]model.Exercise{ex})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		if ex.Kind == model.KindComplex && outputFormat == "default" {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d reps per round\n", model.TotalReps(ex.Breakdown))
		}
		return nil
	},
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Rename or describe a catalog item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := db.FindExercise(dbh, args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if !flags.Changed("name") && !flags.Changed("description") && !flags.Changed("parts") {
			return fmt.Errorf("nothing to update - specify --name, --description or --parts")
		}
		if flags.Changed("name") {
			ex.Name = exName
		}
		if flags.Changed("description") {
			ex.Description = exDescription
		}
		if flags.Changed("parts") {
			if ex.Kind != model.KindComplex {
				return fmt.Errorf("%s is not a complex", ex.Name)
			}
			if ex.Breakdown, err = model.ParseBreakdown(exParts); err != nil {
				return err
			}
		}
		if err := db.UpdateExercise(dbh, ex); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", ex.Name)
		return nil
	},
}

var exerciseRmCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"delete"},
	Short:   "Remove an unused catalog item",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := db.FindExercise(dbh, args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteExercise(dbh, ex.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", ex.Name)
		return nil
	},
}

var complexCmd = &cobra.Command{
	Use:   "complex",
	Short: "Manage complexes (chained movements done as one set)",
}

var complexAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add a complex to the catalog",
	Example: `  liftlog complex add "Bear Complex" --parts "Power Clean:1,Front Squat:1,Push Press:1,Back Squat:1,Push Press:1"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parts, err := model.ParseBreakdown(exParts)
		if err != nil {
			return err
		}
		ex, err := db.CreateExercise(dbh, model.Exercise{
			Name:        args[0],
			Kind:        model.KindComplex,
			Description: exDescription,
			Breakdown:   parts,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added complex %s: %s\n", ex.Name, model.EncodeBreakdown(ex.Breakdown))
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exDescription, "description", "d", "", "Short description")
	exerciseListCmd.Flags().StringVar(&exKind, "kind", "", "Only this kind: exercise or complex")
	exerciseListCmd.Flags().StringVarP(&exSearch, "search", "s", "", "Match names containing this text")
	exerciseEditCmd.Flags().StringVar(&exName, "name", "", "New name")
	exerciseEditCmd.Flags().StringVarP(&exDescription, "description", "d", "", "New description")
	exerciseEditCmd.Flags().StringVar(&exParts, "parts", "", `Complex breakdown, e.g. "Clean:1,Front Squat:2"`)

	complexAddCmd.Flags().StringVar(&exParts, "parts", "", `Movements and reps, e.g. "Clean:1,Front Squat:2,Jerk:1"`)
	complexAddCmd.Flags().StringVarP(&exDescription, "description", "d", "", "Short description")
	_ = complexAddCmd.MarkFlagRequired("parts")

	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd, exerciseShowCmd, exerciseEditCmd, exerciseRmCmd)
	complexCmd.AddCommand(complexAddCmd)
}
