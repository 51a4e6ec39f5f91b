package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
	"github.com/ramanasai/liftlog/internal/templatefile"
)

var (
	tplDescription string
	tplFromWorkout string
	tplMax         int
	tplOutput      string
	tplEntry       entryFlags
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage reusable workout templates",
}

var templateNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a template, empty or copied from a workout",
	Example: `  liftlog template new "Lower A" -d "Squat focus"
  liftlog template new "Push" --from-workout 3f2a`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := model.Template{Name: args[0], Description: tplDescription}
		if tplFromWorkout != "" {
			w, err := findWorkout(tplFromWorkout)
			if err != nil {
				return err
			}
			for _, e := range w.Entries {
				e.ID = ""
				t.Entries = append(t.Entries, e)
			}
		}
		t, err := db.CreateTemplate(dbh, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created template %s with %d exercise%s\n", t.Name, len(t.Entries), plural(len(t.Entries)))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates, most used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := db.ListTemplates(dbh)
		if err != nil {
			return err
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		out, err := r.Templates(templates)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a template with its exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := db.GetTemplate(dbh, args[0])
		if err != nil {
			return err
		}
		limit := 0
		if cmd.Flags().Changed("max") {
			limit = tplMax
		}
		return printTemplate(cmd, t, limit)
	},
}

var templateAddEntryCmd = &cobra.Command{
	Use:   "add-entry <template> <exercise>",
	Short: "Add an exercise to a template",
	Example: `  liftlog template add-entry "Lower A" "Back Squat" --sets 5 --reps 5
  liftlog template add-entry "Lower A" "Walking Lunge" --reps 10 --group B --section Accessories`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := db.GetTemplate(dbh, args[0])
		if err != nil {
			return err
		}
		d, err := tplEntry.draft(args[1], model.ForTemplate)
		if err != nil {
			return err
		}
		if err := model.CheckDuplicate(t.Entries, d.ExerciseID); err != nil {
			return err
		}
		return saveTemplateEntries(cmd, t, ordering.InsertAt(t.Entries, d, tplEntry.index()))
	},
}

var templateMoveCmd = &cobra.Command{
	Use:   "move <template> <from> <to>",
	Short: "Move an exercise to another position (1-based)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := db.GetTemplate(dbh, args[0])
		if err != nil {
			return err
		}
		from, err := position(args[1], len(t.Entries))
		if err != nil {
			return err
		}
		to, err := position(args[2], len(t.Entries))
		if err != nil {
			return err
		}
		return saveTemplateEntries(cmd, t, ordering.Move(t.Entries, from, to))
	},
}

var templateRmEntryCmd = &cobra.Command{
	Use:   "rm-entry <template> <position>",
	Short: "Remove the exercise at a position (1-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := db.GetTemplate(dbh, args[0])
		if err != nil {
			return err
		}
		at, err := position(args[1], len(t.Entries))
		if err != nil {
			return err
		}
		return saveTemplateEntries(cmd, t, ordering.RemoveAt(t.Entries, at))
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete a template; workouts started from it are kept",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := db.GetTemplate(dbh, args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteTemplate(dbh, t.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", t.Name)
		return nil
	},
}

var templateExportCmd = &cobra.Command{
	Use:   "export <id|name>",
	Short: "Write a template as YAML",
	Example: `  liftlog template export "Lower A" > lower-a.yaml
  liftlog template export "Lower A" -o lower-a.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := db.GetTemplate(dbh, args[0])
		if err != nil {
			return err
		}
		catalog, err := db.Catalog(dbh)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if tplOutput != "" && tplOutput != "-" {
			f, err := os.Create(tplOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := templatefile.Write(w, templatefile.FromTemplate(t, catalog)); err != nil {
			return fmt.Errorf("export %s: %w", t.Name, err)
		}
		logger.Debug("template exported", zap.String("template", t.Name), zap.Int("entries", len(t.Entries)))
		return nil
	},
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create a template from a YAML file (- reads stdin)",
	Long: `Create a template from a YAML file written by "template export".
Exercises are matched by name against the catalog; every name must
already exist.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		file, err := templatefile.Read(r)
		if err != nil {
			return err
		}
		t, err := file.ToTemplate(func(name string) (string, error) {
			ex, err := db.FindExercise(dbh, name)
			if err != nil {
				return "", err
			}
			return ex.ID, nil
		})
		if err != nil {
			return err
		}
		if t, err = db.CreateTemplate(dbh, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported template %s with %d exercise%s\n", t.Name, len(t.Entries), plural(len(t.Entries)))
		return nil
	},
}

func saveTemplateEntries(cmd *cobra.Command, t model.Template, entries []ordering.Entry) error {
	stored, err := db.ReplaceTemplateEntries(dbh, t.ID, entries)
	if err != nil {
		return err
	}
	t.Entries = ordering.SortForDisplay(stored)
	return printTemplate(cmd, t, 0)
}

func printTemplate(cmd *cobra.Command, t model.Template, maxItems int) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	out, err := r.Template(t, maxItems)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func init() {
	templateNewCmd.Flags().StringVarP(&tplDescription, "description", "d", "", "Short description")
	templateNewCmd.Flags().StringVar(&tplFromWorkout, "from-workout", "", "Copy exercises from this workout")
	templateShowCmd.Flags().IntVar(&tplMax, "max", 0, "Show at most this many exercises")
	tplEntry.bind(templateAddEntryCmd, 0)
	templateExportCmd.Flags().StringVarP(&tplOutput, "output", "o", "", "Write to this file instead of stdout")

	templateCmd.AddCommand(templateNewCmd, templateListCmd, templateShowCmd, templateAddEntryCmd,
		templateMoveCmd, templateRmEntryCmd, templateDeleteCmd, templateExportCmd, templateImportCmd)
}
