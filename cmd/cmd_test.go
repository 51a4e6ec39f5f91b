package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/liftlog/internal/ordering"
)

type cli struct {
	base []string
}

func newCLI(t *testing.T) cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return cli{base: []string{
		"--db", filepath.Join(dir, "liftlog.db"),
		"--config", filepath.Join(dir, "config.yaml"),
		"--no-color",
	}}
}

// resetFlags puts every flag back to its default so runs don't leak into
// each other through cobra's package-level command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (c cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(append([]string{}, c.base...), args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c cli) must(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func (c cli) entries(t *testing.T, workoutID string) []string {
	t.Helper()
	var w struct {
		Entries []ordering.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(c.must(t, "workout", "show", workoutID, "--format", "json")), &w))
	ids := make([]string, len(w.Entries))
	for i, e := range w.Entries {
		ids[i] = e.ExerciseID
	}
	return ids
}

func exerciseID(t *testing.T, c cli, name string) string {
	t.Helper()
	var ex struct {
		ID string `json:"id"`
	}
	out := c.must(t, "exercise", "show", name, "--format", "json")
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	require.NoError(t, json.Unmarshal(list[0], &ex))
	return ex.ID
}

func TestWorkoutCommands(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.must(t, "exercise", "add", "Back Squat"), "Added exercise Back Squat")
	c.must(t, "exercise", "add", "Bench Press", "-d", "flat barbell")
	squat, bench := exerciseID(t, c, "back squat"), exerciseID(t, c, "Bench Press")

	assert.Contains(t, c.must(t, "workout", "new", "Legs", "--date", "2026-04-09", "--tags", "strength"), "Started Legs on 2026-04-09")
	id := strings.TrimSpace(c.must(t, "workout", "list", "--format", "quiet"))
	require.Len(t, id, 36)

	c.must(t, "workout", "add-entry", id[:8], "back squat", "--sets", "5", "--reps", "5", "--weight", "100")
	out := c.must(t, "workout", "add-entry", id, "Bench Press", "--reps", "8", "--at", "1")
	assert.Contains(t, out, "Bench Press")
	assert.Equal(t, []string{bench, squat}, c.entries(t, id))

	_, err := c.run(t, "workout", "add-entry", id, "Bench Press", "--reps", "8")
	assert.Error(t, err)
	_, err = c.run(t, "workout", "add-entry", id, "Deadlift", "--reps", "5")
	assert.Error(t, err)

	c.must(t, "workout", "move", id, "1", "2")
	assert.Equal(t, []string{squat, bench}, c.entries(t, id))

	_, err = c.run(t, "workout", "move", id, "1", "3")
	assert.Error(t, err)

	c.must(t, "workout", "edit", id, "--name", "Lower", "--duration", "45")
	assert.Contains(t, c.must(t, "workout", "show", id), "Lower")
	_, err = c.run(t, "workout", "edit", id)
	assert.Error(t, err)

	assert.Contains(t, c.must(t, "calendar", "--month", "2026-04"), "April 2026")

	c.must(t, "workout", "rm-entry", id, "2")
	assert.Equal(t, []string{squat}, c.entries(t, id))

	assert.Contains(t, c.must(t, "workout", "delete", id), "Deleted Lower")
	assert.Empty(t, strings.TrimSpace(c.must(t, "workout", "list", "--format", "quiet")))
}

func TestTemplateExportImport(t *testing.T) {
	c := newCLI(t)
	c.must(t, "exercise", "add", "Deadlift")
	c.must(t, "exercise", "add", "Pull-up")

	c.must(t, "template", "new", "Pull")
	c.must(t, "template", "add-entry", "Pull", "Deadlift", "--sets", "3", "--reps", "5")
	c.must(t, "template", "add-entry", "pull", "Pull-up", "--reps", "8", "--group", "a")
	assert.Contains(t, c.must(t, "template", "show", "Pull"), "A1")

	file := filepath.Join(t.TempDir(), "pull.yaml")
	c.must(t, "template", "export", "Pull", "-o", file)
	c.must(t, "template", "delete", "Pull")

	assert.Contains(t, c.must(t, "template", "import", file), "Imported template Pull with 2 exercises")
	assert.Contains(t, c.must(t, "template", "list"), "Pull")

	out := c.must(t, "workout", "new", "--from-template", "Pull", "--date", "2026-04-10")
	assert.Contains(t, out, "Started Pull on 2026-04-10")
}

func TestVersionSkipsDatabase(t *testing.T) {
	c := newCLI(t)
	out := c.must(t, "version")
	assert.Contains(t, out, "liftlog")
}
