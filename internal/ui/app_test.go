package ui

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
)

type seeded struct {
	dbh     *sql.DB
	workout model.Workout
	ids     map[string]string
}

func seed(t *testing.T) seeded {
	t.Helper()
	dbh, err := db.Open(filepath.Join(t.TempDir(), "ui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })

	ids := map[string]string{}
	for _, name := range []string{"Back Squat", "Bench Press", "Barbell Row", "Deadlift"} {
		ex, err := db.CreateExercise(dbh, model.Exercise{Name: name})
		require.NoError(t, err)
		ids[name] = ex.ID
	}
	w, err := db.CreateWorkout(dbh, model.Workout{
		Name: "Full Body",
		Date: time.Now(),
		Entries: []ordering.Entry{
			{ExerciseID: ids["Back Squat"], Sets: 5, Reps: "5", Order: 0},
			{ExerciseID: ids["Bench Press"], Sets: 5, Reps: "5", Order: 1},
			{ExerciseID: ids["Barbell Row"], Sets: 3, Reps: "8", Order: 2},
		},
	})
	require.NoError(t, err)
	return seeded{dbh: dbh, workout: w, ids: ids}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg through Update and runs the returned command once,
// feeding its result back when it is one of our own messages.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case workoutSavedMsg, workoutsLoadedMsg, templatesLoadedMsg, calendarLoadedMsg, dayLoadedMsg:
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func loaded(t *testing.T, s seeded) Model {
	t.Helper()
	m := New(Options{DB: s.dbh, Location: time.Local})
	m = send(t, m, m.loadWorkoutsCmd()())
	require.Len(t, m.workouts, 1)
	return m
}

func exerciseOrder(entries []ordering.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ExerciseID
	}
	return out
}

func TestListAndDetailNavigation(t *testing.T) {
	s := seed(t)
	m := loaded(t, s)

	assert.Contains(t, m.View(), "Full Body")

	m = send(t, m, key("enter"))
	assert.Equal(t, modeDetail, m.mode)
	view := m.View()
	assert.Contains(t, view, "Back Squat")
	assert.Contains(t, view, "Barbell Row")

	m = send(t, m, key("j"))
	m = send(t, m, key("j"))
	m = send(t, m, key("j"))
	assert.Equal(t, 2, m.entryCursor)

	m = send(t, m, key("esc"))
	assert.Equal(t, modeList, m.mode)
}

func TestMoveAndRemoveEntries(t *testing.T) {
	s := seed(t)
	m := loaded(t, s)
	m = send(t, m, key("enter"))

	// move Back Squat below Bench Press
	m = send(t, m, key("J"))
	require.NoError(t, m.err)
	assert.Equal(t, 1, m.entryCursor)
	assert.Equal(t, []string{s.ids["Bench Press"], s.ids["Back Squat"], s.ids["Barbell Row"]}, exerciseOrder(m.current.Entries))

	stored, err := db.GetWorkout(s.dbh, s.workout.ID)
	require.NoError(t, err)
	assert.Equal(t, exerciseOrder(m.current.Entries), exerciseOrder(stored.Entries))

	m = send(t, m, key("x"))
	require.NoError(t, m.err)
	assert.Equal(t, []string{s.ids["Bench Press"], s.ids["Barbell Row"]}, exerciseOrder(m.current.Entries))
}

func TestAddEntryByTypedName(t *testing.T) {
	s := seed(t)
	m := loaded(t, s)
	m = send(t, m, key("enter"))
	m = send(t, m, key("a"))
	require.Equal(t, modeAddEntry, m.mode)

	for _, r := range "deadlift" {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = send(t, m, key("tab"))
	m = send(t, m, key("tab"))
	for _, r := range "3" {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = send(t, m, key("enter"))

	require.NoError(t, m.err)
	assert.Equal(t, modeDetail, m.mode)
	require.Len(t, m.current.Entries, 4)
	assert.Equal(t, s.ids["Deadlift"], m.current.Entries[1].ExerciseID)
	assert.Equal(t, "3", m.current.Entries[1].Reps)
}

func TestAddEntryRejectsDuplicate(t *testing.T) {
	s := seed(t)
	m := loaded(t, s)
	m = send(t, m, key("enter"))
	m = send(t, m, key("a"))

	for _, r := range "Bench Press" {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = send(t, m, key("tab"))
	m = send(t, m, key("tab"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	m = send(t, m, key("enter"))

	require.Error(t, m.err)
	assert.Equal(t, modeAddEntry, m.mode)
	stored, err := db.GetWorkout(s.dbh, s.workout.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Entries, 3)
}

func TestCalendarSelection(t *testing.T) {
	s := seed(t)
	m := loaded(t, s)

	m = send(t, m, key("c"))
	assert.Equal(t, modeCalendar, m.mode)
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, 1, m.calCounts[today])

	m = send(t, m, key("enter"))
	assert.True(t, m.calPreview)
	require.Len(t, m.calDay, 1)

	m = send(t, m, key("enter"))
	assert.Equal(t, modeDetail, m.mode)
	assert.Equal(t, s.workout.ID, m.current.ID)
}

func TestCalendarCrossesMonths(t *testing.T) {
	s := seed(t)
	m := loaded(t, s)
	m = send(t, m, key("c"))
	start := m.calMonth

	m = send(t, m, key("L"))
	assert.True(t, m.calMonth.After(start))
	assert.Empty(t, m.calCounts)

	m = send(t, m, key("t"))
	assert.Equal(t, start, m.calMonth)
}

func TestStartFromTemplate(t *testing.T) {
	s := seed(t)
	_, err := db.CreateTemplate(s.dbh, model.Template{
		Name:    "Pull Day",
		Entries: []ordering.Entry{{ExerciseID: s.ids["Deadlift"], Sets: 0, Reps: "5"}},
	})
	require.NoError(t, err)

	m := loaded(t, s)
	m = send(t, m, key("t"))
	require.Equal(t, modeTemplates, m.mode)
	require.Len(t, m.templates, 1)

	m = send(t, m, key("enter"))
	require.NoError(t, m.err)
	assert.Equal(t, modeDetail, m.mode)
	assert.Equal(t, "Pull Day", m.current.Name)
	require.Len(t, m.current.Entries, 1)
	assert.Equal(t, 1, m.current.Entries[0].Sets)
}
