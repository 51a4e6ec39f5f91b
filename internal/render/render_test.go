package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
	"github.com/ramanasai/liftlog/internal/utils"
)

func plainRenderer(format Format) *Renderer {
	catalog := model.CatalogMap{
		"sq":   {ID: "sq", Name: "Squat"},
		"bp":   {ID: "bp", Name: "Bench"},
		"row":  {ID: "row", Name: "Row"},
		"curl": {ID: "curl", Name: "Curl"},
	}
	return NewRenderer(&Config{Format: format, Width: 40, ShowID: true, WeightUnit: "kg"}, catalog)
}

func ptrF(f float64) *float64 { return &f }
func ptrI(i int) *int         { return &i }

func sampleEntries() []ordering.Entry {
	return []ordering.Entry{
		{ID: "1", ExerciseID: "sq", Sets: 2, Unit: ordering.UnitReps, Reps: "10", SectionTitle: "Warm-up", Order: 0},
		{ID: "2", ExerciseID: "bp", Sets: 3, Unit: ordering.UnitReps, Reps: "5", Weight: ptrF(100), Group: "A", SectionTitle: "Main", Order: 1},
		{ID: "3", ExerciseID: "row", Sets: 3, Unit: ordering.UnitReps, Reps: "8", RestTime: ptrI(90), Group: "A", SectionTitle: " Main ", Order: 2},
		{ID: "4", ExerciseID: "curl", Sets: 3, Unit: ordering.UnitReps, Reps: "12,10", Notes: "slow", Group: "B", SectionTitle: "Main", Order: 3},
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestEntriesRenderingContract(t *testing.T) {
	r := plainRenderer(FormatDefault)
	divider := "  " + strings.Repeat("┄", 24)

	assert.Equal(t, []string{
		"  Warm-up",
		"      Squat  2 × 10",
		divider,
		"  Main",
		"  A1  Bench  3 × 5 @ 100 kg",
		"  A2  Row  3 × 8, rest 90s",
		divider,
		"  B1  Curl  3 × 12,10  · slow",
	}, lines(r.Entries(sampleEntries(), 0)))
}

func TestEntriesTruncated(t *testing.T) {
	r := plainRenderer(FormatDefault)
	got := lines(r.Entries(sampleEntries(), 2))
	require.Len(t, got, 6)
	assert.Equal(t, "  A1  Bench  3 × 5 @ 100 kg", got[4])
	assert.Equal(t, "  +2 more", got[5])
}

func TestEntriesEmpty(t *testing.T) {
	assert.Equal(t, "  (no exercises)\n", plainRenderer(FormatDefault).Entries(nil, 0))
}

func TestPrescriptionTimeUnit(t *testing.T) {
	r := plainRenderer(FormatDefault)
	e := ordering.Entry{Sets: 3, Unit: ordering.UnitTime, Reps: "30,45"}
	assert.Equal(t, "3 × 30s,45s", r.Prescription(e))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatDefault, f)

	f, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func sampleList() *WorkoutList {
	w := model.Workout{
		ID:      "0123456789abcdef",
		Name:    "Push, heavy",
		Date:    time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		Tags:    []string{"strength"},
		Entries: sampleEntries(),
	}
	return &WorkoutList{Workouts: []model.Workout{w}, Pagination: utils.NewPagination(1, 20, 1), MaxItems: 3}
}

func TestWorkoutListFormats(t *testing.T) {
	out, err := plainRenderer(FormatDefault).WorkoutList(sampleList())
	require.NoError(t, err)
	assert.Contains(t, out, "[01234567]  Mon 2026-04-06  Push, heavy  #strength")
	assert.Contains(t, out, "  +1 more")
	assert.Contains(t, out, "Showing 1-1 of 1 workout")

	out, err = plainRenderer(FormatCSV).WorkoutList(sampleList())
	require.NoError(t, err)
	rows := lines(out)
	require.Len(t, rows, 5)
	assert.Equal(t, `0123456789abcdef,2026-04-06,"Push, heavy",1,A1,Main,Bench,3,REPS,5,100,,,strength`, rows[2])
	assert.Equal(t, `0123456789abcdef,2026-04-06,"Push, heavy",3,B1,Main,Curl,3,REPS,"12,10",,,slow,strength`, rows[4])

	out, err = plainRenderer(FormatCompact).WorkoutList(sampleList())
	require.NoError(t, err)
	assert.Equal(t, "2026-04-06 Push, heavy: Squat, A1 Bench, A2 Row\n", out)

	out, err = plainRenderer(FormatQuiet).WorkoutList(sampleList())
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef\n", out)

	out, err = plainRenderer(FormatJSON).WorkoutList(sampleList())
	require.NoError(t, err)
	assert.Contains(t, out, `"workouts"`)
	assert.Contains(t, out, `"totalPages": 1`)
}

func TestWorkoutJSONIncludesDisplay(t *testing.T) {
	out, err := plainRenderer(FormatJSON).Workout(sampleList().Workouts[0], 2)
	require.NoError(t, err)
	assert.Contains(t, out, `"display"`)
	assert.Contains(t, out, `"displayLabel": "A1"`)
	assert.Contains(t, out, `"remaining": 2`)
}

func TestExercises(t *testing.T) {
	exs := []model.Exercise{
		{ID: "c1", Name: "Clean Complex", Kind: model.KindComplex, Breakdown: []model.ComplexPart{{Name: "Clean", Reps: 1}, {Name: "Jerk", Reps: 2}}},
		{ID: "e1", Name: "Deadlift", Kind: model.KindExercise},
	}
	out, err := plainRenderer(FormatDefault).Exercises(exs)
	require.NoError(t, err)
	assert.Contains(t, out, "[c1]  Clean Complex  1 Clean + 2 Jerk")

	out, err = plainRenderer(FormatCSV).Exercises(exs)
	require.NoError(t, err)
	assert.Contains(t, out, "c1,Clean Complex,complex,1 Clean + 2 Jerk,")
}

func TestCalendar(t *testing.T) {
	r := plainRenderer(FormatDefault)
	counts := map[string]int{"2026-04-06": 2, "2026-04-09": 1, "2026-04-30": 12}

	out := r.Calendar(time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), counts, CalendarOptions{})
	rows := lines(out)
	assert.Equal(t, "April 2026", rows[0])
	assert.Equal(t, " Mo  Tu  We  Th  Fr  Sa  Su", rows[1])
	// April 1st 2026 is a Wednesday.
	assert.True(t, strings.HasPrefix(rows[2], "          1 "), rows[2])
	assert.Contains(t, rows[3], "  6²")
	assert.Contains(t, rows[3], "  9•")
	assert.Contains(t, out, " 30⁺")
	assert.Equal(t, "15 workouts this month", rows[len(rows)-1])
	assert.Len(t, rows, 8)
}

func TestSummary(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	s := db.PeriodSummary{
		From:     day,
		To:       day.AddDate(0, 0, 6),
		Workouts: 2,
		Minutes:  75,
		Sets:     11,
		Volume:   4000,
		Exercises: []db.ExerciseSummary{
			{Name: "Squat", Workouts: 2, Sets: 8, Reps: 40, Volume: 4000, TopWeight: ptrF(100), LastDone: day.AddDate(0, 0, 2)},
			{Name: "Plank", Workouts: 1, Sets: 3, LastDone: day},
		},
		Tags: []db.TagSummary{{Tag: "strength", Workouts: 2}},
	}

	out, err := plainRenderer(FormatDefault).Summary(s)
	require.NoError(t, err)
	got := lines(out)
	assert.Equal(t, "2026-03-02 to 2026-03-08", got[0])
	assert.Equal(t, "2 workouts, 11 sets, 75 min, 4000 kg lifted", got[1])
	assert.Contains(t, out, "Squat")
	assert.Contains(t, out, "in 2 workouts  top 100 kg")
	assert.Contains(t, out, "#strength (2)")

	csv, err := plainRenderer(FormatCSV).Summary(s)
	require.NoError(t, err)
	assert.Equal(t, "Squat,2,8,40,4000,100,2026-03-04", lines(csv)[1])
	assert.Equal(t, "Plank,1,3,0,0,,2026-03-02", lines(csv)[2])

	empty, err := plainRenderer(FormatDefault).Summary(db.PeriodSummary{From: day, To: day})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-02", "0 workouts, 0 sets"}, lines(empty))
}
