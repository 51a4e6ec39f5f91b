package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

type fixture struct {
	dbh     *sql.DB
	handler http.Handler
	squat   string
	bench   string
	row     string
}

func newFixture(t *testing.T, apiKey string) *fixture {
	t.Helper()
	dbh, err := db.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })

	f := &fixture{dbh: dbh}
	for name, dst := range map[string]*string{"Back Squat": &f.squat, "Bench Press": &f.bench, "Barbell Row": &f.row} {
		ex, err := db.CreateExercise(dbh, model.Exercise{Name: name})
		require.NoError(t, err)
		*dst = ex.ID
	}
	f.handler = NewRouter(dbh, Options{APIKey: apiKey, Location: time.UTC}, zap.NewNop())
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type displayEntry struct {
	Exercise struct {
		ID         string `json:"id"`
		ExerciseID string `json:"exerciseId"`
		Order      int    `json:"order"`
	} `json:"exercise"`
	DisplayLabel string `json:"displayLabel"`
	ShowDivider  bool   `json:"showDivider"`
}

type workoutBody struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Tags    []string       `json:"tags"`
	Display []displayEntry `json:"display"`
	Entries []struct {
		ExerciseID string `json:"exerciseId"`
	} `json:"entries"`
	Remaining int `json:"remaining"`
}

func entryBody(exerciseID, group string) map[string]any {
	return map[string]any{"exerciseId": exerciseID, "sets": 3, "reps": "8-10", "group": group}
}

func labels(d []displayEntry) []string {
	out := make([]string, len(d))
	for i, e := range d {
		out[i] = e.DisplayLabel
	}
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "secret")
	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBearerAuth(t *testing.T) {
	f := newFixture(t, "secret")

	w := f.do(t, http.MethodGet, "/exercises", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/exercises", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExerciseRoutes(t *testing.T) {
	f := newFixture(t, "")

	w := f.do(t, http.MethodPost, "/exercises", map[string]any{
		"name": "Clean Complex", "kind": "complex",
		"breakdown": []map[string]any{{"name": "Clean", "reps": 1}, {"name": "Front Squat", "reps": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Exercise](t, w)
	assert.Equal(t, model.KindComplex, created.Kind)

	w = f.do(t, http.MethodPost, "/exercises", map[string]any{"name": "back squat"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/exercises?kind=complex", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Exercises []model.Exercise `json:"exercises"`
	}](t, w)
	require.Len(t, list.Exercises, 1)
	assert.Equal(t, "Clean Complex", list.Exercises[0].Name)

	w = f.do(t, http.MethodGet, "/exercises?q=ba", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPatch, "/exercises/"+created.ID, map[string]any{"kind": "exercise"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPatch, "/exercises/"+created.ID, map[string]any{"description": "olympic"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "olympic", decode[model.Exercise](t, w).Description)

	w = f.do(t, http.MethodDelete, "/exercises/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodGet, "/exercises/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateWorkoutNeedsAnExercise(t *testing.T) {
	f := newFixture(t, "")

	w := f.do(t, http.MethodPost, "/workouts", map[string]any{"name": "Empty", "entries": []any{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Fields []model.FieldError `json:"fields"`
	}](t, w)
	require.NotEmpty(t, body.Fields)
	assert.Equal(t, "entries", body.Fields[0].Field)

	w = f.do(t, http.MethodPost, "/workouts", map[string]any{"name": "Bad", "surprise": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateWorkoutDecoratesEntries(t *testing.T) {
	f := newFixture(t, "")

	w := f.do(t, http.MethodPost, "/workouts", map[string]any{
		"name": "Push",
		"date": "2026-04-09",
		"tags": []string{"Upper Body"},
		"entries": []any{
			entryBody(f.row, "B"),
			entryBody(f.bench, "A"),
			entryBody(f.squat, "A"),
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	wo := decode[workoutBody](t, w)

	assert.Equal(t, []string{"upper-body"}, wo.Tags)
	assert.Equal(t, []string{"A1", "A2", "B1"}, labels(wo.Display))
	assert.True(t, wo.Display[2].ShowDivider)

	w = f.do(t, http.MethodGet, "/workouts/"+wo.ID+"?max=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[workoutBody](t, w)
	assert.Len(t, got.Display, 2)
	assert.Equal(t, 1, got.Remaining)
}

func TestWorkoutEntryRoutes(t *testing.T) {
	f := newFixture(t, "")

	w := f.do(t, http.MethodPost, "/workouts", map[string]any{
		"name": "Pull", "entries": []any{entryBody(f.row, "")},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[workoutBody](t, w).ID
	base := "/workouts/" + id + "/entries"

	w = f.do(t, http.MethodPost, base+"?at=0", entryBody(f.squat, ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = f.do(t, http.MethodPost, base, entryBody(f.bench, ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{f.squat, f.row, f.bench}, entryIDs(decode[workoutBody](t, w)))

	w = f.do(t, http.MethodPost, base, entryBody(f.bench, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, base+"/move", map[string]int{"from": 2, "to": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{f.bench, f.squat, f.row}, entryIDs(decode[workoutBody](t, w)))

	w = f.do(t, http.MethodDelete, base+"/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{f.bench, f.row}, entryIDs(decode[workoutBody](t, w)))

	w = f.do(t, http.MethodDelete, base+"/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPut, base, map[string]any{"entries": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, base, map[string]any{"entries": []any{entryBody(f.squat, "")}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{f.squat}, entryIDs(decode[workoutBody](t, w)))

	w = f.do(t, http.MethodPut, "/workouts/missing/entries", map[string]any{"entries": []any{entryBody(f.squat, "")}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func entryIDs(b workoutBody) []string {
	out := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		out[i] = e.ExerciseID
	}
	return out
}

func TestListWorkoutsPaginates(t *testing.T) {
	f := newFixture(t, "")
	for _, day := range []string{"2026-04-01", "2026-04-02", "2026-04-03"} {
		w := f.do(t, http.MethodPost, "/workouts", map[string]any{
			"name": "Day " + day, "date": day, "entries": []any{entryBody(f.squat, "")},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := f.do(t, http.MethodGet, "/workouts?limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Workouts   []workoutBody `json:"workouts"`
		Pagination struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}](t, w)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	require.Len(t, page.Workouts, 1)
	assert.Equal(t, "Day 2026-04-01", page.Workouts[0].Name)

	w = f.do(t, http.MethodGet, "/workouts?limit=2&page=9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Day 2026-04-01")

	w = f.do(t, http.MethodGet, "/workouts?from=2026-04-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Day 2026-04-01")

	w = f.do(t, http.MethodGet, "/workouts?from=someday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateStartAndCalendar(t *testing.T) {
	f := newFixture(t, "")

	w := f.do(t, http.MethodPost, "/templates", map[string]any{
		"name": "Lower",
		"entries": []any{
			map[string]any{"exerciseId": f.squat, "sets": 0, "reps": "5"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/templates/lower/entries", entryBody(f.row, ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/templates/Lower/start", map[string]string{"date": "2026-04-09"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	wo := decode[workoutBody](t, w)
	assert.Equal(t, "Lower", wo.Name)
	assert.Equal(t, []string{f.squat, f.row}, entryIDs(wo))

	w = f.do(t, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"usageCount":1`)

	w = f.do(t, http.MethodGet, "/calendar?month=2026-04", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cal := decode[monthResponse](t, w)
	assert.Equal(t, "2026-04", cal.Month)
	assert.Equal(t, 1, cal.Counts["2026-04-09"])
	assert.Equal(t, 1, cal.Total)

	w = f.do(t, http.MethodGet, "/calendar/2026-04-09", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), wo.ID)

	w = f.do(t, http.MethodGet, "/summary?from=2026-04-01&to=2026-04-30", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sum := decode[db.PeriodSummary](t, w)
	assert.Equal(t, 1, sum.Workouts)
	assert.Len(t, sum.Exercises, 2)

	w = f.do(t, http.MethodGet, "/summary?from=2026-04-30&to=2026-04-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodDelete, "/templates/Lower", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodGet, "/workouts/"+wo.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
