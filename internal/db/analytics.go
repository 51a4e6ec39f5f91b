package db

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/liftlog/internal/model"
)

// ExerciseSummary is the training done on one exercise over a period.
type ExerciseSummary struct {
	ExerciseID string    `json:"exerciseId"`
	Name       string    `json:"name"`
	Workouts   int       `json:"workouts"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Volume     float64   `json:"volume"`
	TopWeight  *float64  `json:"topWeight,omitempty"`
	LastDone   time.Time `json:"lastDone"`
}

// TagSummary counts workouts per tag.
type TagSummary struct {
	Tag      string `json:"tag"`
	Workouts int    `json:"workouts"`
	Minutes  int    `json:"minutes"`
}

// PeriodSummary aggregates the workouts dated within [From, To].
type PeriodSummary struct {
	From      time.Time         `json:"from"`
	To        time.Time         `json:"to"`
	Workouts  int               `json:"workouts"`
	Minutes   int               `json:"minutes"`
	Sets      int               `json:"sets"`
	Volume    float64           `json:"volume"`
	Exercises []ExerciseSummary `json:"exercises"`
	Tags      []TagSummary      `json:"tags"`
}

// LoadSummary aggregates workouts, per-exercise work and tag usage for the
// inclusive day range. Exercises are ordered by sets done, then name.
func LoadSummary(dbh *sql.DB, from, to time.Time) (PeriodSummary, error) {
	s := PeriodSummary{From: from, To: to, Exercises: []ExerciseSummary{}, Tags: []TagSummary{}}
	lo, hi := from.Format(model.DateLayout), to.Format(model.DateLayout)

	err := dbh.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0)
		FROM workouts
		WHERE date >= ? AND date <= ?
	`, lo, hi).Scan(&s.Workouts, &s.Minutes)
	if err != nil {
		return s, fmt.Errorf("failed to count workouts: %w", err)
	}

	if s.Exercises, err = loadExerciseSummaries(dbh, lo, hi); err != nil {
		return s, err
	}
	for _, ex := range s.Exercises {
		s.Sets += ex.Sets
		s.Volume += ex.Volume
	}
	if s.Tags, err = loadTagSummaries(dbh, lo, hi); err != nil {
		return s, err
	}
	return s, nil
}

func loadExerciseSummaries(dbh *sql.DB, lo, hi string) ([]ExerciseSummary, error) {
	rows, err := dbh.Query(`
		SELECT e.id, e.name, w.id, w.date, we.sets, we.unit, we.reps, we.weight
		FROM workout_exercises we
		JOIN workouts w ON w.id = we.workout_id
		JOIN exercises e ON e.id = we.exercise_id
		WHERE w.date >= ? AND w.date <= ?
		ORDER BY w.date
	`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercise summary: %w", err)
	}
	defer rows.Close()

	byID := map[string]*ExerciseSummary{}
	seen := map[string]bool{}
	for rows.Next() {
		var (
			exID, name, workoutID, date, unit, reps string
			sets                                    int
			weight                                  sql.NullFloat64
		)
		if err := rows.Scan(&exID, &name, &workoutID, &date, &sets, &unit, &reps, &weight); err != nil {
			return nil, err
		}
		sum, ok := byID[exID]
		if !ok {
			sum = &ExerciseSummary{ExerciseID: exID, Name: name}
			byID[exID] = sum
		}
		if key := exID + "/" + workoutID; !seen[key] {
			seen[key] = true
			sum.Workouts++
		}
		sum.Sets += sets
		if day, err := time.Parse(model.DateLayout, date); err == nil && day.After(sum.LastDone) {
			sum.LastDone = day
		}
		if unit != "REPS" {
			continue
		}
		n := totalReps(sets, reps)
		sum.Reps += n
		if weight.Valid {
			sum.Volume += float64(n) * weight.Float64
			if sum.TopWeight == nil || weight.Float64 > *sum.TopWeight {
				w := weight.Float64
				sum.TopWeight = &w
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]ExerciseSummary, 0, len(byID))
	for _, s := range byID {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sets != out[j].Sets {
			return out[i].Sets > out[j].Sets
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func loadTagSummaries(dbh *sql.DB, lo, hi string) ([]TagSummary, error) {
	rows, err := dbh.Query(`
		SELECT t.tag, COUNT(*), COALESCE(SUM(w.duration_minutes), 0)
		FROM workout_tags t
		JOIN workouts w ON w.id = t.workout_id
		WHERE w.date >= ? AND w.date <= ?
		GROUP BY t.tag
		ORDER BY COUNT(*) DESC, t.tag
	`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag summary: %w", err)
	}
	defer rows.Close()

	out := []TagSummary{}
	for rows.Next() {
		var t TagSummary
		if err := rows.Scan(&t.Tag, &t.Workouts, &t.Minutes); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// totalReps reads a reps scheme: a single number repeats for every set,
// a comma list gives each set's reps.
func totalReps(sets int, reps string) int {
	parts := strings.Split(reps, ",")
	if len(parts) == 1 {
		n, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		return n * sets
	}
	total := 0
	for _, p := range parts {
		n, _ := strconv.Atoi(strings.TrimSpace(p))
		total += n
	}
	return total
}
