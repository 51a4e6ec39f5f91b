package db

import (
	"database/sql"
	"time"

	"github.com/ramanasai/liftlog/internal/model"
)

// GetWorkoutCountsByDate returns a map of YYYY-MM-DD to workout count for
// the inclusive date range.
func GetWorkoutCountsByDate(dbh *sql.DB, startDate, endDate time.Time) (map[string]int, error) {
	rows, err := dbh.Query(`
		SELECT date, COUNT(*)
		FROM workouts
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date
	`, startDate.Format(model.DateLayout), endDate.Format(model.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		counts[date] = count
	}
	return counts, rows.Err()
}

// GetWorkoutsByDate returns all workouts logged on a day.
func GetWorkoutsByDate(dbh *sql.DB, date time.Time) ([]model.Workout, error) {
	workouts, _, err := ListWorkouts(dbh, WorkoutFilter{From: date, To: date})
	return workouts, err
}

// MonthBounds returns the first and last day of t's month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first, first.AddDate(0, 1, -1)
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	d := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// CountWorkoutsSince counts workouts dated on or after since; the
// reminder uses it for the weekly tally.
func CountWorkoutsSince(dbh *sql.DB, since time.Time) (int, error) {
	var n int
	err := dbh.QueryRow(`SELECT COUNT(*) FROM workouts WHERE date >= ?`, since.Format(model.DateLayout)).Scan(&n)
	return n, err
}
