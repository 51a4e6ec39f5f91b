package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
)

// entryTable names the child table and its parent column for workouts and
// templates, which share the entry layout.
type entryTable struct {
	table  string
	parent string
}

var (
	workoutEntries  = entryTable{table: "workout_exercises", parent: "workout_id"}
	templateEntries = entryTable{table: "template_exercises", parent: "template_id"}
)

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// load reads the entries of one parent in display order. Stored positions
// may be sparse or repeated in older data, so the rows go through
// SortForDisplay rather than trusting position alone.
func (t entryTable) load(q querier, parentID string) ([]ordering.Entry, error) {
	rows, err := q.Query(`
		SELECT id, exercise_id, sets, unit, reps, weight, rest_time,
		       COALESCE(notes,''), COALESCE(grp,''), COALESCE(section_title,''), position
		FROM `+t.table+`
		WHERE `+t.parent+` = ?
		ORDER BY position, rowid
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []ordering.Entry{}
	for rows.Next() {
		var e ordering.Entry
		var unit string
		var weight sql.NullFloat64
		var rest sql.NullInt64
		if err := rows.Scan(&e.ID, &e.ExerciseID, &e.Sets, &unit, &e.Reps, &weight, &rest,
			&e.Notes, &e.Group, &e.SectionTitle, &e.Order); err != nil {
			return nil, err
		}
		e.Unit = ordering.Unit(unit)
		if weight.Valid {
			w := weight.Float64
			e.Weight = &w
		}
		if rest.Valid {
			r := int(rest.Int64)
			e.RestTime = &r
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ordering.SortForDisplay(entries), nil
}

// replace deletes every entry of parentID and writes entries back with
// dense positions. Entries are expected in final display order already.
func (t entryTable) replace(tx *sql.Tx, parentID string, entries []ordering.Entry) error {
	if _, err := tx.Exec(`DELETE FROM `+t.table+` WHERE `+t.parent+` = ?`, parentID); err != nil {
		return fmt.Errorf("clear %s: %w", t.table, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO ` + t.table + `
		(` + t.parent + `, id, exercise_id, sets, unit, reps, weight, rest_time, notes, grp, section_title, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range ordering.Reindex(entries) {
		var weight, rest any
		if e.Weight != nil {
			weight = *e.Weight
		}
		if e.RestTime != nil {
			rest = *e.RestTime
		}
		if _, err := stmt.Exec(parentID, e.ID, e.ExerciseID, e.Sets, string(e.Unit), e.Reps, weight, rest,
			nullIfEmpty(e.Notes), nullIfEmpty(e.Group), nullIfEmpty(e.SectionTitle), e.Order); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("entry %s: %w", e.ID, ErrDuplicateID)
			}
			if isForeignKeyViolation(err) {
				return fmt.Errorf("entry %s references exercise %s: %w", e.ID, e.ExerciseID, ErrUnknownRef)
			}
			return fmt.Errorf("insert %s entry: %w", t.table, err)
		}
	}
	return nil
}

// withIDs normalizes entries and fills in missing ids.
func withIDs(entries []ordering.Entry) []ordering.Entry {
	out := make([]ordering.Entry, len(entries))
	for i, e := range entries {
		e = model.NormalizeEntry(e)
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		out[i] = e
	}
	return out
}

// freshIDs gives every entry a new id, used when entries are copied into
// another parent.
func freshIDs(entries []ordering.Entry) []ordering.Entry {
	out := make([]ordering.Entry, len(entries))
	for i, e := range entries {
		e.ID = uuid.NewString()
		out[i] = e
	}
	return out
}
