package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
)

// WorkoutFilter narrows ListWorkouts. Zero values mean "no bound".
type WorkoutFilter struct {
	From   time.Time
	To     time.Time
	Tags   []string
	Limit  int
	Offset int
}

const workoutColumns = `id, name, date, notes, duration_minutes, COALESCE(template_id,''), created_at, updated_at`

func scanWorkout(row interface{ Scan(...any) error }) (model.Workout, error) {
	var w model.Workout
	var date, created, updated string
	var dur sql.NullInt64
	if err := row.Scan(&w.ID, &w.Name, &date, &w.Notes, &dur, &w.TemplateID, &created, &updated); err != nil {
		return w, err
	}
	w.Date, _ = time.Parse(model.DateLayout, date)
	if dur.Valid {
		d := int(dur.Int64)
		w.DurationMinutes = &d
	}
	w.CreatedAt = parseTS(created)
	w.UpdatedAt = parseTS(updated)
	return w, nil
}

// CreateWorkout validates w and writes it with its tags and entries in a
// single transaction. Entries are stored in display order.
func CreateWorkout(dbh *sql.DB, w model.Workout) (model.Workout, error) {
	w.Name = strings.TrimSpace(w.Name)
	if err := model.ValidateName(w.Name); err != nil {
		return w, err
	}
	if len(w.Entries) > 0 {
		if err := model.ValidateEntries(w.Entries, model.ForWorkout); err != nil {
			return w, err
		}
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Date.IsZero() {
		w.Date = time.Now()
	}
	w.Entries = ordering.Canonical(withIDs(w.Entries))

	tx, err := dbh.Begin()
	if err != nil {
		return w, err
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	_, err = tx.Exec(`
		INSERT INTO workouts (id, name, date, notes, duration_minutes, template_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.Name, w.Date.Format(model.DateLayout), w.Notes, durationArg(w.DurationMinutes),
		nullIfEmpty(w.TemplateID), ts, ts)
	if isForeignKeyViolation(err) {
		return w, fmt.Errorf("template %s: %w", w.TemplateID, ErrUnknownRef)
	}
	if err != nil {
		return w, fmt.Errorf("insert workout: %w", err)
	}
	if err := replaceTags(tx, w.ID, w.Tags); err != nil {
		return w, err
	}
	if err := workoutEntries.replace(tx, w.ID, w.Entries); err != nil {
		return w, err
	}
	if err := tx.Commit(); err != nil {
		return w, err
	}

	w.Tags = model.SplitTags(strings.Join(w.Tags, ","))
	w.CreatedAt = parseTS(ts)
	w.UpdatedAt = w.CreatedAt
	return w, nil
}

// GetWorkout loads a workout with its tags and entries.
func GetWorkout(dbh *sql.DB, id string) (model.Workout, error) {
	w, err := scanWorkout(dbh.QueryRow(`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return w, fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return w, err
	}
	return w, fillWorkout(dbh, &w)
}

func fillWorkout(dbh *sql.DB, w *model.Workout) error {
	tags, err := loadTags(dbh, w.ID)
	if err != nil {
		return err
	}
	w.Tags = tags
	w.Entries, err = workoutEntries.load(dbh, w.ID)
	return err
}

// ListWorkouts returns matching workouts, newest first, and the total
// number of matches ignoring Limit/Offset.
func ListWorkouts(dbh *sql.DB, f WorkoutFilter) ([]model.Workout, int, error) {
	var conds []string
	var args []any
	if !f.From.IsZero() {
		conds = append(conds, "w.date >= ?")
		args = append(args, f.From.Format(model.DateLayout))
	}
	if !f.To.IsZero() {
		conds = append(conds, "w.date <= ?")
		args = append(args, f.To.Format(model.DateLayout))
	}
	for _, tag := range f.Tags {
		if tag = model.Slug(tag); tag != "" {
			conds = append(conds, "EXISTS (SELECT 1 FROM workout_tags t WHERE t.workout_id = w.id AND t.tag = ?)")
			args = append(args, tag)
		}
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := dbh.QueryRow(`SELECT COUNT(*) FROM workouts w`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + prefixed("w.", workoutColumns) + ` FROM workouts w` + where + ` ORDER BY w.date DESC, w.created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := dbh.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	workouts := []model.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		workouts = append(workouts, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range workouts {
		if err := fillWorkout(dbh, &workouts[i]); err != nil {
			return nil, 0, err
		}
	}
	return workouts, total, nil
}

// UpdateWorkout rewrites the metadata (name, date, notes, duration, tags)
// and leaves entries alone.
func UpdateWorkout(dbh *sql.DB, w model.Workout) error {
	w.Name = strings.TrimSpace(w.Name)
	if err := model.ValidateName(w.Name); err != nil {
		return err
	}

	tx, err := dbh.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE workouts SET name = ?, date = ?, notes = ?, duration_minutes = ?, updated_at = ?
		WHERE id = ?
	`, w.Name, w.Date.Format(model.DateLayout), w.Notes, durationArg(w.DurationMinutes), now(), w.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("workout %s: %w", w.ID, ErrNotFound)
	}
	if err := replaceTags(tx, w.ID, w.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceWorkoutEntries swaps the whole entry list of a workout. Entries
// must already be in the order the user arranged; they are reindexed.
// An empty list clears the workout.
func ReplaceWorkoutEntries(dbh *sql.DB, workoutID string, entries []ordering.Entry) ([]ordering.Entry, error) {
	if len(entries) > 0 {
		if err := model.ValidateEntries(entries, model.ForWorkout); err != nil {
			return nil, err
		}
	}
	entries = ordering.Reindex(withIDs(entries))

	tx, err := dbh.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE workouts SET updated_at = ? WHERE id = ?`, now(), workoutID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("workout %s: %w", workoutID, ErrNotFound)
	}
	if err := workoutEntries.replace(tx, workoutID, entries); err != nil {
		return nil, err
	}
	return entries, tx.Commit()
}

// DeleteWorkout removes a workout; entries and tags cascade.
func DeleteWorkout(dbh *sql.DB, id string) error {
	res, err := dbh.Exec(`DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	return nil
}

// ResolveWorkoutID expands an id prefix of at least four characters to
// the full workout id. Ambiguous prefixes are an error.
func ResolveWorkoutID(dbh *sql.DB, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if len(ref) < 4 {
		return "", fmt.Errorf("workout %q: %w", ref, ErrNotFound)
	}
	rows, err := dbh.Query(`SELECT id FROM workouts WHERE id = ? OR id LIKE ? || '%' ORDER BY id LIMIT 2`, ref, ref)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		if id == ref {
			return id, nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("workout %s: %w", ref, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("workout prefix %q is ambiguous", ref)
	}
}

// StartWorkoutFromTemplate creates a workout pre-populated with copies of
// the template's entries and bumps the template's usage.
func StartWorkoutFromTemplate(dbh *sql.DB, templateID, name string, date time.Time) (model.Workout, error) {
	tpl, err := GetTemplate(dbh, templateID)
	if err != nil {
		return model.Workout{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = tpl.Name
	}
	entries := freshIDs(tpl.Entries)
	// Template placeholders may have zero sets; a logged workout needs one.
	for i := range entries {
		if entries[i].Sets < 1 {
			entries[i].Sets = 1
		}
	}

	w, err := CreateWorkout(dbh, model.Workout{
		Name:       name,
		Date:       date,
		TemplateID: tpl.ID,
		Entries:    entries,
	})
	if err != nil {
		return w, err
	}
	if err := RecordTemplateUsage(dbh, tpl.ID); err != nil {
		return w, err
	}
	return w, nil
}

// ------------------------------
// Tags
// ------------------------------

func replaceTags(tx *sql.Tx, workoutID string, tags []string) error {
	if _, err := tx.Exec(`DELETE FROM workout_tags WHERE workout_id = ?`, workoutID); err != nil {
		return err
	}
	for _, tag := range model.SplitTags(strings.Join(tags, ",")) {
		if _, err := tx.Exec(`INSERT INTO workout_tags (workout_id, tag) VALUES (?, ?)`, workoutID, tag); err != nil {
			return fmt.Errorf("tag %s: %w", tag, err)
		}
	}
	return nil
}

func loadTags(q querier, workoutID string) ([]string, error) {
	rows, err := q.Query(`SELECT tag FROM workout_tags WHERE workout_id = ? ORDER BY tag`, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// AllTags returns every tag in use with its workout count, most used first.
func AllTags(dbh *sql.DB) (map[string]int, error) {
	rows, err := dbh.Query(`SELECT tag, COUNT(*) FROM workout_tags GROUP BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, err
		}
		counts[tag] = n
	}
	return counts, rows.Err()
}

func durationArg(d *int) any {
	if d == nil {
		return nil
	}
	return *d
}

func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		if strings.HasPrefix(p, "COALESCE(") {
			parts[i] = "COALESCE(" + prefix + strings.TrimPrefix(p, "COALESCE(")
			continue
		}
		parts[i] = prefix + p
	}
	return strings.Join(parts, ", ")
}
