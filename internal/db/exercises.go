package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ramanasai/liftlog/internal/model"
)

const exerciseColumns = `id, name, kind, description, breakdown, created_at`

func scanExercise(row interface{ Scan(...any) error }) (model.Exercise, error) {
	var ex model.Exercise
	var kind, breakdown, created string
	if err := row.Scan(&ex.ID, &ex.Name, &kind, &ex.Description, &breakdown, &created); err != nil {
		return ex, err
	}
	ex.Kind = model.Kind(kind)
	ex.CreatedAt = parseTS(created)
	if breakdown != "" && breakdown != "[]" {
		if err := json.Unmarshal([]byte(breakdown), &ex.Breakdown); err != nil {
			return ex, fmt.Errorf("decode breakdown of %s: %w", ex.ID, err)
		}
	}
	return ex, nil
}

func encodeBreakdown(parts []model.ComplexPart) (string, error) {
	if len(parts) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(parts)
	return string(b), err
}

// CreateExercise validates and stores a catalog item, assigning an id when
// it has none.
func CreateExercise(dbh *sql.DB, ex model.Exercise) (model.Exercise, error) {
	ex.Name = strings.TrimSpace(ex.Name)
	if ex.Kind == "" {
		ex.Kind = model.KindExercise
	}
	if err := model.ValidateExercise(ex); err != nil {
		return ex, err
	}
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	breakdown, err := encodeBreakdown(ex.Breakdown)
	if err != nil {
		return ex, err
	}

	ts := now()
	_, err = dbh.Exec(`
		INSERT INTO exercises (id, name, kind, description, breakdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ex.ID, ex.Name, string(ex.Kind), ex.Description, breakdown, ts)
	if isUniqueViolation(err) {
		return ex, fmt.Errorf("exercise %q: %w", ex.Name, ErrDuplicateName)
	}
	if err != nil {
		return ex, fmt.Errorf("insert exercise: %w", err)
	}
	ex.CreatedAt = parseTS(ts)
	return ex, nil
}

// GetExercise retrieves a catalog item by id.
func GetExercise(dbh *sql.DB, id string) (model.Exercise, error) {
	ex, err := scanExercise(dbh.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ex, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return ex, err
}

// FindExercise resolves a user-supplied reference: an id first, then an
// exact case-insensitive name.
func FindExercise(dbh *sql.DB, ref string) (model.Exercise, error) {
	ref = strings.TrimSpace(ref)
	ex, err := scanExercise(dbh.QueryRow(`
		SELECT `+exerciseColumns+` FROM exercises WHERE id = ? OR name = ? COLLATE NOCASE
		ORDER BY CASE WHEN id = ? THEN 0 ELSE 1 END LIMIT 1
	`, ref, ref, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return ex, fmt.Errorf("exercise %q: %w", ref, ErrNotFound)
	}
	return ex, err
}

// ListExercises returns the catalog sorted by name, optionally limited to
// one kind.
func ListExercises(dbh *sql.DB, kind model.Kind) ([]model.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY name COLLATE NOCASE`
	return queryExercises(dbh, query, args...)
}

// SearchExercises matches names containing q.
func SearchExercises(dbh *sql.DB, q string, limit int) ([]model.Exercise, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	return queryExercises(dbh, `
		SELECT `+exerciseColumns+` FROM exercises
		WHERE LOWER(name) LIKE ?
		ORDER BY CASE WHEN LOWER(name) LIKE ? THEN 0 ELSE 1 END, name COLLATE NOCASE
		LIMIT ?
	`, pattern, strings.TrimPrefix(pattern, "%"), limit)
}

func queryExercises(dbh *sql.DB, query string, args ...any) ([]model.Exercise, error) {
	rows, err := dbh.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

// Catalog loads the whole catalog as an id index.
func Catalog(dbh *sql.DB) (model.CatalogMap, error) {
	all, err := ListExercises(dbh, "")
	if err != nil {
		return nil, err
	}
	return model.NewCatalog(all), nil
}

// UpdateExercise rewrites name, description and breakdown. The kind is
// fixed at creation.
func UpdateExercise(dbh *sql.DB, ex model.Exercise) error {
	current, err := GetExercise(dbh, ex.ID)
	if err != nil {
		return err
	}
	ex.Name = strings.TrimSpace(ex.Name)
	ex.Kind = current.Kind
	if err := model.ValidateExercise(ex); err != nil {
		return err
	}
	breakdown, err := encodeBreakdown(ex.Breakdown)
	if err != nil {
		return err
	}
	_, err = dbh.Exec(`UPDATE exercises SET name = ?, description = ?, breakdown = ? WHERE id = ?`,
		ex.Name, ex.Description, breakdown, ex.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("exercise %q: %w", ex.Name, ErrDuplicateName)
	}
	return err
}

// DeleteExercise removes a catalog item that no workout or template
// references.
func DeleteExercise(dbh *sql.DB, id string) error {
	var uses int
	err := dbh.QueryRow(`
		SELECT (SELECT COUNT(*) FROM workout_exercises WHERE exercise_id = ?)
		     + (SELECT COUNT(*) FROM template_exercises WHERE exercise_id = ?)
	`, id, id).Scan(&uses)
	if err != nil {
		return err
	}
	if uses > 0 {
		return fmt.Errorf("exercise %s (%d uses): %w", id, uses, ErrExerciseInUse)
	}

	res, err := dbh.Exec(`DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return nil
}
