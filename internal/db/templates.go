package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
)

const templateColumns = `id, name, description, usage_count, last_used, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (model.Template, error) {
	var t model.Template
	var lastUsed sql.NullString
	var created, updated string
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.UsageCount, &lastUsed, &created, &updated); err != nil {
		return t, err
	}
	if lastUsed.Valid {
		lu := parseTS(lastUsed.String)
		t.LastUsed = &lu
	}
	t.CreatedAt = parseTS(created)
	t.UpdatedAt = parseTS(updated)
	return t, nil
}

// CreateTemplate stores a new template with its entries.
func CreateTemplate(dbh *sql.DB, t model.Template) (model.Template, error) {
	t.Name = strings.TrimSpace(t.Name)
	if err := model.ValidateName(t.Name); err != nil {
		return t, err
	}
	if len(t.Entries) > 0 {
		if err := model.ValidateEntries(t.Entries, model.ForTemplate); err != nil {
			return t, err
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Entries = ordering.Canonical(withIDs(t.Entries))

	tx, err := dbh.Begin()
	if err != nil {
		return t, err
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	_, err = tx.Exec(`
		INSERT INTO templates (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Description, ts, ts)
	if isUniqueViolation(err) {
		return t, fmt.Errorf("template %q: %w", t.Name, ErrDuplicateName)
	}
	if err != nil {
		return t, fmt.Errorf("insert template: %w", err)
	}
	if err := templateEntries.replace(tx, t.ID, t.Entries); err != nil {
		return t, err
	}
	if err := tx.Commit(); err != nil {
		return t, err
	}
	t.CreatedAt = parseTS(ts)
	t.UpdatedAt = t.CreatedAt
	return t, nil
}

// GetTemplate retrieves a template by id, or by name when no id matches.
func GetTemplate(dbh *sql.DB, ref string) (model.Template, error) {
	t, err := scanTemplate(dbh.QueryRow(`
		SELECT `+templateColumns+` FROM templates WHERE id = ? OR name = ? COLLATE NOCASE
		ORDER BY CASE WHEN id = ? THEN 0 ELSE 1 END LIMIT 1
	`, ref, ref, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("template %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return t, err
	}
	t.Entries, err = templateEntries.load(dbh, t.ID)
	return t, err
}

// ListTemplates returns every template, most used first.
func ListTemplates(dbh *sql.DB) ([]model.Template, error) {
	rows, err := dbh.Query(`SELECT ` + templateColumns + ` FROM templates ORDER BY usage_count DESC, name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	templates := []model.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		templates = append(templates, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		if templates[i].Entries, err = templateEntries.load(dbh, templates[i].ID); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// UpdateTemplate rewrites name and description.
func UpdateTemplate(dbh *sql.DB, t model.Template) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := model.ValidateName(t.Name); err != nil {
		return err
	}
	res, err := dbh.Exec(`
		UPDATE templates SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`, t.Name, t.Description, now(), t.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("template %q: %w", t.Name, ErrDuplicateName)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

// ReplaceTemplateEntries swaps the whole entry list of a template.
func ReplaceTemplateEntries(dbh *sql.DB, templateID string, entries []ordering.Entry) ([]ordering.Entry, error) {
	if len(entries) > 0 {
		if err := model.ValidateEntries(entries, model.ForTemplate); err != nil {
			return nil, err
		}
	}
	entries = ordering.Reindex(withIDs(entries))

	tx, err := dbh.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE templates SET updated_at = ? WHERE id = ?`, now(), templateID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("template %s: %w", templateID, ErrNotFound)
	}
	if err := templateEntries.replace(tx, templateID, entries); err != nil {
		return nil, err
	}
	return entries, tx.Commit()
}

// DeleteTemplate deletes a template. Workouts started from it keep their
// entries and lose the link.
func DeleteTemplate(dbh *sql.DB, id string) error {
	res, err := dbh.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordTemplateUsage updates the usage count and last used timestamp.
func RecordTemplateUsage(dbh *sql.DB, id string) error {
	_, err := dbh.Exec(`
		UPDATE templates
		SET usage_count = usage_count + 1, last_used = ?
		WHERE id = ?
	`, now(), id)
	return err
}
