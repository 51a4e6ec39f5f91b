package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("name already in use")
	ErrExerciseInUse = errors.New("exercise is used by a workout or template")
	ErrDuplicateID   = errors.New("entry id listed twice")
	ErrUnknownRef    = errors.New("unknown exercise or template")
)

// DefaultPath returns ~/.local/share/liftlog/liftlog.db, creating the
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(home, ".local", "share", "liftlog")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(base, "liftlog.db"), nil
}

// Open opens (and migrates) the database at path. An empty path means
// DefaultPath.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// foreign_keys is per connection; a single connection keeps it on and
	// serializes writers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := EnsureWorkoutColumns(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(b)); err != nil {
		return errors.Join(fmt.Errorf("schema apply failed"), err)
	}
	return nil
}

// ------------------------------
// Workouts (idempotent upgrader)
// ------------------------------

// EnsureWorkoutColumns adds the columns that arrived after the first
// schema: duration and source template.
func EnsureWorkoutColumns(db *sql.DB) error {
	needDuration := true
	needTemplate := true

	rows, err := db.Query(`PRAGMA table_info(workouts)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		switch strings.ToLower(name) {
		case "duration_minutes":
			needDuration = false
		case "template_id":
			needTemplate = false
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if needDuration {
		if _, err := tx.Exec(`ALTER TABLE workouts ADD COLUMN duration_minutes INTEGER`); err != nil {
			return fmt.Errorf("add duration_minutes: %w", err)
		}
	}
	if needTemplate {
		if _, err := tx.Exec(`ALTER TABLE workouts ADD COLUMN template_id TEXT REFERENCES templates(id) ON DELETE SET NULL`); err != nil {
			return fmt.Errorf("add template_id: %w", err)
		}
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_workouts_template ON workouts(template_id)`); err != nil {
		return err
	}
	return tx.Commit()
}

// ------------------------------
// Helpers
// ------------------------------

const tsLayout = "2006-01-02T15:04:05.000Z"

func now() string { return time.Now().UTC().Format(tsLayout) }

func parseTS(s string) time.Time {
	for _, layout := range []string{tsLayout, time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
