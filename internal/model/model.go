// Package model holds the liftlog domain types: the exercise catalog,
// workouts, templates and tags, plus the form-boundary validation that
// runs before entries reach the ordering package.
package model

import (
	"time"

	"github.com/ramanasai/liftlog/internal/ordering"
)

// Kind separates plain exercises from complexes.
type Kind string

const (
	KindExercise Kind = "exercise"
	KindComplex  Kind = "complex"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindExercise || k == KindComplex
}

// Exercise is a catalog item. Complexes carry a Breakdown of their
// sub-movements; plain exercises never do.
type Exercise struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Kind        Kind          `json:"kind"`
	Description string        `json:"description,omitempty"`
	Breakdown   []ComplexPart `json:"breakdown,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Workout is one logged session.
type Workout struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Date            time.Time        `json:"date"`
	Notes           string           `json:"notes,omitempty"`
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
	TemplateID      string           `json:"templateId,omitempty"`
	Tags            []string         `json:"tags"`
	Entries         []ordering.Entry `json:"entries"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Template is a reusable, named list of exercises with default
// sets/reps/weight.
type Template struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Entries     []ordering.Entry `json:"entries"`
	UsageCount  int              `json:"usageCount"`
	LastUsed    *time.Time       `json:"lastUsed,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// DateLayout is the day-precision format workouts are stored and parsed
// with.
const DateLayout = "2006-01-02"

// Catalog resolves exercise ids to display names. Implementations are
// read-only.
type Catalog interface {
	ExerciseName(id string) string
}

// CatalogMap is an in-memory Catalog.
type CatalogMap map[string]Exercise

// ExerciseName implements Catalog; unknown ids render as the id itself.
func (c CatalogMap) ExerciseName(id string) string {
	if ex, ok := c[id]; ok {
		return ex.Name
	}
	return id
}

// NewCatalog indexes exercises by id.
func NewCatalog(exercises []Exercise) CatalogMap {
	c := make(CatalogMap, len(exercises))
	for _, ex := range exercises {
		c[ex.ID] = ex
	}
	return c
}
