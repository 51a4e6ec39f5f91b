// Package ordering keeps the exercise lists of workouts and templates in a
// canonical order and decorates them for display (group labels such as
// "A1", section headers and group dividers).
//
// Every function here is pure: inputs are never mutated and a fresh slice
// is returned.
package ordering

import "strings"

// Unit says how the numbers in Entry.Reps are read.
type Unit string

const (
	UnitReps Unit = "REPS"
	UnitTime Unit = "TIME"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == UnitReps || u == UnitTime
}

// Entry is one exercise row inside a workout or a template.
//
// Optional values use a single absent form: "" for strings and nil for
// numbers.
type Entry struct {
	ID           string   `json:"id" yaml:"id,omitempty"`
	ExerciseID   string   `json:"exerciseId" yaml:"exercise_id"`
	Sets         int      `json:"sets" yaml:"sets"`
	Unit         Unit     `json:"unit" yaml:"unit"`
	Reps         string   `json:"reps" yaml:"reps"`
	Weight       *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	RestTime     *int     `json:"restTime,omitempty" yaml:"rest_time,omitempty"`
	Notes        string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Group        string   `json:"group,omitempty" yaml:"group,omitempty"`
	SectionTitle string   `json:"sectionTitle,omitempty" yaml:"section_title,omitempty"`
	Order        int      `json:"order" yaml:"order"`
}

// Draft is an entry that has not been placed in a list yet. It carries no
// Order; ID may be empty, in which case InsertAt assigns one.
type Draft struct {
	ID           string   `json:"id,omitempty"`
	ExerciseID   string   `json:"exerciseId"`
	Sets         int      `json:"sets"`
	Unit         Unit     `json:"unit"`
	Reps         string   `json:"reps"`
	Weight       *float64 `json:"weight,omitempty"`
	RestTime     *int     `json:"restTime,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Group        string   `json:"group,omitempty"`
	SectionTitle string   `json:"sectionTitle,omitempty"`
}

// Entry converts the draft into an entry at the given order.
func (d Draft) Entry(order int) Entry {
	return Entry{
		ID:           d.ID,
		ExerciseID:   d.ExerciseID,
		Sets:         d.Sets,
		Unit:         d.Unit,
		Reps:         d.Reps,
		Weight:       d.Weight,
		RestTime:     d.RestTime,
		Notes:        d.Notes,
		Group:        d.Group,
		SectionTitle: d.SectionTitle,
		Order:        order,
	}
}

// Title returns the trimmed section title, "" meaning no title.
func (e Entry) Title() string {
	return strings.TrimSpace(e.SectionTitle)
}

func clone(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
