package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ramanasai/liftlog/internal/ordering"
)

// MaxGroupLen bounds superset labels ("A", "B2", ...).
const MaxGroupLen = 3

// FieldError is one rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rejected field of a form.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) addPrefixed(prefix string, other *ValidationError) {
	for _, f := range other.Fields {
		e.Fields = append(e.Fields, FieldError{Field: prefix + f.Field, Message: f.Message})
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidationContext tells ValidateDraft where the entry is headed.
// Templates may carry zero sets as a placeholder; logged workouts may not.
type ValidationContext int

const (
	ForWorkout ValidationContext = iota
	ForTemplate
)

// NormalizeDraft collapses whitespace-only optional strings to absent.
func NormalizeDraft(d ordering.Draft) ordering.Draft {
	d.ExerciseID = strings.TrimSpace(d.ExerciseID)
	d.Reps = strings.ReplaceAll(strings.TrimSpace(d.Reps), " ", "")
	d.Notes = strings.TrimSpace(d.Notes)
	d.Group = strings.TrimSpace(d.Group)
	d.SectionTitle = strings.TrimSpace(d.SectionTitle)
	if d.Unit == "" {
		d.Unit = ordering.UnitReps
	}
	return d
}

// ValidateDraft normalizes d and checks it. The returned error, if any, is
// a *ValidationError.
func ValidateDraft(d ordering.Draft, ctx ValidationContext) (ordering.Draft, error) {
	d = NormalizeDraft(d)
	verr := &ValidationError{}

	if d.ExerciseID == "" {
		verr.add("exerciseId", "is required")
	}
	minSets := 1
	if ctx == ForTemplate {
		minSets = 0
	}
	if d.Sets < minSets {
		verr.add("sets", "must be at least %d", minSets)
	}
	if !d.Unit.Valid() {
		verr.add("unit", "must be %s or %s", ordering.UnitReps, ordering.UnitTime)
	}
	if err := validateReps(d.Reps); err != nil {
		verr.add("reps", "%v", err)
	}
	if d.Weight != nil && (*d.Weight < 0 || math.IsNaN(*d.Weight) || math.IsInf(*d.Weight, 0)) {
		verr.add("weight", "must be a non-negative number")
	}
	if d.RestTime != nil && *d.RestTime < 0 {
		verr.add("restTime", "must not be negative")
	}
	if len([]rune(d.Group)) > MaxGroupLen {
		verr.add("group", "must be at most %d characters", MaxGroupLen)
	}

	return d, verr.orNil()
}

// validateReps accepts "12" or a per-set scheme like "12,10,8".
func validateReps(reps string) error {
	if reps == "" {
		return fmt.Errorf("is required")
	}
	for _, tok := range strings.Split(reps, ",") {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 {
			return fmt.Errorf("%q is not a positive number", tok)
		}
	}
	return nil
}

// ValidateEntries checks a whole entry list for one parent: at least one
// entry, each entry valid, and no exercise listed twice.
func ValidateEntries(entries []ordering.Entry, ctx ValidationContext) error {
	verr := &ValidationError{}
	if len(entries) == 0 {
		verr.add("entries", "at least one exercise is required")
	}
	seen := map[string]int{}
	for i, e := range entries {
		_, err := ValidateDraft(draftOf(e), ctx)
		if ve, ok := err.(*ValidationError); ok {
			verr.addPrefixed(fmt.Sprintf("entries[%d].", i), ve)
		}
		if prev, dup := seen[e.ExerciseID]; dup && e.ExerciseID != "" {
			verr.add(fmt.Sprintf("entries[%d].exerciseId", i), "already listed at entries[%d]", prev)
		} else {
			seen[e.ExerciseID] = i
		}
	}
	return verr.orNil()
}

// CheckDuplicate rejects adding an exercise that is already in the list.
func CheckDuplicate(entries []ordering.Entry, exerciseID string) error {
	for i, e := range entries {
		if e.ExerciseID == exerciseID {
			verr := &ValidationError{}
			verr.add("exerciseId", "already listed at position %d", i+1)
			return verr
		}
	}
	return nil
}

// ValidateName rejects blank names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Fields: []FieldError{{Field: "name", Message: "is required"}}}
	}
	return nil
}

// ValidateExercise checks a catalog item, including the complex breakdown
// rule: complexes need at least two parts, plain exercises none.
func ValidateExercise(ex Exercise) error {
	verr := &ValidationError{}
	if strings.TrimSpace(ex.Name) == "" {
		verr.add("name", "is required")
	}
	if !ex.Kind.Valid() {
		verr.add("kind", "must be %s or %s", KindExercise, KindComplex)
	}
	switch ex.Kind {
	case KindComplex:
		if len(ex.Breakdown) < 2 {
			verr.add("breakdown", "a complex needs at least two movements")
		}
		for i, p := range ex.Breakdown {
			if strings.TrimSpace(p.Name) == "" {
				verr.add(fmt.Sprintf("breakdown[%d].name", i), "is required")
			}
			if p.Reps < 1 {
				verr.add(fmt.Sprintf("breakdown[%d].reps", i), "must be at least 1")
			}
		}
	case KindExercise:
		if len(ex.Breakdown) > 0 {
			verr.add("breakdown", "only complexes have a breakdown")
		}
	}
	return verr.orNil()
}

func draftOf(e ordering.Entry) ordering.Draft {
	return ordering.Draft{
		ID:           e.ID,
		ExerciseID:   e.ExerciseID,
		Sets:         e.Sets,
		Unit:         e.Unit,
		Reps:         e.Reps,
		Weight:       e.Weight,
		RestTime:     e.RestTime,
		Notes:        e.Notes,
		Group:        e.Group,
		SectionTitle: e.SectionTitle,
	}
}

// NormalizeEntry applies NormalizeDraft to a placed entry, keeping its
// order.
func NormalizeEntry(e ordering.Entry) ordering.Entry {
	return NormalizeDraft(draftOf(e)).Entry(e.Order)
}
