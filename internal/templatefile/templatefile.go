// Package templatefile reads and writes workout templates as YAML so they
// can be shared between databases. Exercises are referenced by name, not
// id.
package templatefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
)

// File is the on-disk form of a template.
type File struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Exercises   []Item `yaml:"exercises"`
}

// Item is one template entry.
type Item struct {
	Exercise string        `yaml:"exercise"`
	Sets     int           `yaml:"sets"`
	Unit     ordering.Unit `yaml:"unit,omitempty"`
	Reps     string        `yaml:"reps"`
	Weight   *float64      `yaml:"weight,omitempty"`
	RestTime *int          `yaml:"rest_time,omitempty"`
	Notes    string        `yaml:"notes,omitempty"`
	Group    string        `yaml:"group,omitempty"`
	Section  string        `yaml:"section,omitempty"`
}

// FromTemplate converts t to its file form. Entries keep their display
// order.
func FromTemplate(t model.Template, catalog model.Catalog) File {
	f := File{Name: t.Name, Description: t.Description, Exercises: make([]Item, 0, len(t.Entries))}
	for _, e := range ordering.SortForDisplay(t.Entries) {
		unit := e.Unit
		if unit == ordering.UnitReps {
			unit = ""
		}
		f.Exercises = append(f.Exercises, Item{
			Exercise: catalog.ExerciseName(e.ExerciseID),
			Sets:     e.Sets,
			Unit:     unit,
			Reps:     e.Reps,
			Weight:   e.Weight,
			RestTime: e.RestTime,
			Notes:    e.Notes,
			Group:    e.Group,
			Section:  e.Title(),
		})
	}
	return f
}

// Write encodes f as YAML.
func Write(w io.Writer, f File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return enc.Close()
}

// Read decodes a template file. Unknown keys are rejected.
func Read(r io.Reader) (File, error) {
	var f File
	data, err := io.ReadAll(r)
	if err != nil {
		return f, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, fmt.Errorf("template file is empty")
		}
		return f, fmt.Errorf("decode template: %w", err)
	}
	if strings.TrimSpace(f.Name) == "" {
		return f, fmt.Errorf("template file has no name")
	}
	return f, nil
}

// Resolver maps an exercise name to its catalog id.
type Resolver func(name string) (string, error)

// ToTemplate resolves exercise names and returns a template whose entries
// are ordered as listed in the file. Every unresolved name is reported.
func (f File) ToTemplate(resolve Resolver) (model.Template, error) {
	t := model.Template{Name: strings.TrimSpace(f.Name), Description: f.Description}
	var errs []error
	for i, item := range f.Exercises {
		id, err := resolve(strings.TrimSpace(item.Exercise))
		if err != nil {
			errs = append(errs, fmt.Errorf("exercises[%d] %q: %w", i, item.Exercise, err))
			continue
		}
		t.Entries = append(t.Entries, ordering.Entry{
			ExerciseID:   id,
			Sets:         item.Sets,
			Unit:         item.Unit,
			Reps:         item.Reps,
			Weight:       item.Weight,
			RestTime:     item.RestTime,
			Notes:        item.Notes,
			Group:        item.Group,
			SectionTitle: item.Section,
			Order:        i,
		})
	}
	if len(errs) > 0 {
		return t, errors.Join(errs...)
	}
	t.Entries = ordering.Reindex(t.Entries)
	return t, nil
}
