package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
	"github.com/ramanasai/liftlog/internal/utils"
)

// WorkoutList is one page of workouts plus the filters that produced it.
type WorkoutList struct {
	Workouts   []model.Workout   `json:"workouts"`
	Pagination utils.Pagination  `json:"pagination"`
	Filters    map[string]string `json:"filters,omitempty"`
	// MaxItems caps the entries shown under each workout in the default
	// format; 0 shows all.
	MaxItems int `json:"-"`
}

// WorkoutList renders list according to the configured format.
func (r *Renderer) WorkoutList(list *WorkoutList) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return marshal(list)
	case FormatCSV:
		return r.workoutsCSV(list), nil
	case FormatTable:
		return r.workoutsTable(list), nil
	case FormatCompact:
		return r.workoutsCompact(list), nil
	case FormatQuiet:
		var b strings.Builder
		for _, w := range list.Workouts {
			b.WriteString(w.ID + "\n")
		}
		return b.String(), nil
	default:
		return r.workoutsDefault(list), nil
	}
}

func (r *Renderer) workoutsDefault(list *WorkoutList) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render("Workouts"))
	for _, k := range []string{"from", "to", "tags"} {
		if v := list.Filters[k]; v != "" {
			b.WriteString("  " + r.styles.Separator.Render(k+" ") + r.styles.Meta.Render(v))
		}
	}
	b.WriteString("\n" + r.rule() + "\n")

	if len(list.Workouts) == 0 {
		b.WriteString(r.styles.Meta.Render("No workouts") + "\n")
		return b.String()
	}
	for _, w := range list.Workouts {
		b.WriteString(r.WorkoutHeader(w))
		b.WriteString(r.Entries(w.Entries, list.MaxItems))
		b.WriteString(r.rule() + "\n")
	}
	b.WriteString(r.styles.Meta.Render(list.Pagination.FormatSummary("workout")) + "\n")
	if nav := list.Pagination.FormatNavigation(); nav != "" {
		b.WriteString(r.styles.Meta.Render(nav) + "\n")
	}
	return b.String()
}

// WorkoutHeader renders the meta line and notes of a workout.
func (r *Renderer) WorkoutHeader(w model.Workout) string {
	var meta []string
	if r.config.ShowID {
		meta = append(meta, r.styles.ID.Render("["+shortID(w.ID)+"]"))
	}
	meta = append(meta, r.styles.Meta.Render(w.Date.Format("Mon 2006-01-02")), r.styles.Exercise.Render(w.Name))
	if w.DurationMinutes != nil {
		meta = append(meta, r.styles.Meta.Render(fmt.Sprintf("%dm", *w.DurationMinutes)))
	}
	if len(w.Tags) > 0 {
		meta = append(meta, r.Tags(w.Tags))
	}
	s := strings.Join(meta, "  ") + "\n"
	if w.Notes != "" {
		s += r.styles.Meta.Render("  "+w.Notes) + "\n"
	}
	return s
}

// Workout renders a single workout with all of its entries.
func (r *Renderer) Workout(w model.Workout, maxItems int) (string, error) {
	if r.config.Format == FormatJSON {
		return marshal(WithDisplay(w, maxItems))
	}
	return r.WorkoutHeader(w) + r.Entries(w.Entries, maxItems), nil
}

func (r *Renderer) workoutsCSV(list *WorkoutList) string {
	var b strings.Builder
	b.WriteString("workout_id,date,workout,position,label,section,exercise,sets,unit,reps,weight,rest_time,notes,tags\n")
	for _, w := range list.Workouts {
		for i, d := range ordering.Decorate(w.Entries, 0).Entries {
			row := []string{
				w.ID,
				w.Date.Format(model.DateLayout),
				escapeCSV(w.Name),
				strconv.Itoa(i),
				d.DisplayLabel,
				escapeCSV(d.Entry.Title()),
				escapeCSV(r.catalog.ExerciseName(d.Entry.ExerciseID)),
				strconv.Itoa(d.Entry.Sets),
				string(d.Entry.Unit),
				escapeCSV(d.Entry.Reps),
				optFloat(d.Entry.Weight),
				optInt(d.Entry.RestTime),
				escapeCSV(d.Entry.Notes),
				escapeCSV(strings.Join(w.Tags, " ")),
			}
			b.WriteString(strings.Join(row, ",") + "\n")
		}
	}
	return b.String()
}

func (r *Renderer) workoutsTable(list *WorkoutList) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s  %-10s  %-24s  %9s  %s\n", "ID", "DATE", "NAME", "EXERCISES", "TAGS"))
	b.WriteString(strings.Repeat("-", min(r.config.Width, 80)) + "\n")
	for _, w := range list.Workouts {
		b.WriteString(fmt.Sprintf("%-8s  %-10s  %-24s  %9d  %s\n",
			shortID(w.ID), w.Date.Format(model.DateLayout), truncate(w.Name, 24), len(w.Entries), strings.Join(w.Tags, ",")))
	}
	return b.String()
}

func (r *Renderer) workoutsCompact(list *WorkoutList) string {
	var b strings.Builder
	for _, w := range list.Workouts {
		names := make([]string, 0, len(w.Entries))
		for _, d := range ordering.Decorate(w.Entries, list.MaxItems).Entries {
			n := r.catalog.ExerciseName(d.Entry.ExerciseID)
			if d.DisplayLabel != "" {
				n = d.DisplayLabel + " " + n
			}
			names = append(names, n)
		}
		line := r.styles.Meta.Render(w.Date.Format(model.DateLayout)) + " " + r.styles.Exercise.Render(w.Name)
		if len(names) > 0 {
			line += ": " + truncate(strings.Join(names, ", "), 80)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// Templates renders the template list.
func (r *Renderer) Templates(templates []model.Template) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return marshal(templates)
	case FormatQuiet:
		var b strings.Builder
		for _, t := range templates {
			b.WriteString(t.ID + "\n")
		}
		return b.String(), nil
	case FormatCSV:
		var b strings.Builder
		b.WriteString("id,name,exercises,usage_count,last_used\n")
		for _, t := range templates {
			last := ""
			if t.LastUsed != nil {
				last = t.LastUsed.Format(time.RFC3339)
			}
			b.WriteString(strings.Join([]string{t.ID, escapeCSV(t.Name), strconv.Itoa(len(t.Entries)), strconv.Itoa(t.UsageCount), last}, ",") + "\n")
		}
		return b.String(), nil
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Templates") + "\n" + r.rule() + "\n")
	if len(templates) == 0 {
		b.WriteString(r.styles.Meta.Render("No templates") + "\n")
	}
	for _, t := range templates {
		used := "never used"
		if t.LastUsed != nil {
			used = fmt.Sprintf("used %d×, last %s", t.UsageCount, t.LastUsed.Local().Format(model.DateLayout))
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
			r.styles.ID.Render("["+shortID(t.ID)+"]"),
			r.styles.Exercise.Render(t.Name),
			r.styles.Meta.Render(fmt.Sprintf("%d exercises", len(t.Entries))),
			r.styles.Meta.Render(used)))
		if t.Description != "" && r.config.Format != FormatCompact {
			b.WriteString(r.styles.Meta.Render("  "+t.Description) + "\n")
		}
	}
	return b.String(), nil
}

// Template renders one template with its entries.
func (r *Renderer) Template(t model.Template, maxItems int) (string, error) {
	if r.config.Format == FormatJSON {
		return marshal(TemplateWithDisplay(t, maxItems))
	}
	s := r.styles.Title.Render(t.Name) + "  " + r.styles.ID.Render("["+shortID(t.ID)+"]") + "\n"
	if t.Description != "" {
		s += r.styles.Meta.Render("  "+t.Description) + "\n"
	}
	return s + r.Entries(t.Entries, maxItems), nil
}

// Exercises renders the catalog.
func (r *Renderer) Exercises(exercises []model.Exercise) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return marshal(exercises)
	case FormatQuiet:
		var b strings.Builder
		for _, ex := range exercises {
			b.WriteString(ex.Name + "\n")
		}
		return b.String(), nil
	case FormatCSV:
		var b strings.Builder
		b.WriteString("id,name,kind,breakdown,description\n")
		for _, ex := range exercises {
			b.WriteString(strings.Join([]string{ex.ID, escapeCSV(ex.Name), string(ex.Kind),
				escapeCSV(model.EncodeBreakdown(ex.Breakdown)), escapeCSV(ex.Description)}, ",") + "\n")
		}
		return b.String(), nil
	}

	var b strings.Builder
	for _, ex := range exercises {
		line := r.styles.ID.Render("["+shortID(ex.ID)+"]") + "  " + r.styles.Exercise.Render(ex.Name)
		if ex.Kind == model.KindComplex {
			line += "  " + r.styles.Detail.Render(model.EncodeBreakdown(ex.Breakdown))
		}
		if ex.Description != "" && r.config.Format != FormatCompact {
			line += "  " + r.styles.Meta.Render(ex.Description)
		}
		b.WriteString(line + "\n")
	}
	if len(exercises) == 0 {
		b.WriteString(r.styles.Meta.Render("No exercises") + "\n")
	}
	return b.String(), nil
}

// DisplayWorkout is a workout with its decorated entries, the JSON shape
// the API and --format json share.
type DisplayWorkout struct {
	model.Workout
	Display   []ordering.DecoratedEntry `json:"display"`
	Remaining int                       `json:"remaining"`
}

// WithDisplay decorates w's entries, truncated to maxItems.
func WithDisplay(w model.Workout, maxItems int) DisplayWorkout {
	dec := ordering.Decorate(w.Entries, maxItems)
	return DisplayWorkout{Workout: w, Display: dec.Entries, Remaining: dec.Remaining}
}

// DisplayTemplate is the template counterpart of DisplayWorkout.
type DisplayTemplate struct {
	model.Template
	Display   []ordering.DecoratedEntry `json:"display"`
	Remaining int                       `json:"remaining"`
}

// TemplateWithDisplay decorates t's entries, truncated to maxItems.
func TemplateWithDisplay(t model.Template, maxItems int) DisplayTemplate {
	dec := ordering.Decorate(t.Entries, maxItems)
	return DisplayTemplate{Template: t, Display: dec.Entries, Remaining: dec.Remaining}
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func optInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
