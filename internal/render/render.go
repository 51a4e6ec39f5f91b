// Package render turns workouts, templates and the exercise catalog into
// terminal output. Entry lists always go through ordering.Decorate so the
// CLI, the TUI and the API's "display" field agree on labels, dividers and
// section headers.
package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
)

// Format represents different output formats
type Format string

const (
	FormatDefault Format = "default"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatCompact Format = "compact"
	FormatQuiet   Format = "quiet"
)

// ParseFormat validates a --format value. Empty means FormatDefault.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatDefault, nil
	case FormatDefault, FormatTable, FormatJSON, FormatCSV, FormatCompact, FormatQuiet:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (default|table|json|csv|compact|quiet)", s)
}

// Config contains configuration for output rendering
type Config struct {
	Format     Format
	Width      int
	Color      bool
	ShowID     bool
	WeightUnit string
}

// DefaultConfig sizes output from $COLUMNS.
func DefaultConfig() *Config {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}
	return &Config{
		Format:     FormatDefault,
		Width:      width,
		Color:      true,
		ShowID:     true,
		WeightUnit: "kg",
	}
}

// Styles contains lipgloss styles for different elements
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	ID        lipgloss.Style
	Label     lipgloss.Style
	Exercise  lipgloss.Style
	Detail    lipgloss.Style
	Section   lipgloss.Style
	Divider   lipgloss.Style
	Highlight lipgloss.Style
	Today     lipgloss.Style
	Error     lipgloss.Style
}

func newStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title: plain, Separator: plain, Meta: plain, ID: plain, Label: plain, Exercise: plain,
			Detail: plain, Section: plain, Divider: plain, Highlight: plain, Today: plain, Error: plain,
		}
	}
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		ID:        lipgloss.NewStyle().Faint(true),
		Label:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")),
		Exercise:  lipgloss.NewStyle().Bold(true),
		Detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")),
		Section:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#CBA6F7")),
		Divider:   lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A")),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Today:     lipgloss.NewStyle().Reverse(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
}

// Renderer handles output formatting
type Renderer struct {
	config  *Config
	styles  *Styles
	catalog model.Catalog
}

// NewRenderer creates a renderer. Exercise ids are shown through catalog;
// a nil catalog prints raw ids.
func NewRenderer(config *Config, catalog model.Catalog) *Renderer {
	if config == nil {
		config = DefaultConfig()
	}
	if catalog == nil {
		catalog = model.CatalogMap{}
	}
	return &Renderer{config: config, styles: newStyles(config.Color), catalog: catalog}
}

// Styles exposes the renderer's styles for callers composing their own
// layouts (the TUI).
func (r *Renderer) Styles() *Styles { return r.styles }

func (r *Renderer) rule() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.config.Width, 120)))
}

// Entries renders a sorted entry list: for each decorated entry a divider
// when the group changes, a section header when the title changes, then
// the entry line. A "+N more" line closes a truncated list.
func (r *Renderer) Entries(sorted []ordering.Entry, maxItems int) string {
	dec := ordering.Decorate(sorted, maxItems)
	if len(dec.Entries) == 0 {
		return r.styles.Meta.Render("  (no exercises)") + "\n"
	}

	var b strings.Builder
	for _, d := range dec.Entries {
		if d.ShowDivider {
			b.WriteString(r.styles.Divider.Render("  " + strings.Repeat("┄", 24)))
			b.WriteString("\n")
		}
		if d.ShowSectionHeader {
			b.WriteString(r.styles.Section.Render("  " + d.SectionTitle))
			b.WriteString("\n")
		}
		b.WriteString(r.EntryLine(d))
		b.WriteString("\n")
	}
	if dec.Remaining > 0 {
		b.WriteString(r.styles.Meta.Render(fmt.Sprintf("  +%d more", dec.Remaining)))
		b.WriteString("\n")
	}
	return b.String()
}

// EntryLine renders one decorated entry without trailing newline.
func (r *Renderer) EntryLine(d ordering.DecoratedEntry) string {
	label := fmt.Sprintf("%-4s", d.DisplayLabel)
	line := "  " + r.styles.Label.Render(label) + r.styles.Exercise.Render(r.catalog.ExerciseName(d.Entry.ExerciseID))
	line += "  " + r.styles.Detail.Render(r.Prescription(d.Entry))
	if d.Entry.Notes != "" {
		line += "  " + r.styles.Meta.Render("· "+d.Entry.Notes)
	}
	return line
}

// Prescription formats sets, reps, load and rest: "3 × 10,8,6 @ 60 kg, rest 90s".
func (r *Renderer) Prescription(e ordering.Entry) string {
	reps := e.Reps
	if e.Unit == ordering.UnitTime {
		reps = strings.ReplaceAll(reps, ",", "s,") + "s"
	}
	s := fmt.Sprintf("%d × %s", e.Sets, reps)
	// No weight means bodyweight.
	if e.Weight != nil {
		s += " @ " + strconv.FormatFloat(*e.Weight, 'f', -1, 64) + " " + r.config.WeightUnit
	}
	if e.RestTime != nil {
		s += fmt.Sprintf(", rest %ds", *e.RestTime)
	}
	return s
}

// Tags renders "#tag" chips in their tag colors.
func (r *Renderer) Tags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		st := lipgloss.NewStyle()
		if r.config.Color {
			st = st.Foreground(model.TagColor(t))
		}
		parts = append(parts, st.Render("#"+t))
	}
	return strings.Join(parts, " ")
}

// escapeCSV quotes a field when it contains a separator, quote or newline.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
