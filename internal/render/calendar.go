package render

import (
	"fmt"
	"strings"
	"time"
)

// CalendarOptions controls month grid markers.
type CalendarOptions struct {
	Today    time.Time
	Selected time.Time
	Legend   bool
}

// Calendar draws a Monday-first month grid. Days with workouts carry a
// marker: "•" for one, a superscript count for more (capped at "⁺").
func (r *Renderer) Calendar(month time.Time, counts map[string]int, opts CalendarOptions) string {
	year, mon, _ := month.Date()
	first := time.Date(year, mon, 1, 0, 0, 0, 0, month.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()
	// Monday = 0
	offset := (int(first.Weekday()) + 6) % 7

	var grid strings.Builder
	grid.WriteString(r.styles.Title.Render(first.Format("January 2006")))
	grid.WriteString("\n")
	grid.WriteString(r.styles.Meta.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))
	grid.WriteString("\n")

	total := 0
	for cell := 0; cell < 42; cell++ {
		day := cell - offset + 1
		if cell > 0 && cell%7 == 0 {
			grid.WriteString("\n")
			if day > daysInMonth {
				break
			}
		}
		if day < 1 || day > daysInMonth {
			grid.WriteString("    ")
			continue
		}

		date := time.Date(year, mon, day, 0, 0, 0, 0, first.Location())
		n := counts[date.Format("2006-01-02")]
		total += n

		text := fmt.Sprintf("%3d%s", day, marker(n))
		switch {
		case sameDay(date, opts.Selected):
			text = r.styles.Today.Render(text)
		case sameDay(date, opts.Today):
			text = r.styles.Highlight.Render(text)
		case n > 0:
			text = r.styles.Label.Render(text)
		}
		grid.WriteString(text)
	}
	if !strings.HasSuffix(grid.String(), "\n") {
		grid.WriteString("\n")
	}

	grid.WriteString(r.styles.Meta.Render(fmt.Sprintf("%d workout%s this month", total, plural(total))))
	grid.WriteString("\n")
	if opts.Legend {
		grid.WriteString(r.styles.Meta.Render("• one workout  ² count  ⁺ ten or more"))
		grid.WriteString("\n")
	}
	return grid.String()
}

var superscripts = []string{"⁰", "¹", "²", "³", "⁴", "⁵", "⁶", "⁷", "⁸", "⁹"}

func marker(n int) string {
	switch {
	case n <= 0:
		return " "
	case n == 1:
		return "•"
	case n <= 9:
		return superscripts[n]
	default:
		return "⁺"
	}
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
