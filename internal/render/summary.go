package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
)

// Summary renders a training summary for a period.
func (r *Renderer) Summary(s db.PeriodSummary) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return marshal(s)
	case FormatCSV:
		var b strings.Builder
		b.WriteString("exercise,workouts,sets,reps,volume,top_weight,last_done\n")
		for _, ex := range s.Exercises {
			b.WriteString(strings.Join([]string{
				escapeCSV(ex.Name), strconv.Itoa(ex.Workouts), strconv.Itoa(ex.Sets), strconv.Itoa(ex.Reps),
				strconv.FormatFloat(ex.Volume, 'f', -1, 64), optFloat(ex.TopWeight), ex.LastDone.Format(model.DateLayout),
			}, ",") + "\n")
		}
		return b.String(), nil
	case FormatQuiet:
		return fmt.Sprintf("%d\n", s.Workouts), nil
	}

	var b strings.Builder
	period := s.From.Format(model.DateLayout)
	if !s.To.Equal(s.From) {
		period += " to " + s.To.Format(model.DateLayout)
	}
	b.WriteString(r.styles.Title.Render(period) + "\n")
	totals := fmt.Sprintf("%d workout%s, %d sets", s.Workouts, plural(s.Workouts), s.Sets)
	if s.Minutes > 0 {
		totals += fmt.Sprintf(", %d min", s.Minutes)
	}
	if s.Volume > 0 {
		totals += fmt.Sprintf(", %s %s lifted", strconv.FormatFloat(s.Volume, 'f', -1, 64), r.config.WeightUnit)
	}
	b.WriteString(r.styles.Meta.Render(totals) + "\n")
	if s.Workouts == 0 {
		return b.String(), nil
	}

	b.WriteString(r.rule() + "\n")
	for _, ex := range s.Exercises {
		line := fmt.Sprintf("  %-24s %3d sets", truncate(ex.Name, 24), ex.Sets)
		if ex.Workouts > 1 {
			line += fmt.Sprintf(" in %d workouts", ex.Workouts)
		}
		if ex.TopWeight != nil {
			line += r.styles.Detail.Render(fmt.Sprintf("  top %s %s", optFloat(ex.TopWeight), r.config.WeightUnit))
		}
		b.WriteString(line + "\n")
	}
	if r.config.Format == FormatCompact || len(s.Tags) == 0 {
		return b.String(), nil
	}
	tags := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		tags = append(tags, fmt.Sprintf("%s (%d)", r.Tags([]string{t.Tag}), t.Workouts))
	}
	b.WriteString("\n" + r.styles.Label.Render("Tags") + "  " + strings.Join(tags, "  ") + "\n")
	return b.String(), nil
}
