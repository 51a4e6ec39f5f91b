package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ComplexPart is one movement inside a complex, performed Reps times per
// repetition of the whole complex.
type ComplexPart struct {
	ExerciseID string `json:"exerciseId,omitempty"`
	Name       string `json:"name"`
	Reps       int    `json:"reps"`
}

// EncodeBreakdown renders parts the way they are shown next to a complex,
// e.g. "1 Clean + 2 Front Squat + 1 Jerk".
func EncodeBreakdown(parts []ComplexPart) string {
	chunks := make([]string, 0, len(parts))
	for _, p := range parts {
		chunks = append(chunks, fmt.Sprintf("%d %s", p.Reps, p.Name))
	}
	return strings.Join(chunks, " + ")
}

// ParseBreakdown reads the CLI form "Clean:1,Front Squat:2,Jerk:1". A part
// without ":n" counts one rep.
func ParseBreakdown(s string) ([]ComplexPart, error) {
	var parts []ComplexPart
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		name, reps := raw, 1
		if i := strings.LastIndex(raw, ":"); i >= 0 {
			name = strings.TrimSpace(raw[:i])
			n, err := strconv.Atoi(strings.TrimSpace(raw[i+1:]))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid rep count in %q", raw)
			}
			reps = n
		}
		if name == "" {
			return nil, fmt.Errorf("missing movement name in %q", raw)
		}
		parts = append(parts, ComplexPart{Name: name, Reps: reps})
	}
	return parts, nil
}

// TotalReps is the number of reps in one pass through the complex.
func TotalReps(parts []ComplexPart) int {
	total := 0
	for _, p := range parts {
		total += p.Reps
	}
	return total
}
