package model

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var tagPalette = []lipgloss.Color{
	"#89B4FA", // blue
	"#A6E3A1", // green
	"#F9E2AF", // yellow
	"#F5C2E7", // pink
	"#CBA6F7", // mauve
	"#94E2D5", // teal
	"#FAB387", // peach
	"#F38BA8", // red
}

var tagOverrides = map[string]lipgloss.Color{
	"strength":     "#F38BA8",
	"conditioning": "#FAB387",
	"mobility":     "#94E2D5",
	"deload":       "#6C7086",
}

// Slug normalizes a tag for storage and lookups.
func Slug(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return strings.Join(strings.Fields(tag), "-")
}

// SplitTags turns "a, b ,,c" into normalized, de-duplicated slugs.
func SplitTags(csv string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range strings.Split(csv, ",") {
		s := Slug(t)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// TagColor picks a stable display color for a tag.
func TagColor(tag string) lipgloss.Color {
	slug := Slug(tag)
	if c, ok := tagOverrides[slug]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(slug))
	return tagPalette[h.Sum32()%uint32(len(tagPalette))]
}
