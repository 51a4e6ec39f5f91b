package ordering

import "strconv"

// DecoratedEntry is an entry annotated for rendering. Callers draw, in
// order: a divider when ShowDivider, a header with SectionTitle when
// ShowSectionHeader, then the entry labelled with DisplayLabel.
type DecoratedEntry struct {
	Entry             Entry  `json:"exercise"`
	DisplayLabel      string `json:"displayLabel"`
	ShowDivider       bool   `json:"showDivider"`
	ShowSectionHeader bool   `json:"showSectionHeader"`
	SectionTitle      string `json:"sectionTitle,omitempty"`
}

// Decorated is the visible slice of a list plus how many entries were cut
// off by the item limit.
type Decorated struct {
	Entries   []DecoratedEntry `json:"entries"`
	Remaining int              `json:"remaining"`
}

// Decorate annotates entries that are already in SortForDisplay order.
//
// When maxItems > 0 only the first maxItems entries are kept, and labels,
// dividers and headers are computed against that visible slice alone.
func Decorate(sorted []Entry, maxItems int) Decorated {
	visible := sorted
	if maxItems > 0 && maxItems < len(sorted) {
		visible = sorted[:maxItems]
	}

	out := make([]DecoratedEntry, 0, len(visible))
	seen := make(map[string]int)
	for i, e := range visible {
		d := DecoratedEntry{Entry: e}

		if e.Group != "" {
			seen[e.Group]++
			d.DisplayLabel = e.Group + strconv.Itoa(seen[e.Group])
		}

		var prev *Entry
		if i > 0 {
			prev = &visible[i-1]
		}
		if prev != nil && e.Group != "" && prev.Group != e.Group {
			d.ShowDivider = true
		}

		if title := e.Title(); title != "" && (prev == nil || prev.Title() != title) {
			d.ShowSectionHeader = true
			d.SectionTitle = title
		}

		out = append(out, d)
	}

	return Decorated{
		Entries:   out,
		Remaining: len(sorted) - len(visible),
	}
}
