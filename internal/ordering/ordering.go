package ordering

import (
	"slices"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortForDisplay returns entries in display order.
//
// Two entries are ordered by group label (locale-aware, ascending) only
// when both have a group and the groups differ; every other pair is
// ordered by Order. Ungrouped entries are therefore not pushed after
// grouped ones: they interleave by Order.
//
// The comparison is not transitive on mixed lists. Insertion sort leaves
// every adjacent pair in order, so sorting the result again is a no-op.
func SortForDisplay(entries []Entry) []Entry {
	out := clone(entries)
	// A collator keeps an internal buffer, so each call gets its own.
	col := collate.New(language.Und)
	less := func(a, b Entry) bool {
		if a.Group != "" && b.Group != "" && a.Group != b.Group {
			if c := col.CompareString(a.Group, b.Group); c != 0 {
				return c < 0
			}
			// Distinct labels the collator treats as equal still need a
			// deterministic, case-sensitive order.
			return a.Group < b.Group
		}
		return a.Order < b.Order
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Reindex returns a copy of entries with Order set to each entry's
// position. Nothing else is touched.
func Reindex(entries []Entry) []Entry {
	out := clone(entries)
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Move removes the entry at from and reinserts it at to. An out of range
// from leaves the list unchanged; to is clamped into range. Order values
// are left as they were, call Reindex before persisting.
func Move(entries []Entry, from, to int) []Entry {
	if from < 0 || from >= len(entries) {
		return clone(entries)
	}
	to = clamp(to, 0, len(entries)-1)

	out := clone(entries)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved)
}

// InsertAt places draft at index and reindexes the whole list. An index
// outside [0, len] appends. A draft without an ID gets a fresh one.
// Duplicate exercises are allowed here; rejecting them is a form concern.
func InsertAt(entries []Entry, draft Draft, index int) []Entry {
	if index < 0 || index > len(entries) {
		index = len(entries)
	}
	e := draft.Entry(index)
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	out := slices.Insert(clone(entries), index, e)
	return Reindex(out)
}

// Append is InsertAt at the end of the list.
func Append(entries []Entry, draft Draft) []Entry {
	return InsertAt(entries, draft, len(entries))
}

// RemoveAt drops the entry at index and reindexes. An out of range index
// is a no-op.
func RemoveAt(entries []Entry, index int) []Entry {
	if index < 0 || index >= len(entries) {
		return clone(entries)
	}
	out := slices.Delete(clone(entries), index, index+1)
	return Reindex(out)
}

// Canonical sorts for display and reindexes, the form entries take right
// before a write.
func Canonical(entries []Entry) []Entry {
	return Reindex(SortForDisplay(entries))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
