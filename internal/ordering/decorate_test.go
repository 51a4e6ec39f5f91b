package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(d Decorated) []string {
	out := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		out[i] = e.DisplayLabel
	}
	return out
}

func dividers(d Decorated) []bool {
	out := make([]bool, len(d.Entries))
	for i, e := range d.Entries {
		out[i] = e.ShowDivider
	}
	return out
}

func headers(d Decorated) []bool {
	out := make([]bool, len(d.Entries))
	for i, e := range d.Entries {
		out[i] = e.ShowSectionHeader
	}
	return out
}

func TestDecorateLabels(t *testing.T) {
	sorted := SortForDisplay([]Entry{mk("a0", "A", 0), mk("u", "", 1), mk("a2", "A", 2), mk("a3", "A", 3)})

	got := Decorate(sorted, 0)

	assert.Equal(t, []string{"A1", "", "A2", "A3"}, labels(got))
	assert.Equal(t, 0, got.Remaining)
}

func TestDecorateDividers(t *testing.T) {
	sorted := []Entry{mk("a", "A", 0), mk("a2", "A", 1), mk("b", "B", 2), mk("u", "", 3), mk("c", "C", 4)}

	got := Decorate(sorted, 0)

	assert.Equal(t, []string{"A1", "A2", "B1", "", "C1"}, labels(got))
	assert.Equal(t, []bool{false, false, true, false, true}, dividers(got))
}

func TestDecorateFirstEntryNeverHasDivider(t *testing.T) {
	got := Decorate([]Entry{mk("b", "B", 0)}, 0)
	require.Len(t, got.Entries, 1)
	assert.False(t, got.Entries[0].ShowDivider)
}

func TestDecorateSectionHeaders(t *testing.T) {
	sorted := []Entry{mk("1", "", 0), mk("2", "", 1), mk("3", "", 2), mk("4", "", 3), mk("5", "", 4)}
	sorted[0].SectionTitle = "Finisher"
	sorted[1].SectionTitle = "  Finisher "
	sorted[2].SectionTitle = ""
	sorted[3].SectionTitle = "   "
	sorted[4].SectionTitle = "Finisher"

	got := Decorate(sorted, 0)

	assert.Equal(t, []bool{true, false, false, false, true}, headers(got))
	assert.Equal(t, "Finisher", got.Entries[0].SectionTitle)
	assert.Equal(t, "", got.Entries[1].SectionTitle)
}

func TestDecorateTruncation(t *testing.T) {
	full := []Entry{mk("a", "A", 0), mk("a2", "A", 1), mk("b", "B", 2), mk("b2", "B", 3), mk("u", "", 4)}
	full[0].SectionTitle = "Main"

	truncated := Decorate(full, 2)
	alone := Decorate(full[:2], 0)

	require.Len(t, truncated.Entries, 2)
	assert.Equal(t, alone.Entries, truncated.Entries)
	assert.Equal(t, 3, truncated.Remaining)
	assert.Equal(t, 0, alone.Remaining)
}

func TestDecorateMaxItemsLargerThanList(t *testing.T) {
	got := Decorate([]Entry{mk("a", "A", 0)}, 10)
	assert.Len(t, got.Entries, 1)
	assert.Equal(t, 0, got.Remaining)
}

func TestDecorateEmpty(t *testing.T) {
	got := Decorate(nil, 3)
	assert.Empty(t, got.Entries)
	assert.Equal(t, 0, got.Remaining)
}
