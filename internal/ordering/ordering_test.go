package ordering

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(id, group string, order int) Entry {
	return Entry{ID: id, ExerciseID: "ex-" + id, Sets: 3, Unit: UnitReps, Reps: "10", Group: group, Order: order}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func orders(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Order
	}
	return out
}

func TestSortForDisplay(t *testing.T) {
	tests := []struct {
		name  string
		input []Entry
		want  []string
	}{
		{
			name:  "groups cluster and break ties by order",
			input: []Entry{mk("b0", "B", 0), mk("a1", "A", 1), mk("b2", "B", 2), mk("a3", "A", 3)},
			want:  []string{"a1", "a3", "b0", "b2"},
		},
		{
			name:  "ungrouped sorted by order",
			input: []Entry{mk("x", "", 2), mk("y", "", 0), mk("z", "", 1)},
			want:  []string{"y", "z", "x"},
		},
		{
			name:  "duplicate orders keep input order",
			input: []Entry{mk("first", "", 1), mk("second", "", 1), mk("zero", "", 0)},
			want:  []string{"zero", "first", "second"},
		},
		{
			name:  "ungrouped entries interleave by order",
			input: []Entry{mk("b0", "B", 0), mk("u1", "", 1), mk("a2", "A", 2)},
			want:  []string{"b0", "u1", "a2"},
		},
		{
			name:  "group comparison is case-sensitive",
			input: []Entry{mk("lower", "a", 0), mk("upper", "A", 1)},
			want:  []string{"lower", "upper"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortForDisplay(tt.input)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortForDisplayDoesNotMutateInput(t *testing.T) {
	input := []Entry{mk("b", "B", 0), mk("a", "A", 1)}
	_ = SortForDisplay(input)
	assert.Equal(t, []string{"b", "a"}, ids(input))
}

func TestSortForDisplayIdempotent(t *testing.T) {
	inputs := [][]Entry{
		{mk("b0", "B", 0), mk("a1", "A", 1), mk("b2", "B", 2), mk("a3", "A", 3)},
		{mk("c", "C", 5), mk("a", "A", 5), mk("b", "B", 5)},
		{mk("x", "", 3), mk("y", "", 3), mk("z", "", 0)},
	}
	for _, in := range inputs {
		once := SortForDisplay(in)
		twice := SortForDisplay(once)
		assert.Equal(t, once, twice)
	}
}

// randomEntries builds n entries with groups drawn from groups and orders
// drawn from [0, n), so ties and mixed grouped/ungrouped runs are common.
func randomEntries(r *rand.Rand, n int, groups []string) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = mk(fmt.Sprint(i), groups[r.Intn(len(groups))], r.Intn(n))
	}
	return out
}

func TestSortForDisplayStableOnLongLists(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		maxLen int
	}{
		{"mixed short", []string{"", "A", "B"}, 20},
		{"mixed long", []string{"", "A", "B"}, 80},
		{"mostly ungrouped", []string{"", "", "", "A", "B", "C"}, 64},
		{"grouped only", []string{"A", "B", "C"}, 64},
		{"ungrouped only", []string{""}, 64},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rand.New(rand.NewSource(42<<32 | int64(i)))
			for trial := 0; trial < 300; trial++ {
				in := randomEntries(r, 1+r.Intn(tt.maxLen), tt.groups)

				once := SortForDisplay(in)
				require.Equal(t, once, SortForDisplay(once), "trial %d: sorting twice changed the order", trial)

				want, got := ids(in), ids(once)
				sort.Strings(want)
				sort.Strings(got)
				require.Equal(t, want, got, "trial %d: not a permutation", trial)

				canonical := Reindex(once)
				require.Equal(t, canonical, Reindex(SortForDisplay(canonical)), "trial %d: reindex round trip drifted", trial)
			}
		})
	}
}

func TestReindex(t *testing.T) {
	input := []Entry{mk("a", "A", 7), mk("b", "", 7), mk("c", "B", 42)}
	input[1].SectionTitle = "Finisher"

	got := Reindex(input)

	assert.Equal(t, []int{0, 1, 2}, orders(got))
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	assert.Equal(t, "A", got[0].Group)
	assert.Equal(t, "Finisher", got[1].SectionTitle)
	assert.Equal(t, []int{7, 7, 42}, orders(input), "input must not change")
}

func TestReindexAfterSortIsIdempotent(t *testing.T) {
	input := []Entry{mk("b0", "B", 4), mk("a1", "A", 9), mk("u", "", 2), mk("a3", "A", 12)}

	once := Reindex(SortForDisplay(input))
	twice := Reindex(SortForDisplay(once))

	assert.Equal(t, once, twice)
}

func TestMove(t *testing.T) {
	base := []Entry{mk("a", "", 0), mk("b", "", 1), mk("c", "", 2), mk("d", "", 3)}

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"to end clamps", 0, 99, []string{"b", "c", "d", "a"}},
		{"to start clamps", 3, -5, []string{"d", "a", "b", "c"}},
		{"forward", 1, 2, []string{"a", "c", "b", "d"}},
		{"backward", 2, 0, []string{"c", "a", "b", "d"}},
		{"same index", 1, 1, []string{"a", "b", "c", "d"}},
		{"from out of range", 4, 0, []string{"a", "b", "c", "d"}},
		{"negative from", -1, 0, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move(base, tt.from, tt.to)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("keeps order values", func(t *testing.T) {
		got := Move(base, 0, 3)
		assert.Equal(t, []int{1, 2, 3, 0}, orders(got))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Empty(t, Move(nil, 0, 0))
	})
}

func TestInsertAt(t *testing.T) {
	base := []Entry{mk("a", "", 0), mk("b", "", 5), mk("c", "", 9)}
	draft := Draft{ID: "new", ExerciseID: "ex-new", Sets: 2, Unit: UnitTime, Reps: "30"}

	t.Run("middle", func(t *testing.T) {
		got := InsertAt(base, draft, 1)
		assert.Equal(t, []string{"a", "new", "b", "c"}, ids(got))
		assert.Equal(t, []int{0, 1, 2, 3}, orders(got))
	})

	t.Run("out of range appends", func(t *testing.T) {
		got := InsertAt(base, draft, 10)
		assert.Equal(t, []string{"a", "b", "c", "new"}, ids(got))
		assert.Equal(t, []int{0, 1, 2, 3}, orders(got))
	})

	t.Run("negative appends", func(t *testing.T) {
		got := InsertAt(base, draft, -1)
		assert.Equal(t, "new", got[3].ID)
	})

	t.Run("assigns id", func(t *testing.T) {
		d := draft
		d.ID = ""
		got := Append(base, d)
		require.Len(t, got, 4)
		assert.NotEmpty(t, got[3].ID)
		assert.Equal(t, UnitTime, got[3].Unit)
	})

	t.Run("duplicate exercise allowed", func(t *testing.T) {
		d := draft
		d.ExerciseID = "ex-a"
		got := Append(base, d)
		assert.Len(t, got, 4)
	})
}

func TestRemoveAt(t *testing.T) {
	base := []Entry{mk("a", "", 0), mk("b", "", 1), mk("c", "", 2)}

	got := RemoveAt(base, 1)
	assert.Equal(t, []string{"a", "c"}, ids(got))
	assert.Equal(t, []int{0, 1}, orders(got))

	assert.Equal(t, ids(base), ids(RemoveAt(base, 3)))
	assert.Len(t, base, 3)
}
