package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Thursday.
var refNow = time.Date(2026, 4, 9, 15, 30, 0, 0, time.UTC)

func TestParseDay(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"today", "2026-04-09"},
		{" Yesterday ", "2026-04-08"},
		{"tomorrow", "2026-04-10"},
		{"3d", "2026-04-06"},
		{"2 days ago", "2026-04-07"},
		{"1w", "2026-04-02"},
		{"monday", "2026-04-06"},
		{"last thu", "2026-04-02"},
		{"2026-03-15", "2026-03-15"},
		{"2026/03/15", "2026-03-15"},
		{"Mar 15, 2026", "2026-03-15"},
		{"15 Mar", "2026-03-15"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseDayAt(tc.in, refNow, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Format("2006-01-02"))
			assert.Zero(t, got.Hour())
		})
	}
}

func TestParseDayRejects(t *testing.T) {
	for _, in := range []string{"", "  ", "someday", "month", "2026-13-01"} {
		_, err := parseDayAt(in, refNow, time.UTC)
		assert.Error(t, err, in)
	}
}

func TestParseMonth(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"", "2026-04-01"},
		{"last", "2026-03-01"},
		{"next", "2026-05-01"},
		{"2025-12", "2025-12-01"},
		{"02/2026", "2026-02-01"},
		{"Jan 2026", "2026-01-01"},
	} {
		got, err := parseMonthAt(tc.in, refNow, time.UTC)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.Format("2006-01-02"), tc.in)
	}

	_, err := parseMonthAt("April", refNow, time.UTC)
	assert.Error(t, err)
}

func TestDateRange(t *testing.T) {
	for _, tc := range []struct {
		preset   string
		from, to string
	}{
		{"today", "2026-04-09", "2026-04-09"},
		{"yesterday", "2026-04-08", "2026-04-08"},
		{"week", "2026-04-06", "2026-04-12"},
		{"month", "2026-04-01", "2026-04-30"},
		{"year", "2026-01-01", "2026-12-31"},
		{"last7days", "2026-04-03", "2026-04-09"},
	} {
		from, to, err := dateRangeAt(tc.preset, refNow, time.UTC)
		require.NoError(t, err, tc.preset)
		assert.Equal(t, tc.from, from.Format("2006-01-02"), tc.preset)
		assert.Equal(t, tc.to, to.Format("2006-01-02"), tc.preset)
	}

	_, _, err := dateRangeAt("fortnight", refNow, time.UTC)
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	p := NewPagination(57, 20, 2)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 20, p.Offset)
	start, end := p.Range()
	assert.Equal(t, 21, start)
	assert.Equal(t, 40, end)
	assert.Equal(t, "Showing 21-40 of 57 workouts (page 2 of 3)", p.FormatSummary("workout"))
	assert.Equal(t, "use --page 1 for previous, use --page 3 for next", p.FormatNavigation())

	last := NewPagination(57, 20, 99)
	assert.Equal(t, 3, last.Current)
	_, end = last.Range()
	assert.Equal(t, 57, end)
	assert.False(t, last.HasNext())

	empty := NewPagination(0, 0, 0)
	assert.Equal(t, 1, empty.Current)
	assert.Equal(t, 20, empty.PerPage)
	assert.Equal(t, "No workouts", empty.FormatSummary("workout"))
	assert.Empty(t, empty.FormatNavigation())
}
