package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeDaysRe = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks)(\s+ago)?$`)
	weekdayNames   = map[string]time.Weekday{
		"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
		"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	}
)

var dayFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2",
	"2 Jan",
}

// ParseDay parses a workout date. Accepted forms: today, yesterday,
// tomorrow, "3d", "2 weeks ago", "last monday"/"mon", and the layouts in
// dayFormats. The result is midnight in loc.
func ParseDay(input string, loc *time.Location) (time.Time, error) {
	return parseDayAt(input, time.Now().In(loc), loc)
}

func parseDayAt(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}
	today := midnight(now, loc)

	switch s {
	case "today", "now":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if m := relativeDaysRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "w") {
			n *= 7
		}
		return today.AddDate(0, 0, -n), nil
	}

	// "last mon" and bare weekday names both mean the most recent such day
	// before today.
	if wd, ok := weekdayNames[shortDay(strings.TrimPrefix(s, "last "))]; ok {
		back := (int(today.Weekday()) - int(wd) + 7) % 7
		if back == 0 {
			back = 7
		}
		return today.AddDate(0, 0, -back), nil
	}

	for _, layout := range dayFormats {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(input), loc)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		}
		return midnight(t, loc), nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", input)
}

// ParseMonth parses "2026-04", "04/2026", "Apr 2026" or "this"/"last"/"next"
// and returns the first day of that month. Empty input means this month.
func ParseMonth(input string, loc *time.Location) (time.Time, error) {
	return parseMonthAt(input, time.Now().In(loc), loc)
}

func parseMonthAt(input string, now time.Time, loc *time.Location) (time.Time, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	switch s := strings.TrimSpace(strings.ToLower(input)); s {
	case "", "this", "current":
		return first, nil
	case "last", "prev", "previous":
		return first.AddDate(0, -1, 0), nil
	case "next":
		return first.AddDate(0, 1, 0), nil
	}
	for _, layout := range []string{"2006-01", "01/2006", "Jan 2006", "January 2006", "200601"} {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(input), loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse month: %s (want YYYY-MM)", input)
}

// GetDateRange returns the inclusive first and last day for a preset.
func GetDateRange(preset string, loc *time.Location) (time.Time, time.Time, error) {
	return dateRangeAt(preset, time.Now().In(loc), loc)
}

func dateRangeAt(preset string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	today := midnight(now, loc)

	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "today":
		return today, today, nil
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return y, y, nil
	case "week":
		weekday := int(today.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		start := today.AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 6), nil
	case "month":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, -1), nil
	case "year":
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, -1), nil
	case "last7days", "last-7-days":
		return today.AddDate(0, 0, -6), today, nil
	case "last30days", "last-30-days":
		return today.AddDate(0, 0, -29), today, nil
	case "last90days", "last-90-days":
		return today.AddDate(0, 0, -89), today, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown date preset: %s", preset)
	}
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func shortDay(s string) string {
	if len(s) < 3 {
		return s
	}
	if _, ok := weekdayNames[s[:3]]; ok && strings.HasPrefix(longDay(s[:3]), s) {
		return s[:3]
	}
	return s
}

func longDay(short string) string {
	return strings.ToLower(weekdayNames[short].String())
}
