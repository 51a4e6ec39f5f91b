package schedule

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/liftlog/internal/config"
)

// NextAt computes the next reminder time strictly after now that falls on
// a configured training day and is not a holiday. With no training days
// configured every day qualifies.
func NextAt(now time.Time, cfg config.Config) time.Time {
	loc := cfg.Location()
	now = now.In(loc)
	hour, minute := parseClock(cfg.Reminder.Time)

	days := map[string]bool{}
	for _, d := range cfg.Reminder.Workdays {
		if d = strings.TrimSpace(d); len(d) >= 3 {
			days[strings.ToLower(d[:3])] = true
		}
	}
	holidays := map[string]bool{}
	for _, h := range cfg.Reminder.Holidays {
		holidays[strings.TrimSpace(h)] = true
	}
	eligible := func(t time.Time) bool {
		if holidays[t.Format("2006-01-02")] {
			return false
		}
		return len(days) == 0 || days[strings.ToLower(t.Weekday().String()[:3])]
	}

	cand := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if !now.Before(cand) {
		cand = cand.AddDate(0, 0, 1)
	}
	// A year of holidays is the most that can block every candidate.
	for i := 0; i < 366 && !eligible(cand); i++ {
		cand = cand.AddDate(0, 0, 1)
	}
	return cand
}

// parseClock reads "HH:MM", falling back to 18:00.
func parseClock(s string) (int, int) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 18, 0
	}
	hour, err1 := strconv.Atoi(h)
	minute, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 18, 0
	}
	return hour, minute
}

// RunConfigured runs f at each scheduled reminder until ctx is canceled.
func RunConfigured(ctx context.Context, cfg config.Config, f func()) {
	runWith(ctx, cfg, time.Now, f)
}

func runWith(ctx context.Context, cfg config.Config, now func() time.Time, f func()) {
	t := time.NewTimer(time.Until(NextAt(now(), cfg)))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f()
			t.Reset(time.Until(NextAt(now(), cfg)))
		}
	}
}
