package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/render"
	"github.com/ramanasai/liftlog/internal/utils"
)

// CalendarHandler serves per-day workout counts.
type CalendarHandler struct {
	dbh      *sql.DB
	logger   *zap.Logger
	loc      *time.Location
	maxItems int
}

// NewCalendarHandler creates a CalendarHandler.
func NewCalendarHandler(dbh *sql.DB, logger *zap.Logger, loc *time.Location, maxItems int) *CalendarHandler {
	return &CalendarHandler{dbh: dbh, logger: logger, loc: loc, maxItems: maxItems}
}

type monthResponse struct {
	Month  string         `json:"month"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// Month handles GET /calendar?month=2026-04
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	month, err := utils.ParseMonth(r.URL.Query().Get("month"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "month: "+err.Error())
		return
	}
	first, last := db.MonthBounds(month)
	counts, err := db.GetWorkoutCountsByDate(h.dbh, first, last)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	writeJSON(w, http.StatusOK, monthResponse{Month: first.Format("2006-01"), Counts: counts, Total: total})
}

// Day handles GET /calendar/{date}
func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	day, err := utils.ParseDay(chi.URLParam(r, "date"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date: "+err.Error())
		return
	}
	workouts, err := db.GetWorkoutsByDate(h.dbh, day)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	out := make([]render.DisplayWorkout, len(workouts))
	for i, wo := range workouts {
		out[i] = render.WithDisplay(wo, h.maxItems)
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": day.Format("2006-01-02"), "workouts": out})
}

// Summary handles GET /summary?preset=week or ?from=&to=
func (h *CalendarHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	preset := q.Get("preset")
	if preset == "" {
		preset = "week"
	}
	from, to, err := utils.GetDateRange(preset, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "preset: "+err.Error())
		return
	}
	if v := q.Get("from"); v != "" {
		if from, err = utils.ParseDay(v, h.loc); err != nil {
			writeError(w, http.StatusBadRequest, "from: "+err.Error())
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = utils.ParseDay(v, h.loc); err != nil {
			writeError(w, http.StatusBadRequest, "to: "+err.Error())
			return
		}
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to is before from")
		return
	}
	s, err := db.LoadSummary(h.dbh, from, to)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
