package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
	"github.com/ramanasai/liftlog/internal/render"
	"github.com/ramanasai/liftlog/internal/utils"
)

// WorkoutHandler serves logged workouts.
type WorkoutHandler struct {
	dbh      *sql.DB
	logger   *zap.Logger
	loc      *time.Location
	maxItems int
	entries  *EntryHandler
}

// NewWorkoutHandler creates a WorkoutHandler. maxItems is the default
// display limit for decorated entry lists; 0 shows everything.
func NewWorkoutHandler(dbh *sql.DB, logger *zap.Logger, loc *time.Location, maxItems int) *WorkoutHandler {
	return &WorkoutHandler{
		dbh:      dbh,
		logger:   logger,
		loc:      loc,
		maxItems: maxItems,
		entries: &EntryHandler{
			dbh:      dbh,
			logger:   logger,
			maxItems: maxItems,
			ctx:      model.ForWorkout,
			load:     loadWorkoutEntries,
			replace:  db.ReplaceWorkoutEntries,
		},
	}
}

func loadWorkoutEntries(dbh *sql.DB, id string) (string, []ordering.Entry, error) {
	w, err := db.GetWorkout(dbh, id)
	return w.ID, w.Entries, err
}

type createWorkoutRequest struct {
	Name            string           `json:"name"`
	Date            string           `json:"date"`
	Notes           string           `json:"notes"`
	DurationMinutes *int             `json:"durationMinutes"`
	Tags            []string         `json:"tags"`
	Entries         []ordering.Entry `json:"entries"`
}

type updateWorkoutRequest struct {
	Name            *string   `json:"name"`
	Date            *string   `json:"date"`
	Notes           *string   `json:"notes"`
	DurationMinutes *int      `json:"durationMinutes"`
	ClearDuration   bool      `json:"clearDuration"`
	Tags            *[]string `json:"tags"`
}

type workoutListResponse struct {
	Workouts   []render.DisplayWorkout `json:"workouts"`
	Pagination utils.Pagination        `json:"pagination"`
}

func (h *WorkoutHandler) parseDate(s string) (time.Time, error) {
	if s == "" {
		return utils.ParseDay("today", h.loc)
	}
	return utils.ParseDay(s, h.loc)
}

// List handles GET /workouts?from=&to=&tag=&page=&limit=&max=
func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f db.WorkoutFilter
	var err error
	if s := q.Get("from"); s != "" {
		if f.From, err = utils.ParseDay(s, h.loc); err != nil {
			writeError(w, http.StatusBadRequest, "from: "+err.Error())
			return
		}
	}
	if s := q.Get("to"); s != "" {
		if f.To, err = utils.ParseDay(s, h.loc); err != nil {
			writeError(w, http.StatusBadRequest, "to: "+err.Error())
			return
		}
	}
	f.Tags = q["tag"]

	page, err := intParam(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	perPage, err := intParam(r, "limit", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxItems, err := intParam(r, "max", h.maxItems)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pag := utils.NewPagination(0, perPage, 1)
	f.Limit = pag.PerPage
	f.Offset = max(page-1, 0) * pag.PerPage
	workouts, total, err := db.ListWorkouts(h.dbh, f)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	pag = utils.NewPagination(total, pag.PerPage, page)
	if pag.Offset != f.Offset {
		// page was out of range and got clamped
		f.Limit, f.Offset = pag.LimitOffset()
		if workouts, _, err = db.ListWorkouts(h.dbh, f); err != nil {
			writeStoreError(w, r, h.logger, err)
			return
		}
	}

	resp := workoutListResponse{Workouts: make([]render.DisplayWorkout, len(workouts)), Pagination: pag}
	for i, wo := range workouts {
		resp.Workouts[i] = render.WithDisplay(wo, maxItems)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /workouts. A workout needs at least one exercise.
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWorkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	date, err := h.parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date: "+err.Error())
		return
	}
	if err := model.ValidateEntries(req.Entries, model.ForWorkout); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	created, err := db.CreateWorkout(h.dbh, model.Workout{
		Name:            req.Name,
		Date:            date,
		Notes:           req.Notes,
		DurationMinutes: req.DurationMinutes,
		Tags:            req.Tags,
		Entries:         req.Entries,
	})
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, render.WithDisplay(created, h.maxItems))
}

// Get handles GET /workouts/{id}?max=
func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	maxItems, err := intParam(r, "max", h.maxItems)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wo, err := db.GetWorkout(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, render.WithDisplay(wo, maxItems))
}

// Update handles PATCH /workouts/{id}. Entries are edited through the
// /entries routes.
func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateWorkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	wo, err := db.GetWorkout(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	if req.Name != nil {
		wo.Name = *req.Name
	}
	if req.Date != nil {
		if wo.Date, err = h.parseDate(*req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "date: "+err.Error())
			return
		}
	}
	if req.Notes != nil {
		wo.Notes = *req.Notes
	}
	if req.DurationMinutes != nil {
		wo.DurationMinutes = req.DurationMinutes
	}
	if req.ClearDuration {
		wo.DurationMinutes = nil
	}
	if req.Tags != nil {
		wo.Tags = *req.Tags
	}
	if err := db.UpdateWorkout(h.dbh, wo); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	updated, err := db.GetWorkout(h.dbh, wo.ID)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, render.WithDisplay(updated, h.maxItems))
}

// Delete handles DELETE /workouts/{id}
func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := db.DeleteWorkout(h.dbh, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tags handles GET /tags
func (h *WorkoutHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := db.AllTags(h.dbh)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}
