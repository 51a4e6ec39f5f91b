package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
)

// ExerciseHandler serves the exercise catalog.
type ExerciseHandler struct {
	dbh    *sql.DB
	logger *zap.Logger
}

// NewExerciseHandler creates an ExerciseHandler.
func NewExerciseHandler(dbh *sql.DB, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{dbh: dbh, logger: logger}
}

type exerciseRequest struct {
	Name        *string             `json:"name"`
	Kind        model.Kind          `json:"kind"`
	Description *string             `json:"description"`
	Breakdown   []model.ComplexPart `json:"breakdown"`
}

// List handles GET /exercises?kind=&q=
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		exercises []model.Exercise
		err       error
	)
	if search := q.Get("q"); search != "" {
		limit, perr := intParam(r, "limit", 20)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		exercises, err = db.SearchExercises(h.dbh, search, limit)
	} else {
		kind := model.Kind(q.Get("kind"))
		if kind != "" && !kind.Valid() {
			writeError(w, http.StatusBadRequest, "kind must be exercise or complex")
			return
		}
		exercises, err = db.ListExercises(h.dbh, kind)
	}
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercises": exercises})
}

// Create handles POST /exercises
func (h *ExerciseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	ex := model.Exercise{Kind: req.Kind, Breakdown: req.Breakdown}
	if req.Name != nil {
		ex.Name = *req.Name
	}
	if req.Description != nil {
		ex.Description = *req.Description
	}
	created, err := db.CreateExercise(h.dbh, ex)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /exercises/{id}. The id may also be an exact name.
func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	ex, err := db.FindExercise(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// Update handles PATCH /exercises/{id}. Only the fields present in the
// body change; kind is fixed at creation.
func (h *ExerciseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	ex, err := db.GetExercise(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	if req.Kind != "" && req.Kind != ex.Kind {
		writeError(w, http.StatusBadRequest, "kind cannot be changed")
		return
	}
	if req.Name != nil {
		ex.Name = *req.Name
	}
	if req.Description != nil {
		ex.Description = *req.Description
	}
	if req.Breakdown != nil {
		ex.Breakdown = req.Breakdown
	}
	if err := db.UpdateExercise(h.dbh, ex); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// Delete handles DELETE /exercises/{id}
func (h *ExerciseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := db.DeleteExercise(h.dbh, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
