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

// TemplateHandler serves workout templates.
type TemplateHandler struct {
	dbh      *sql.DB
	logger   *zap.Logger
	loc      *time.Location
	maxItems int
	entries  *EntryHandler
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(dbh *sql.DB, logger *zap.Logger, loc *time.Location, maxItems int) *TemplateHandler {
	return &TemplateHandler{
		dbh:      dbh,
		logger:   logger,
		loc:      loc,
		maxItems: maxItems,
		entries: &EntryHandler{
			dbh:      dbh,
			logger:   logger,
			maxItems: maxItems,
			ctx:      model.ForTemplate,
			load:     loadTemplateEntries,
			replace:  db.ReplaceTemplateEntries,
		},
	}
}

func loadTemplateEntries(dbh *sql.DB, ref string) (string, []ordering.Entry, error) {
	t, err := db.GetTemplate(dbh, ref)
	return t.ID, t.Entries, err
}

type templateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Entries     []ordering.Entry `json:"entries"`
}

type startWorkoutRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// List handles GET /templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	maxItems, err := intParam(r, "max", h.maxItems)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	templates, err := db.ListTemplates(h.dbh)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	out := make([]render.DisplayTemplate, len(templates))
	for i, t := range templates {
		out[i] = render.TemplateWithDisplay(t, maxItems)
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": out})
}

// Create handles POST /templates. Like workouts, a template needs at
// least one exercise, though its sets may be left at zero.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := model.ValidateEntries(req.Entries, model.ForTemplate); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	t := model.Template{Entries: req.Entries}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	created, err := db.CreateTemplate(h.dbh, t)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, render.TemplateWithDisplay(created, h.maxItems))
}

// Get handles GET /templates/{id}. The id may also be the template name.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	maxItems, err := intParam(r, "max", h.maxItems)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := db.GetTemplate(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, render.TemplateWithDisplay(t, maxItems))
}

// Update handles PATCH /templates/{id}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Entries != nil {
		writeError(w, http.StatusBadRequest, "entries are replaced with PUT /templates/{id}/entries")
		return
	}
	t, err := db.GetTemplate(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if err := db.UpdateTemplate(h.dbh, t); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	updated, err := db.GetTemplate(h.dbh, t.ID)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, render.TemplateWithDisplay(updated, h.maxItems))
}

// Delete handles DELETE /templates/{id}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := db.GetTemplate(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	if err := db.DeleteTemplate(h.dbh, t.ID); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Start handles POST /templates/{id}/start: it logs a new workout
// pre-filled from the template.
func (h *TemplateHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startWorkoutRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}
	day := req.Date
	if day == "" {
		day = "today"
	}
	date, err := utils.ParseDay(day, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date: "+err.Error())
		return
	}
	wo, err := db.StartWorkoutFromTemplate(h.dbh, chi.URLParam(r, "id"), req.Name, date)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, render.WithDisplay(wo, h.maxItems))
}
