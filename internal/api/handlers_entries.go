package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramanasai/liftlog/internal/model"
	"github.com/ramanasai/liftlog/internal/ordering"
)

// EntryHandler serves the /{id}/entries routes shared by workouts and
// templates. Every mutation loads the current list, applies one ordering
// operation and writes the whole list back.
type EntryHandler struct {
	dbh      *sql.DB
	logger   *zap.Logger
	maxItems int
	ctx      model.ValidationContext
	load     func(dbh *sql.DB, ref string) (id string, entries []ordering.Entry, err error)
	replace  func(dbh *sql.DB, id string, entries []ordering.Entry) ([]ordering.Entry, error)
}

type entriesResponse struct {
	Entries   []ordering.Entry          `json:"entries"`
	Display   []ordering.DecoratedEntry `json:"display"`
	Remaining int                       `json:"remaining"`
}

type replaceEntriesRequest struct {
	Entries []ordering.Entry `json:"entries"`
}

type moveEntryRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *EntryHandler) respond(w http.ResponseWriter, r *http.Request, entries []ordering.Entry) {
	maxItems, err := intParam(r, "max", h.maxItems)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sorted := ordering.SortForDisplay(entries)
	dec := ordering.Decorate(sorted, maxItems)
	writeJSON(w, http.StatusOK, entriesResponse{Entries: sorted, Display: dec.Entries, Remaining: dec.Remaining})
}

// List handles GET /{id}/entries
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	_, entries, err := h.load(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	h.respond(w, r, entries)
}

// Replace handles PUT /{id}/entries. The body is the full list in the
// order the user arranged it; at least one entry is required.
func (h *EntryHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req replaceEntriesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := model.ValidateEntries(req.Entries, h.ctx); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	id, _, err := h.load(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	saved, err := h.replace(h.dbh, id, req.Entries)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	h.respond(w, r, saved)
}

// Insert handles POST /{id}/entries?at=N. Without at the entry is
// appended.
func (h *EntryHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var draft ordering.Draft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	at, err := intParam(r, "at", -1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, err = model.ValidateDraft(draft, h.ctx)
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}

	id, current, err := h.load(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	if err := model.CheckDuplicate(current, draft.ExerciseID); err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	saved, err := h.replace(h.dbh, id, ordering.InsertAt(current, draft, at))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	h.respond(w, r, saved)
}

// Move handles POST /{id}/entries/move
func (h *EntryHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	id, current, err := h.load(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	saved, err := h.replace(h.dbh, id, ordering.Move(current, req.From, req.To))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	h.respond(w, r, saved)
}

// Remove handles DELETE /{id}/entries/{index}
func (h *EntryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, err := intURLParam(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, current, err := h.load(h.dbh, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	if index < 0 || index >= len(current) {
		writeError(w, http.StatusNotFound, "no entry at that index")
		return
	}
	saved, err := h.replace(h.dbh, id, ordering.RemoveAt(current, index))
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}
	h.respond(w, r, saved)
}

func (h *EntryHandler) routes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/", h.Replace)
	r.Post("/", h.Insert)
	r.Post("/move", h.Move)
	r.Delete("/{index}", h.Remove)
}
