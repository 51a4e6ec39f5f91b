// Package api exposes the liftlog store over a small JSON HTTP API.
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramanasai/liftlog/internal/version"
)

// Options configures NewRouter.
type Options struct {
	// APIKey enables bearer auth when non-empty.
	APIKey   string
	MaxItems int
	Location *time.Location
}

// NewRouter creates the chi router with all routes registered.
func NewRouter(dbh *sql.DB, opts Options, logger *zap.Logger) *chi.Mux {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	exercises := NewExerciseHandler(dbh, logger)
	workouts := NewWorkoutHandler(dbh, logger, opts.Location, opts.MaxItems)
	templates := NewTemplateHandler(dbh, logger, opts.Location, opts.MaxItems)
	calendar := NewCalendarHandler(dbh, logger, opts.Location, opts.MaxItems)

	r := chi.NewRouter()
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.GetShortVersion()})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(opts.APIKey))

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", exercises.List)
			r.Post("/", exercises.Create)
			r.Get("/{id}", exercises.Get)
			r.Patch("/{id}", exercises.Update)
			r.Delete("/{id}", exercises.Delete)
		})

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", workouts.List)
			r.Post("/", workouts.Create)
			r.Get("/{id}", workouts.Get)
			r.Patch("/{id}", workouts.Update)
			r.Delete("/{id}", workouts.Delete)
			r.Route("/{id}/entries", workouts.entries.routes)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templates.List)
			r.Post("/", templates.Create)
			r.Get("/{id}", templates.Get)
			r.Patch("/{id}", templates.Update)
			r.Delete("/{id}", templates.Delete)
			r.Post("/{id}/start", templates.Start)
			r.Route("/{id}/entries", templates.entries.routes)
		})

		r.Get("/tags", workouts.Tags)
		r.Get("/calendar", calendar.Month)
		r.Get("/calendar/{date}", calendar.Day)
		r.Get("/summary", calendar.Summary)
	})

	return r
}
