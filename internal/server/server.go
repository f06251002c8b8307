package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	// RateLimit caps requests per client per minute on /api. Zero disables it.
	RateLimit int
	Logger    *log.Logger
}

type Server struct {
	store     *db.DB
	notes     *usecase.Notes
	notebooks *usecase.Notebooks
	nbRepo    *repository.Notebooks
	validate  *validator.Validate
	limiter   *RateLimiter
	log       *log.Logger
	router    *chi.Mux
}

func New(store *db.DB, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	nbRepo := repository.NewNotebooks(store)
	s := &Server{
		store:     store,
		notes:     usecase.NewNotes(repository.NewNotes(store, db.AllScope()), nbRepo),
		notebooks: usecase.NewNotebooks(nbRepo),
		nbRepo:    nbRepo,
		validate:  validator.New(),
		log:       opts.Logger,
		router:    chi.NewRouter(),
	}
	if opts.RateLimit > 0 {
		s.limiter = NewRateLimiter(opts.RateLimit, time.Minute)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metricsMiddleware)

	s.router.Get("/health", s.healthHandler)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}

		// Streams stay open for as long as the client listens.
		r.Get("/notes/stream", s.streamNotesHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Get("/notes", s.listNotesHandler)
			r.Post("/notes", s.createNoteHandler)
			r.Post("/notes/restore", s.restoreNotesHandler)
			r.Post("/notes/purge", s.purgeNotesHandler)
			r.Get("/notes/{id}", s.getNoteHandler)
			r.Put("/notes/{id}", s.updateNoteHandler)
			r.Post("/notes/{id}/{action}", s.noteActionHandler)
			r.Delete("/trash", s.emptyTrashHandler)

			r.Get("/notebooks", s.listNotebooksHandler)
			r.Post("/notebooks", s.saveNotebookHandler)
			r.Delete("/notebooks/{id}", s.deleteNotebookHandler)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work started by New.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &requestError{"invalid request body"}
	}
	if err := s.validate.Struct(v); err != nil {
		return err
	}
	return nil
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &requestError{"invalid id"}
	}
	return id, nil
}

// writeError maps err onto a status code. Only unexpected failures are
// logged.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	var reqErr *requestError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &reqErr):
		jsonError(w, reqErr.msg, http.StatusBadRequest)
	case errors.As(err, &fieldErrs):
		jsonError(w, fieldErrs.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrValidation):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, db.ErrNotFound):
		jsonError(w, "not found", http.StatusNotFound)
	case errors.Is(err, db.ErrDefaultNotebook):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		s.log.Printf("%s failed: %v", op, err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}
