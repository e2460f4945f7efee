// Package api exposes the core services over a JSON HTTP API. Responses
// use the jsend envelope. Authentication is an external concern: the
// calling user arrives as a header set by the fronting auth layer.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/domain/scheduler"
	"github.com/ysenarath/textflow/internal/domain/status"
	"github.com/ysenarath/textflow/internal/jobs"
	"github.com/ysenarath/textflow/internal/repository"
)

// Services bundles the domain services the API dispatches to.
type Services struct {
	Projects    *project.Service
	Annotations *annotation.Service
	Scheduler   *scheduler.Service
	Status      *status.Service
}

// Server wires HTTP handlers.
type Server struct {
	services    Services
	assignments repository.AssignmentRepository
	jobStore    repository.JobRepository
	runner      *jobs.Runner
	documents   repository.DocumentRepository
	logger      *slog.Logger
}

// NewRouter creates the HTTP router.
func NewRouter(
	services Services,
	assignments repository.AssignmentRepository,
	jobStore repository.JobRepository,
	runner *jobs.Runner,
	documents repository.DocumentRepository,
	logger *slog.Logger,
) *chi.Mux {
	s := &Server{
		services:    services,
		assignments: assignments,
		jobStore:    jobStore,
		runner:      runner,
		documents:   documents,
		logger:      logger,
	}

	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(UserMiddleware)

		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/next", s.handleNextDocument)
			r.Get("/agreement", s.handleAgreement)
			r.Get("/status", s.handleStatus)
			r.Get("/datasets/download", s.handleDatasetDownload)
			r.Post("/documents/delete", s.handleDeleteDocuments)

			r.Post("/documents/{documentID}/annotations", s.handleAddAnnotation)
			r.Patch("/documents/{documentID}/set", s.handleUpdateSet)
			r.Patch("/annotations/{annotationID}", s.handleUpdateAnnotation)
			r.Delete("/annotations/{annotationID}", s.handleDeleteAnnotation)
		})
		r.Get("/jobs/{jobID}", s.handleGetJob)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type ctxKey int

const userIDKey ctxKey = 0

// UserMiddleware reads the authenticated user id from the X-User-ID
// header. The header is set by the fronting auth layer; requests without
// it are rejected.
func UserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil {
			writeFail(w, http.StatusUnauthorized, "missing or invalid user")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

// requireManager checks the user holds a manager or admin role on the
// project.
func (s *Server) requireManager(ctx context.Context, userID, projectID int64) bool {
	a, err := s.assignments.Get(ctx, userID, projectID)
	if err != nil {
		return false
	}
	return a.Role.CanManage()
}

// jsend envelope helpers.

func writeSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": data})
}

func writeFail(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "fail", "data": map[string]string{"message": message}})
}

func writeError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": message})
}
