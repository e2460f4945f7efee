package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ysenarath/textflow/internal/agreement"
	"github.com/ysenarath/textflow/internal/dataset"
	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/jobs"
	"github.com/ysenarath/textflow/internal/repository"
)

// handleNextDocument hands the caller the next document to annotate, or a
// null document when the caller is caught up.
func (s *Server) handleNextDocument(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	userID := userFromContext(r.Context())

	doc, err := s.services.Scheduler.NextDocument(r.Context(), userID, projectID)
	if err != nil {
		s.logger.Error("next document failed", "user", userID, "project", projectID, "error", err)
		writeError(w, "failed to select next document")
		return
	}
	writeSuccess(w, map[string]any{"document": doc})
}

// handleAgreement scores inter-annotator agreement for a project. The
// metric query parameter selects percentage, kappa, or f1 (default kappa).
func (s *Server) handleAgreement(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	userID := userFromContext(r.Context())
	if !s.requireManager(r.Context(), userID, projectID) {
		writeFail(w, http.StatusForbidden, "manager role required")
		return
	}

	metric := agreement.Metric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = agreement.MetricKappa
	}

	ds, err := s.buildDataset(r, projectID)
	if err != nil {
		s.logger.Error("dataset build failed", "project", projectID, "error", err)
		writeError(w, "failed to build dataset")
		return
	}

	table, err := agreement.NewScorer(ds.ItemTuples()).Score(metric)
	if err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	writeSuccess(w, map[string]any{"metric": metric, "scores": table.Rows})
}

// handleStatus reports progress. Without a user query parameter it reports
// the whole project (manager only); with one it reports that user's
// progress. Users may always read their own report.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	callerID := userFromContext(r.Context())

	userParam := r.URL.Query().Get("user")
	if userParam == "" {
		if !s.requireManager(r.Context(), callerID, projectID) {
			writeFail(w, http.StatusForbidden, "manager role required")
			return
		}
		report, err := s.services.Status.ProjectReport(r.Context(), projectID)
		if err != nil {
			s.logger.Error("project report failed", "project", projectID, "error", err)
			writeError(w, "failed to generate report")
			return
		}
		writeSuccess(w, report)
		return
	}

	targetID, err := strconv.ParseInt(userParam, 10, 64)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if targetID != callerID && !s.requireManager(r.Context(), callerID, projectID) {
		writeFail(w, http.StatusForbidden, "manager role required")
		return
	}
	report, err := s.services.Status.UserReport(r.Context(), targetID, projectID)
	if err != nil {
		s.logger.Error("user report failed", "user", targetID, "project", projectID, "error", err)
		writeError(w, "failed to generate report")
		return
	}
	writeSuccess(w, report)
}

// datasetRecord is one download row: tokens (or raw text) with the
// majority-voted target.
type datasetRecord struct {
	ID       int64    `json:"id"`
	SourceID string   `json:"source_id,omitempty"`
	X        []string `json:"x"`
	Y        []string `json:"y"`
}

// handleDatasetDownload serves the majority-voted dataset as JSON.
func (s *Server) handleDatasetDownload(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	userID := userFromContext(r.Context())
	if !s.requireManager(r.Context(), userID, projectID) {
		writeFail(w, http.StatusForbidden, "manager role required")
		return
	}

	ds, err := s.buildDataset(r, projectID)
	if err != nil {
		s.logger.Error("dataset build failed", "project", projectID, "error", err)
		writeError(w, "failed to build dataset")
		return
	}

	xs, ys := ds.X(), ds.Y()
	records := make([]datasetRecord, len(ds.Records))
	for i, rec := range ds.Records {
		records[i] = datasetRecord{ID: rec.ID, SourceID: rec.SourceID, X: xs[i], Y: ys[i]}
	}
	writeSuccess(w, map[string]any{
		"type":    ds.Type,
		"classes": ds.Classes(),
		"records": records,
	})
}

func (s *Server) buildDataset(r *http.Request, projectID int64) (*dataset.Dataset, error) {
	proj, err := s.services.Projects.Get(r.Context(), projectID)
	if err != nil {
		return nil, err
	}
	bundles, err := s.services.Annotations.CompletedBundles(r.Context(), projectID)
	if err != nil {
		return nil, err
	}
	return dataset.Build(bundles, proj.Type)
}

// handleDeleteDocuments starts a background job deleting every document in
// the project, with its annotation sets and annotations.
func (s *Server) handleDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	userID := userFromContext(r.Context())
	if !s.requireManager(r.Context(), userID, projectID) {
		writeFail(w, http.StatusForbidden, "manager role required")
		return
	}

	j, err := s.runner.Submit(r.Context(), "delete_documents", userID, projectID,
		jobs.DeleteDocuments(s.documents, projectID))
	if err != nil {
		s.logger.Error("job submit failed", "project", projectID, "error", err)
		writeError(w, "failed to start deletion")
		return
	}
	writeSuccess(w, map[string]any{"job": j})
}

// handleGetJob reports the status of a background job.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobStore.Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, "failed to get job")
		return
	}
	writeSuccess(w, map[string]any{"job": j})
}

type addAnnotationRequest struct {
	Labels []string         `json:"labels"`
	Span   *annotation.Span `json:"span"`
}

// handleAddAnnotation attaches an annotation to the caller's set for the
// document, creating the set if needed.
func (s *Server) handleAddAnnotation(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	documentID, ok := urlID(r, "documentID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid document id")
		return
	}
	userID := userFromContext(r.Context())

	var req addAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ann, err := s.services.Annotations.Add(r.Context(), userID, projectID, documentID, annotation.AddRequest{
		Labels: req.Labels,
		Span:   req.Span,
	})
	if err != nil {
		s.writeAnnotationError(w, err, projectID, documentID)
		return
	}
	writeSuccess(w, map[string]any{"annotation": ann})
}

type updateSetRequest struct {
	Completed *bool `json:"completed"`
	Skipped   *bool `json:"skipped"`
	Flagged   *bool `json:"flagged"`
}

// handleUpdateSet flips the completed/skipped/flagged flags of the caller's
// annotation set for a document.
func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	documentID, ok := urlID(r, "documentID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid document id")
		return
	}
	userID := userFromContext(r.Context())

	var req updateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := s.services.Annotations.UpdateSet(r.Context(), userID, projectID, documentID, annotation.UpdateSetRequest{
		Completed: req.Completed,
		Skipped:   req.Skipped,
		Flagged:   req.Flagged,
	})
	if err != nil {
		s.writeAnnotationError(w, err, projectID, documentID)
		return
	}
	writeSuccess(w, map[string]any{"annotation_set": set})
}

type updateAnnotationRequest struct {
	Labels []string `json:"labels"`
}

// handleUpdateAnnotation replaces the labels of one of the caller's
// annotations.
func (s *Server) handleUpdateAnnotation(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	annotationID, ok := urlID(r, "annotationID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid annotation id")
		return
	}
	userID := userFromContext(r.Context())

	var req updateAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ann, err := s.services.Annotations.UpdateLabels(r.Context(), userID, projectID, annotationID, req.Labels)
	if err != nil {
		s.writeAnnotationError(w, err, projectID, annotationID)
		return
	}
	writeSuccess(w, map[string]any{"annotation": ann})
}

// handleDeleteAnnotation removes one of the caller's annotations.
func (s *Server) handleDeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(r, "projectID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid project id")
		return
	}
	annotationID, ok := urlID(r, "annotationID")
	if !ok {
		writeFail(w, http.StatusBadRequest, "invalid annotation id")
		return
	}
	userID := userFromContext(r.Context())

	if err := s.services.Annotations.Delete(r.Context(), userID, projectID, annotationID); err != nil {
		s.writeAnnotationError(w, err, projectID, annotationID)
		return
	}
	writeSuccess(w, map[string]any{"deleted": true})
}

// writeAnnotationError maps domain errors to HTTP failures.
func (s *Server) writeAnnotationError(w http.ResponseWriter, err error, projectID, id int64) {
	switch {
	case errors.Is(err, annotation.ErrNotAssigned):
		writeFail(w, http.StatusForbidden, "not assigned to project")
	case errors.Is(err, annotation.ErrDocumentNotFound):
		writeFail(w, http.StatusNotFound, "document not found")
	case errors.Is(err, annotation.ErrAnnotationNotFound):
		writeFail(w, http.StatusNotFound, "annotation not found")
	case errors.Is(err, annotation.ErrUnknownLabel):
		writeFail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, annotation.ErrInvalidInput):
		writeFail(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, repository.ErrNotFound):
		writeFail(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error("annotation request failed", "project", projectID, "id", id, "error", err)
		writeError(w, "internal error")
	}
}
