package annotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ysenarath/textflow/internal/repository/errs"
)

// Service handles annotation-set and annotation operations.
type Service struct {
	sets        SetRepository
	documents   DocumentRepository
	assignments AssignmentRepository
	labels      LabelRepository
	logger      *slog.Logger
}

// NewService creates a new annotation service.
func NewService(
	sets SetRepository,
	documents DocumentRepository,
	assignments AssignmentRepository,
	labels LabelRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		sets:        sets,
		documents:   documents,
		assignments: assignments,
		labels:      labels,
		logger:      logger,
	}
}

// GetOrCreateSet returns the user's annotation set for a document, creating
// it if absent. The user must be assigned to the document's project and the
// document must belong to that project. Concurrent creation races are
// resolved by re-fetching on conflict, so exactly one set survives per
// (user, document) pair.
func (s *Service) GetOrCreateSet(ctx context.Context, userID, projectID, documentID int64) (*Set, error) {
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if doc.ProjectID != projectID {
		return nil, ErrDocumentNotFound
	}
	if _, err := s.assignments.Get(ctx, userID, doc.ProjectID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, fmt.Errorf("getting assignment: %w", err)
	}

	set, err := s.sets.Get(ctx, userID, documentID)
	if err == nil {
		return set, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("getting annotation set: %w", err)
	}

	now := time.Now()
	set = &Set{UserID: userID, DocumentID: documentID, CreatedAt: now, UpdatedAt: now}
	if err := s.sets.Create(ctx, set); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			// Another request created the row first; the unique
			// (user, document) constraint makes the re-fetch safe.
			return s.sets.Get(ctx, userID, documentID)
		}
		return nil, fmt.Errorf("creating annotation set: %w", err)
	}
	return set, nil
}

// UpdateSetRequest carries the mutable flags of an annotation set. Nil
// fields are left unchanged.
type UpdateSetRequest struct {
	Completed *bool
	Skipped   *bool
	Flagged   *bool
}

// UpdateSet mutates the completed/skipped/flagged flags of the user's set
// for a document.
func (s *Service) UpdateSet(ctx context.Context, userID, projectID, documentID int64, req UpdateSetRequest) (*Set, error) {
	set, err := s.GetOrCreateSet(ctx, userID, projectID, documentID)
	if err != nil {
		return nil, err
	}
	if req.Completed != nil {
		set.Completed = *req.Completed
	}
	if req.Skipped != nil {
		set.Skipped = *req.Skipped
	}
	if req.Flagged != nil {
		set.Flagged = *req.Flagged
	}
	set.UpdatedAt = time.Now()
	if err := s.sets.Update(ctx, set); err != nil {
		return nil, fmt.Errorf("updating annotation set: %w", err)
	}
	return set, nil
}

// AddRequest describes a new annotation: one or more label values and an
// optional span. A nil span annotates the whole document.
type AddRequest struct {
	Labels []string
	Span   *Span
}

// Add attaches an annotation to the user's set for a document, creating the
// set if needed. Label values are resolved against the project label set.
func (s *Service) Add(ctx context.Context, userID, projectID, documentID int64, req AddRequest) (*Annotation, error) {
	if len(req.Labels) == 0 {
		return nil, ErrInvalidInput
	}
	if req.Span != nil && (req.Span.Start < 0 || req.Span.Length <= 0) {
		return nil, ErrInvalidInput
	}

	ann := &Annotation{Span: req.Span}
	for _, value := range req.Labels {
		label, err := s.labels.GetByValue(ctx, projectID, value)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, value)
			}
			return nil, fmt.Errorf("resolving label: %w", err)
		}
		ann.Labels = append(ann.Labels, *label)
	}

	set, err := s.GetOrCreateSet(ctx, userID, projectID, documentID)
	if err != nil {
		return nil, err
	}
	ann.SetID = set.ID
	if err := s.sets.AddAnnotation(ctx, ann); err != nil {
		return nil, fmt.Errorf("adding annotation: %w", err)
	}
	return ann, nil
}

// UpdateLabels replaces the labels of one of the user's annotations.
func (s *Service) UpdateLabels(ctx context.Context, userID, projectID, annotationID int64, values []string) (*Annotation, error) {
	if len(values) == 0 {
		return nil, ErrInvalidInput
	}
	ann, err := s.sets.GetAnnotation(ctx, userID, projectID, annotationID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrAnnotationNotFound
		}
		return nil, fmt.Errorf("getting annotation: %w", err)
	}
	ann.Labels = ann.Labels[:0]
	for _, value := range values {
		label, err := s.labels.GetByValue(ctx, projectID, value)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, value)
			}
			return nil, fmt.Errorf("resolving label: %w", err)
		}
		ann.Labels = append(ann.Labels, *label)
	}
	if err := s.sets.UpdateAnnotation(ctx, ann); err != nil {
		return nil, fmt.Errorf("updating annotation: %w", err)
	}
	return ann, nil
}

// Delete removes one of the user's annotations. Deleting an annotation
// owned by another user reports ErrAnnotationNotFound.
func (s *Service) Delete(ctx context.Context, userID, projectID, annotationID int64) error {
	if _, err := s.sets.GetAnnotation(ctx, userID, projectID, annotationID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return ErrAnnotationNotFound
		}
		return fmt.Errorf("getting annotation: %w", err)
	}
	if err := s.sets.DeleteAnnotation(ctx, annotationID); err != nil {
		return fmt.Errorf("deleting annotation: %w", err)
	}
	return nil
}

// CompletedBundles loads every completed annotation set in the project with
// its document, coder name, and annotations, for dataset building.
func (s *Service) CompletedBundles(ctx context.Context, projectID int64) ([]SetBundle, error) {
	bundles, err := s.sets.ListCompletedBundles(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing completed bundles: %w", err)
	}
	return bundles, nil
}
