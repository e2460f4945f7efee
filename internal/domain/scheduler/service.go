// Package scheduler decides which document a user should annotate next.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/domain/user"
	"github.com/ysenarath/textflow/internal/repository/errs"
)

// ProjectRepository provides project lookups.
type ProjectRepository interface {
	Get(ctx context.Context, id int64) (*project.Project, error)
}

// DocumentRepository lists project documents in ascending id order.
type DocumentRepository interface {
	List(ctx context.Context, projectID int64) ([]document.Document, error)
}

// AssignmentRepository provides assignment lookups.
type AssignmentRepository interface {
	Get(ctx context.Context, userID, projectID int64) (*user.Assignment, error)
}

// SetRepository exposes the annotation-set state the scheduler reads.
type SetRepository interface {
	ListByUserProject(ctx context.Context, userID, projectID int64) ([]annotation.Set, error)
	CountCompletedByDocument(ctx context.Context, projectID int64) (map[int64]int, error)
}

// Service selects the next document for annotation. It reads frequencies
// and writes nothing, so two users racing on the same under-redundant
// document may both be handed it; redundancy saturation stops that
// naturally once enough sets complete.
type Service struct {
	projects    ProjectRepository
	documents   DocumentRepository
	assignments AssignmentRepository
	sets        SetRepository
	logger      *slog.Logger
}

// NewService creates a new scheduler service.
func NewService(
	projects ProjectRepository,
	documents DocumentRepository,
	assignments AssignmentRepository,
	sets SetRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		projects:    projects,
		documents:   documents,
		assignments: assignments,
		sets:        sets,
		logger:      logger,
	}
}

// NextDocument returns the next document the user should annotate, or nil
// when the user is caught up. Candidates are documents whose completed-set
// count is below the project redundancy and which the user has neither
// completed nor skipped; the lowest document id wins, which keeps the
// selection stable across calls. An unassigned user gets nil, not an error.
func (s *Service) NextDocument(ctx context.Context, userID, projectID int64) (*document.Document, error) {
	if _, err := s.assignments.Get(ctx, userID, projectID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting assignment: %w", err)
	}

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}

	frequency, err := s.sets.CountCompletedByDocument(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting completed sets: %w", err)
	}

	userSets, err := s.sets.ListByUserProject(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing user annotation sets: %w", err)
	}
	byDocument := make(map[int64]annotation.Set, len(userSets))
	for _, set := range userSets {
		byDocument[set.DocumentID] = set
	}

	docs, err := s.documents.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	for i := range docs {
		doc := docs[i]
		if frequency[doc.ID] >= proj.Redundancy {
			continue
		}
		if set, ok := byDocument[doc.ID]; ok && (set.Completed || set.Skipped) {
			continue
		}
		return &doc, nil
	}

	// All documents saturated or already handled by this user.
	return nil, nil
}
