// Package status aggregates annotation-set state into progress reports.
package status

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/domain/project"
)

// Report summarizes completion for a user or a whole project. For a user
// report NumDocuments counts documents assigned to the user (not skipped);
// for a project report it counts all documents in the project.
type Report struct {
	NumCompleted int `json:"num_completed"`
	NumDocuments int `json:"num_documents"`
	NumRemaining int `json:"num_remaining"`
	Progress     int `json:"progress"`
}

// ProjectRepository provides project lookups.
type ProjectRepository interface {
	Get(ctx context.Context, id int64) (*project.Project, error)
}

// DocumentRepository lists project documents.
type DocumentRepository interface {
	List(ctx context.Context, projectID int64) ([]document.Document, error)
}

// SetRepository exposes the annotation-set state reports are built from.
type SetRepository interface {
	ListByUserProject(ctx context.Context, userID, projectID int64) ([]annotation.Set, error)
	ListByProject(ctx context.Context, projectID int64) ([]annotation.Set, error)
}

// Service generates progress reports.
type Service struct {
	projects  ProjectRepository
	documents DocumentRepository
	sets      SetRepository
	logger    *slog.Logger
}

// NewService creates a new status service.
func NewService(projects ProjectRepository, documents DocumentRepository, sets SetRepository, logger *slog.Logger) *Service {
	return &Service{projects: projects, documents: documents, sets: sets, logger: logger}
}

// UserReport reports one user's progress in a project. A user with no
// assigned documents is vacuously complete (progress 100).
func (s *Service) UserReport(ctx context.Context, userID, projectID int64) (*Report, error) {
	docs, err := s.documents.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	sets, err := s.sets.ListByUserProject(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing annotation sets: %w", err)
	}

	completed := 0
	skipped := make(map[int64]bool)
	for _, set := range sets {
		// A skipped set leaves the assigned denominator, so it must not
		// count as completed either, or progress could exceed 100.
		if set.Completed && !set.Skipped {
			completed++
		}
		if set.Skipped {
			skipped[set.DocumentID] = true
		}
	}
	assigned := 0
	for _, doc := range docs {
		if !skipped[doc.ID] {
			assigned++
		}
	}

	progress := 100
	if assigned > 0 {
		progress = completed * 100 / assigned
	}
	return &Report{
		NumCompleted: completed,
		NumDocuments: assigned,
		NumRemaining: assigned - completed,
		Progress:     progress,
	}, nil
}

// ProjectReport reports project-wide progress: a document counts as
// completed once it has reached the project redundancy via completed,
// non-skipped annotation sets. An empty project has progress 0.
func (s *Service) ProjectReport(ctx context.Context, projectID int64) (*Report, error) {
	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	docs, err := s.documents.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	sets, err := s.sets.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing annotation sets: %w", err)
	}

	frequency := make(map[int64]int)
	for _, set := range sets {
		if set.Completed && !set.Skipped {
			frequency[set.DocumentID]++
		}
	}
	completed := 0
	for _, doc := range docs {
		if frequency[doc.ID] >= proj.Redundancy {
			completed++
		}
	}

	progress := 0
	if len(docs) > 0 {
		progress = completed * 100 / len(docs)
	}
	return &Report{
		NumCompleted: completed,
		NumDocuments: len(docs),
		NumRemaining: len(docs) - completed,
		Progress:     progress,
	}, nil
}
