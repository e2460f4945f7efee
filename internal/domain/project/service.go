package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ysenarath/textflow/internal/repository/errs"
)

// Label values are normalized tokens; they end up in dataset item ids so
// anything outside this set would corrupt the id scheme.
var labelValuePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Service handles project and label-set operations.
type Service struct {
	projects Repository
	labels   LabelRepository
	logger   *slog.Logger
}

// NewService creates a new project service.
func NewService(projects Repository, labels LabelRepository, logger *slog.Logger) *Service {
	return &Service{projects: projects, labels: labels, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name       string
	Type       Type
	Redundancy int
}

// Create creates a new project. Redundancy defaults to 1 and must not be
// lower.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" || !req.Type.Valid() {
		return nil, ErrInvalidInput
	}
	redundancy := req.Redundancy
	if redundancy == 0 {
		redundancy = 1
	}
	if redundancy < 1 {
		return nil, ErrInvalidInput
	}

	proj := &Project{
		Name:       req.Name,
		Type:       req.Type,
		Redundancy: redundancy,
		CreatedAt:  time.Now(),
	}
	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns all projects.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.projects.List(ctx)
}

// CreateLabelRequest defines label creation inputs.
type CreateLabelRequest struct {
	ProjectID int64
	Value     string
	Label     string
	Order     int
	Color     string
}

// CreateLabel adds a label to a project's label set. The value must be
// unique within the project; a duplicate reports ErrInvalidInput.
func (s *Service) CreateLabel(ctx context.Context, req CreateLabelRequest) (*Label, error) {
	if !labelValuePattern.MatchString(req.Value) {
		return nil, fmt.Errorf("%w: label value %q", ErrInvalidInput, req.Value)
	}
	display := req.Label
	if display == "" {
		display = req.Value
	}

	label := &Label{
		ProjectID: req.ProjectID,
		Value:     req.Value,
		Label:     display,
		Order:     req.Order,
		Color:     req.Color,
	}
	if err := s.labels.Create(ctx, label); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, fmt.Errorf("%w: duplicate label value %q", ErrInvalidInput, req.Value)
		}
		return nil, fmt.Errorf("creating label: %w", err)
	}
	return label, nil
}

// GetLabel resolves a label by its project-scoped value.
func (s *Service) GetLabel(ctx context.Context, projectID int64, value string) (*Label, error) {
	label, err := s.labels.GetByValue(ctx, projectID, value)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, fmt.Errorf("getting label: %w", err)
	}
	return label, nil
}

// ListLabels returns the project's label set in display order.
func (s *Service) ListLabels(ctx context.Context, projectID int64) ([]Label, error) {
	return s.labels.List(ctx, projectID)
}
