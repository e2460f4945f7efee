// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/domain/job"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/domain/user"
)

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// LabelRepository is a mock for repository.LabelRepository.
type LabelRepository struct {
	mock.Mock
}

func (m *LabelRepository) Create(ctx context.Context, label *project.Label) error {
	args := m.Called(ctx, label)
	return args.Error(0)
}

func (m *LabelRepository) GetByValue(ctx context.Context, projectID int64, value string) (*project.Label, error) {
	args := m.Called(ctx, projectID, value)
	if label, ok := args.Get(0).(*project.Label); ok {
		return label, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LabelRepository) List(ctx context.Context, projectID int64) ([]project.Label, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.Label); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// DocumentRepository is a mock for repository.DocumentRepository.
type DocumentRepository struct {
	mock.Mock
}

func (m *DocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *DocumentRepository) Get(ctx context.Context, id int64) (*document.Document, error) {
	args := m.Called(ctx, id)
	if doc, ok := args.Get(0).(*document.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) List(ctx context.Context, projectID int64) ([]document.Document, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]document.Document); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) ListIDs(ctx context.Context, projectID int64) ([]int64, error) {
	args := m.Called(ctx, projectID)
	if ids, ok := args.Get(0).([]int64); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// UserRepository is a mock for repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// AssignmentRepository is a mock for repository.AssignmentRepository.
type AssignmentRepository struct {
	mock.Mock
}

func (m *AssignmentRepository) Upsert(ctx context.Context, a *user.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AssignmentRepository) Get(ctx context.Context, userID, projectID int64) (*user.Assignment, error) {
	args := m.Called(ctx, userID, projectID)
	if a, ok := args.Get(0).(*user.Assignment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssignmentRepository) List(ctx context.Context, projectID int64) ([]user.Assignment, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]user.Assignment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssignmentRepository) Delete(ctx context.Context, userID, projectID int64) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

// AnnotationSetRepository is a mock for repository.AnnotationSetRepository.
type AnnotationSetRepository struct {
	mock.Mock
}

func (m *AnnotationSetRepository) Get(ctx context.Context, userID, documentID int64) (*annotation.Set, error) {
	args := m.Called(ctx, userID, documentID)
	if set, ok := args.Get(0).(*annotation.Set); ok {
		return set, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnnotationSetRepository) Create(ctx context.Context, set *annotation.Set) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *AnnotationSetRepository) Update(ctx context.Context, set *annotation.Set) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *AnnotationSetRepository) ListByUserProject(ctx context.Context, userID, projectID int64) ([]annotation.Set, error) {
	args := m.Called(ctx, userID, projectID)
	if list, ok := args.Get(0).([]annotation.Set); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnnotationSetRepository) ListByProject(ctx context.Context, projectID int64) ([]annotation.Set, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]annotation.Set); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnnotationSetRepository) CountCompletedByDocument(ctx context.Context, projectID int64) (map[int64]int, error) {
	args := m.Called(ctx, projectID)
	if counts, ok := args.Get(0).(map[int64]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnnotationSetRepository) ListCompletedBundles(ctx context.Context, projectID int64) ([]annotation.SetBundle, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]annotation.SetBundle); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnnotationSetRepository) AddAnnotation(ctx context.Context, ann *annotation.Annotation) error {
	args := m.Called(ctx, ann)
	return args.Error(0)
}

func (m *AnnotationSetRepository) GetAnnotation(ctx context.Context, userID, projectID, annotationID int64) (*annotation.Annotation, error) {
	args := m.Called(ctx, userID, projectID, annotationID)
	if ann, ok := args.Get(0).(*annotation.Annotation); ok {
		return ann, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnnotationSetRepository) UpdateAnnotation(ctx context.Context, ann *annotation.Annotation) error {
	args := m.Called(ctx, ann)
	return args.Error(0)
}

func (m *AnnotationSetRepository) DeleteAnnotation(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// JobRepository is a mock for repository.JobRepository.
type JobRepository struct {
	mock.Mock
}

func (m *JobRepository) Create(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *JobRepository) Update(ctx context.Context, j *job.Job) error {
	// Record a snapshot: callers may mutate and reuse the same pointer
	// across calls, and the mock retains arguments by reference.
	jc := *j
	args := m.Called(ctx, &jc)
	return args.Error(0)
}

func (m *JobRepository) Get(ctx context.Context, id string) (*job.Job, error) {
	args := m.Called(ctx, id)
	if j, ok := args.Get(0).(*job.Job); ok {
		return j, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *JobRepository) List(ctx context.Context, projectID int64) ([]job.Job, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]job.Job); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
