// Package repository defines the store interfaces the core services call.
// Implementations live in internal/sqlite; tests use the mocks package.
package repository

import (
	"context"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/domain/job"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/domain/user"
)

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, proj *project.Project) error
	Get(ctx context.Context, id int64) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
}

// LabelRepository manages project label sets
type LabelRepository interface {
	Create(ctx context.Context, label *project.Label) error
	GetByValue(ctx context.Context, projectID int64, value string) (*project.Label, error)
	List(ctx context.Context, projectID int64) ([]project.Label, error)
}

// DocumentRepository manages document persistence. List and ListIDs return
// documents in ascending id order, the order the scheduler relies on.
type DocumentRepository interface {
	Create(ctx context.Context, doc *document.Document) error
	Get(ctx context.Context, id int64) (*document.Document, error)
	List(ctx context.Context, projectID int64) ([]document.Document, error)
	ListIDs(ctx context.Context, projectID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}

// UserRepository manages annotator accounts
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// AssignmentRepository manages user-to-project assignments
type AssignmentRepository interface {
	Upsert(ctx context.Context, a *user.Assignment) error
	Get(ctx context.Context, userID, projectID int64) (*user.Assignment, error)
	List(ctx context.Context, projectID int64) ([]user.Assignment, error)
	Delete(ctx context.Context, userID, projectID int64) error
}

// AnnotationSetRepository manages annotation sets and their annotations.
// Create must fail with ErrConflict when a set already exists for the
// (user, document) pair.
type AnnotationSetRepository interface {
	Get(ctx context.Context, userID, documentID int64) (*annotation.Set, error)
	Create(ctx context.Context, set *annotation.Set) error
	Update(ctx context.Context, set *annotation.Set) error
	ListByUserProject(ctx context.Context, userID, projectID int64) ([]annotation.Set, error)
	ListByProject(ctx context.Context, projectID int64) ([]annotation.Set, error)
	CountCompletedByDocument(ctx context.Context, projectID int64) (map[int64]int, error)
	ListCompletedBundles(ctx context.Context, projectID int64) ([]annotation.SetBundle, error)

	AddAnnotation(ctx context.Context, ann *annotation.Annotation) error
	GetAnnotation(ctx context.Context, userID, projectID, annotationID int64) (*annotation.Annotation, error)
	UpdateAnnotation(ctx context.Context, ann *annotation.Annotation) error
	DeleteAnnotation(ctx context.Context, id int64) error
}

// JobRepository persists background job status records for polling
type JobRepository interface {
	Create(ctx context.Context, j *job.Job) error
	Update(ctx context.Context, j *job.Job) error
	Get(ctx context.Context, id string) (*job.Job, error)
	List(ctx context.Context, projectID int64) ([]job.Job, error)
}
