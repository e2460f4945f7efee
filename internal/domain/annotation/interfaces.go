package annotation

import (
	"context"

	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/domain/user"
)

// SetRepository persists annotation sets and their annotations.
type SetRepository interface {
	Get(ctx context.Context, userID, documentID int64) (*Set, error)
	Create(ctx context.Context, set *Set) error
	Update(ctx context.Context, set *Set) error
	ListCompletedBundles(ctx context.Context, projectID int64) ([]SetBundle, error)

	AddAnnotation(ctx context.Context, ann *Annotation) error
	GetAnnotation(ctx context.Context, userID, projectID, annotationID int64) (*Annotation, error)
	UpdateAnnotation(ctx context.Context, ann *Annotation) error
	DeleteAnnotation(ctx context.Context, id int64) error
}

// DocumentRepository provides document lookups.
type DocumentRepository interface {
	Get(ctx context.Context, id int64) (*document.Document, error)
}

// AssignmentRepository provides assignment lookups.
type AssignmentRepository interface {
	Get(ctx context.Context, userID, projectID int64) (*user.Assignment, error)
}

// LabelRepository resolves labels by project-scoped value.
type LabelRepository interface {
	GetByValue(ctx context.Context, projectID int64, value string) (*project.Label, error)
}
