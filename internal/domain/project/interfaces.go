package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Project, error)
}

// LabelRepository provides persistence for project label sets.
type LabelRepository interface {
	Create(ctx context.Context, label *Label) error
	GetByValue(ctx context.Context, projectID int64, value string) (*Label, error)
	List(ctx context.Context, projectID int64) ([]Label, error)
}
