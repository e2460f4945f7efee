package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/repository"
)

// LabelRepository implements repository.LabelRepository for SQLite
type LabelRepository struct {
	db *DB
}

// NewLabelRepository creates a new LabelRepository
func NewLabelRepository(db *DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Create inserts a label; a duplicate (project, value) reports ErrConflict
func (r *LabelRepository) Create(ctx context.Context, label *project.Label) error {
	query := `
		INSERT INTO labels (project_id, value, label, rank, color)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		label.ProjectID,
		label.Value,
		label.Label,
		label.Order,
		label.Color,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create label: %w", err)
	}

	label.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read label id: %w", err)
	}
	return nil
}

// GetByValue retrieves a label by its project-scoped value
func (r *LabelRepository) GetByValue(ctx context.Context, projectID int64, value string) (*project.Label, error) {
	query := `
		SELECT id, project_id, value, label, rank, COALESCE(color, '')
		FROM labels
		WHERE project_id = ? AND value = ?
	`

	var label project.Label
	err := r.db.QueryRowContext(ctx, query, projectID, value).Scan(
		&label.ID,
		&label.ProjectID,
		&label.Value,
		&label.Label,
		&label.Order,
		&label.Color,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	return &label, nil
}

// List returns a project's labels in display order
func (r *LabelRepository) List(ctx context.Context, projectID int64) ([]project.Label, error) {
	query := `
		SELECT id, project_id, value, label, rank, COALESCE(color, '')
		FROM labels
		WHERE project_id = ?
		ORDER BY rank ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer rows.Close()

	var labels []project.Label
	for rows.Next() {
		var label project.Label
		if err := rows.Scan(&label.ID, &label.ProjectID, &label.Value, &label.Label, &label.Order, &label.Color); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}
