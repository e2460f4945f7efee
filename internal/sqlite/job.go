package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ysenarath/textflow/internal/domain/job"
	"github.com/ysenarath/textflow/internal/repository"
)

// JobRepository implements repository.JobRepository for SQLite
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a job status record
func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	query := `
		INSERT INTO jobs (id, user_id, project_id, name, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		j.ID, j.UserID, j.ProjectID, j.Name, string(j.Status), j.Error, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// Update persists a job's status and error
func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(j.Status), j.Error, j.UpdatedAt, j.ID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Get retrieves a job by id
func (r *JobRepository) Get(ctx context.Context, id string) (*job.Job, error) {
	query := `
		SELECT id, user_id, project_id, name, status, COALESCE(error, ''), created_at, updated_at
		FROM jobs WHERE id = ?
	`
	var j job.Job
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.UserID, &j.ProjectID, &j.Name, &status, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	j.Status = job.Status(status)
	return &j, nil
}

// List returns a project's jobs, newest first
func (r *JobRepository) List(ctx context.Context, projectID int64) ([]job.Job, error) {
	query := `
		SELECT id, user_id, project_id, name, status, COALESCE(error, ''), created_at, updated_at
		FROM jobs WHERE project_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var list []job.Job
	for rows.Next() {
		var j job.Job
		var status string
		if err := rows.Scan(&j.ID, &j.UserID, &j.ProjectID, &j.Name, &status, &j.Error, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		j.Status = job.Status(status)
		list = append(list, j)
	}
	return list, rows.Err()
}
