package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ysenarath/textflow/internal/domain/user"
	"github.com/ysenarath/textflow/internal/repository"
)

// UserRepository implements repository.UserRepository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user; a duplicate username reports ErrConflict
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, u.Username)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username FROM users WHERE id = ?`, id).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username FROM users WHERE username = ?`, username).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// AssignmentRepository implements repository.AssignmentRepository for SQLite
type AssignmentRepository struct {
	db *DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Upsert creates or updates a user's role on a project
func (r *AssignmentRepository) Upsert(ctx context.Context, a *user.Assignment) error {
	query := `
		INSERT INTO assignments (user_id, project_id, role)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, project_id) DO UPDATE SET role = excluded.role
	`
	if _, err := r.db.ExecContext(ctx, query, a.UserID, a.ProjectID, string(a.Role)); err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to upsert assignment: %w", err)
	}
	return nil
}

// Get retrieves the assignment of a user on a project
func (r *AssignmentRepository) Get(ctx context.Context, userID, projectID int64) (*user.Assignment, error) {
	var a user.Assignment
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, project_id, role FROM assignments WHERE user_id = ? AND project_id = ?`,
		userID, projectID).Scan(&a.UserID, &a.ProjectID, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	a.Role = user.Role(role)
	return &a, nil
}

// List returns all assignments on a project
func (r *AssignmentRepository) List(ctx context.Context, projectID int64) ([]user.Assignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, project_id, role FROM assignments WHERE project_id = ? ORDER BY user_id ASC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []user.Assignment
	for rows.Next() {
		var a user.Assignment
		var role string
		if err := rows.Scan(&a.UserID, &a.ProjectID, &role); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Role = user.Role(role)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Delete removes a user's assignment from a project
func (r *AssignmentRepository) Delete(ctx context.Context, userID, projectID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE user_id = ? AND project_id = ?`, userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
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
