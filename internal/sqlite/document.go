package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/repository"
)

// DocumentRepository implements repository.DocumentRepository for SQLite
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a document and fills in the generated id
func (r *DocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	query := `
		INSERT INTO documents (project_id, source_id, text, created_at)
		VALUES (?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		doc.ProjectID,
		doc.SourceID,
		doc.Text,
		doc.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	doc.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read document id: %w", err)
	}
	return nil
}

// Get retrieves a document by ID
func (r *DocumentRepository) Get(ctx context.Context, id int64) (*document.Document, error) {
	query := `
		SELECT id, project_id, COALESCE(source_id, ''), text, created_at
		FROM documents
		WHERE id = ?
	`

	var doc document.Document
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.ProjectID,
		&doc.SourceID,
		&doc.Text,
		&doc.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// List returns a project's documents in ascending id order, the order the
// scheduler iterates in
func (r *DocumentRepository) List(ctx context.Context, projectID int64) ([]document.Document, error) {
	query := `
		SELECT id, project_id, COALESCE(source_id, ''), text, created_at
		FROM documents
		WHERE project_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		var doc document.Document
		if err := rows.Scan(&doc.ID, &doc.ProjectID, &doc.SourceID, &doc.Text, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListIDs returns a project's document ids in ascending order
func (r *DocumentRepository) ListIDs(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM documents WHERE project_id = ? ORDER BY id ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list document ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByIDs removes the given documents and their annotation state in one
// transaction. Callers page large deletions; each call commits on its own.
func (r *DocumentRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	statements := []string{
		`DELETE FROM annotation_labels WHERE annotation_id IN (
			SELECT a.id FROM annotations a
			JOIN annotation_sets s ON s.id = a.annotation_set_id
			WHERE s.document_id IN (` + placeholders + `))`,
		`DELETE FROM annotations WHERE annotation_set_id IN (
			SELECT id FROM annotation_sets WHERE document_id IN (` + placeholders + `))`,
		`DELETE FROM annotation_sets WHERE document_id IN (` + placeholders + `)`,
		`DELETE FROM documents WHERE id IN (` + placeholders + `)`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("failed to delete documents: %w", err)
		}
	}
	return tx.Commit()
}
