package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/repository"
)

// AnnotationSetRepository implements repository.AnnotationSetRepository
// for SQLite
type AnnotationSetRepository struct {
	db *DB
}

// NewAnnotationSetRepository creates a new AnnotationSetRepository
func NewAnnotationSetRepository(db *DB) *AnnotationSetRepository {
	return &AnnotationSetRepository{db: db}
}

const setColumns = `id, user_id, document_id, completed, skipped, flagged, created_at, updated_at`

func scanSet(row interface{ Scan(...any) error }) (*annotation.Set, error) {
	var set annotation.Set
	err := row.Scan(
		&set.ID,
		&set.UserID,
		&set.DocumentID,
		&set.Completed,
		&set.Skipped,
		&set.Flagged,
		&set.CreatedAt,
		&set.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// Get retrieves the set for a (user, document) pair
func (r *AnnotationSetRepository) Get(ctx context.Context, userID, documentID int64) (*annotation.Set, error) {
	query := `SELECT ` + setColumns + ` FROM annotation_sets WHERE user_id = ? AND document_id = ?`
	set, err := scanSet(r.db.QueryRowContext(ctx, query, userID, documentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get annotation set: %w", err)
	}
	return set, nil
}

// Create inserts a set. The unique (user, document) constraint turns a
// concurrent duplicate into ErrConflict so the caller can re-fetch.
func (r *AnnotationSetRepository) Create(ctx context.Context, set *annotation.Set) error {
	query := `
		INSERT INTO annotation_sets (user_id, document_id, completed, skipped, flagged, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		set.UserID,
		set.DocumentID,
		set.Completed,
		set.Skipped,
		set.Flagged,
		set.CreatedAt,
		set.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create annotation set: %w", err)
	}
	set.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read annotation set id: %w", err)
	}
	return nil
}

// Update persists the mutable flags of a set
func (r *AnnotationSetRepository) Update(ctx context.Context, set *annotation.Set) error {
	query := `
		UPDATE annotation_sets
		SET completed = ?, skipped = ?, flagged = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, set.Completed, set.Skipped, set.Flagged, set.UpdatedAt, set.ID)
	if err != nil {
		return fmt.Errorf("failed to update annotation set: %w", err)
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

// ListByUserProject returns the user's sets on a project's documents
func (r *AnnotationSetRepository) ListByUserProject(ctx context.Context, userID, projectID int64) ([]annotation.Set, error) {
	query := `
		SELECT s.id, s.user_id, s.document_id, s.completed, s.skipped, s.flagged, s.created_at, s.updated_at
		FROM annotation_sets s
		JOIN documents d ON d.id = s.document_id
		WHERE s.user_id = ? AND d.project_id = ?
		ORDER BY s.document_id ASC
	`
	return r.listSets(ctx, query, userID, projectID)
}

// ListByProject returns all sets on a project's documents
func (r *AnnotationSetRepository) ListByProject(ctx context.Context, projectID int64) ([]annotation.Set, error) {
	query := `
		SELECT s.id, s.user_id, s.document_id, s.completed, s.skipped, s.flagged, s.created_at, s.updated_at
		FROM annotation_sets s
		JOIN documents d ON d.id = s.document_id
		WHERE d.project_id = ?
		ORDER BY s.document_id ASC, s.user_id ASC
	`
	return r.listSets(ctx, query, projectID)
}

func (r *AnnotationSetRepository) listSets(ctx context.Context, query string, args ...any) ([]annotation.Set, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotation sets: %w", err)
	}
	defer rows.Close()

	var sets []annotation.Set
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan annotation set: %w", err)
		}
		sets = append(sets, *set)
	}
	return sets, rows.Err()
}

// CountCompletedByDocument returns, per document of the project, the number
// of distinct users with a completed set. Documents with no completed sets
// are absent from the map.
func (r *AnnotationSetRepository) CountCompletedByDocument(ctx context.Context, projectID int64) (map[int64]int, error) {
	query := `
		SELECT s.document_id, COUNT(DISTINCT s.user_id)
		FROM annotation_sets s
		JOIN documents d ON d.id = s.document_id
		WHERE d.project_id = ? AND s.completed = 1
		GROUP BY s.document_id
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed sets: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var documentID int64
		var count int
		if err := rows.Scan(&documentID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan completed count: %w", err)
		}
		counts[documentID] = count
	}
	return counts, rows.Err()
}

// ListCompletedBundles loads every completed set on the project with its
// document, coder name, and annotations. All relations are fetched here
// explicitly; nothing downstream touches the store again.
func (r *AnnotationSetRepository) ListCompletedBundles(ctx context.Context, projectID int64) ([]annotation.SetBundle, error) {
	query := `
		SELECT s.id, s.user_id, s.document_id, s.completed, s.skipped, s.flagged, s.created_at, s.updated_at,
		       u.username,
		       d.id, d.project_id, COALESCE(d.source_id, ''), d.text, d.created_at
		FROM annotation_sets s
		JOIN users u ON u.id = s.user_id
		JOIN documents d ON d.id = s.document_id
		WHERE d.project_id = ? AND s.completed = 1
		ORDER BY d.id ASC, u.username ASC
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed sets: %w", err)
	}
	defer rows.Close()

	var bundles []annotation.SetBundle
	setIndex := make(map[int64]int)
	for rows.Next() {
		var b annotation.SetBundle
		var doc document.Document
		err := rows.Scan(
			&b.Set.ID, &b.Set.UserID, &b.Set.DocumentID,
			&b.Set.Completed, &b.Set.Skipped, &b.Set.Flagged,
			&b.Set.CreatedAt, &b.Set.UpdatedAt,
			&b.Coder,
			&doc.ID, &doc.ProjectID, &doc.SourceID, &doc.Text, &doc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completed set: %w", err)
		}
		b.Document = doc
		setIndex[b.Set.ID] = len(bundles)
		bundles = append(bundles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return bundles, nil
	}

	annQuery := `
		SELECT a.id, a.annotation_set_id, a.span_start, a.span_length,
		       l.id, l.project_id, l.value, l.label, l.rank, COALESCE(l.color, '')
		FROM annotations a
		JOIN annotation_sets s ON s.id = a.annotation_set_id
		JOIN documents d ON d.id = s.document_id
		LEFT JOIN annotation_labels al ON al.annotation_id = a.id
		LEFT JOIN labels l ON l.id = al.label_id
		WHERE d.project_id = ? AND s.completed = 1
		ORDER BY a.id ASC
	`
	annRows, err := r.db.QueryContext(ctx, annQuery, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	defer annRows.Close()

	annIndex := make(map[int64]*annotation.Annotation)
	var annOrder []int64
	for annRows.Next() {
		var annID, setID int64
		var spanStart, spanLength sql.NullInt64
		var labelID, labelProject, labelRank sql.NullInt64
		var labelValue, labelDisplay, labelColor sql.NullString
		err := annRows.Scan(
			&annID, &setID, &spanStart, &spanLength,
			&labelID, &labelProject, &labelValue, &labelDisplay, &labelRank, &labelColor,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}

		ann, seen := annIndex[annID]
		if !seen {
			ann = &annotation.Annotation{ID: annID, SetID: setID}
			if spanStart.Valid && spanLength.Valid {
				ann.Span = &annotation.Span{Start: int(spanStart.Int64), Length: int(spanLength.Int64)}
			}
			annIndex[annID] = ann
			annOrder = append(annOrder, annID)
		}
		if labelID.Valid {
			ann.Labels = append(ann.Labels, project.Label{
				ID:        labelID.Int64,
				ProjectID: labelProject.Int64,
				Value:     labelValue.String,
				Label:     labelDisplay.String,
				Order:     int(labelRank.Int64),
				Color:     labelColor.String,
			})
		}
	}
	if err := annRows.Err(); err != nil {
		return nil, err
	}

	for _, annID := range annOrder {
		ann := annIndex[annID]
		if bi, ok := setIndex[ann.SetID]; ok {
			bundles[bi].Annotations = append(bundles[bi].Annotations, *ann)
		}
	}
	return bundles, nil
}

// AddAnnotation inserts an annotation and its label links in one
// transaction
func (r *AnnotationSetRepository) AddAnnotation(ctx context.Context, ann *annotation.Annotation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var spanStart, spanLength any
	if ann.Span != nil {
		spanStart, spanLength = ann.Span.Start, ann.Span.Length
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO annotations (annotation_set_id, span_start, span_length) VALUES (?, ?, ?)`,
		ann.SetID, spanStart, spanLength)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create annotation: %w", err)
	}
	ann.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read annotation id: %w", err)
	}

	for _, label := range ann.Labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO annotation_labels (annotation_id, label_id) VALUES (?, ?)`,
			ann.ID, label.ID); err != nil {
			return fmt.Errorf("failed to link label: %w", err)
		}
	}
	return tx.Commit()
}

// GetAnnotation retrieves an annotation scoped to its owning user and
// project; an annotation owned by someone else is not found.
func (r *AnnotationSetRepository) GetAnnotation(ctx context.Context, userID, projectID, annotationID int64) (*annotation.Annotation, error) {
	query := `
		SELECT a.id, a.annotation_set_id, a.span_start, a.span_length
		FROM annotations a
		JOIN annotation_sets s ON s.id = a.annotation_set_id
		JOIN documents d ON d.id = s.document_id
		WHERE a.id = ? AND s.user_id = ? AND d.project_id = ?
	`
	var ann annotation.Annotation
	var spanStart, spanLength sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, annotationID, userID, projectID).Scan(
		&ann.ID, &ann.SetID, &spanStart, &spanLength)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get annotation: %w", err)
	}
	if spanStart.Valid && spanLength.Valid {
		ann.Span = &annotation.Span{Start: int(spanStart.Int64), Length: int(spanLength.Int64)}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.project_id, l.value, l.label, l.rank, COALESCE(l.color, '')
		FROM annotation_labels al
		JOIN labels l ON l.id = al.label_id
		WHERE al.annotation_id = ?
		ORDER BY l.rank ASC, l.id ASC
	`, annotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotation labels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var label project.Label
		if err := rows.Scan(&label.ID, &label.ProjectID, &label.Value, &label.Label, &label.Order, &label.Color); err != nil {
			return nil, fmt.Errorf("failed to scan annotation label: %w", err)
		}
		ann.Labels = append(ann.Labels, label)
	}
	return &ann, rows.Err()
}

// UpdateAnnotation replaces an annotation's label links
func (r *AnnotationSetRepository) UpdateAnnotation(ctx context.Context, ann *annotation.Annotation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM annotation_labels WHERE annotation_id = ?`, ann.ID); err != nil {
		return fmt.Errorf("failed to clear labels: %w", err)
	}
	for _, label := range ann.Labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO annotation_labels (annotation_id, label_id) VALUES (?, ?)`,
			ann.ID, label.ID); err != nil {
			return fmt.Errorf("failed to link label: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteAnnotation removes an annotation; label links cascade
func (r *AnnotationSetRepository) DeleteAnnotation(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM annotations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
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
