// Package sqlite implements the repository interfaces on an embedded
// SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	// Foreign keys go through the DSN so every pooled connection gets the
	// pragma; an Exec would only configure the connection it ran on.
	if !strings.Contains(dataSourceName, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dataSourceName, "?") {
			sep = "&"
		}
		dataSourceName += sep + "_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. The schema is embedded; there is no
// separate migration tooling for the single-file deployment.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('sequence_labeling', 'document_classification')),
    redundancy INTEGER NOT NULL DEFAULT 1 CHECK(redundancy >= 1),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Annotator accounts
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE
);

-- Per-project role assignments
CREATE TABLE IF NOT EXISTS assignments (
    user_id INTEGER NOT NULL,
    project_id INTEGER NOT NULL,
    role TEXT NOT NULL DEFAULT 'default' CHECK(role IN ('default', 'manager', 'admin')),
    PRIMARY KEY (user_id, project_id),
    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Documents table
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    source_id TEXT,
    text TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_project_documents ON documents(project_id);

-- Project label sets
CREATE TABLE IF NOT EXISTS labels (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    value TEXT NOT NULL,
    label TEXT NOT NULL,
    rank INTEGER NOT NULL DEFAULT 1,
    color TEXT,
    UNIQUE (project_id, value),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- One user's annotation pass over one document
CREATE TABLE IF NOT EXISTS annotation_sets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    document_id INTEGER NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    flagged INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, document_id),
    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (document_id) REFERENCES documents(id)
);
CREATE INDEX IF NOT EXISTS idx_document_sets ON annotation_sets(document_id);

-- Labeled spans / whole-document labels
CREATE TABLE IF NOT EXISTS annotations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    annotation_set_id INTEGER NOT NULL,
    span_start INTEGER,
    span_length INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (annotation_set_id) REFERENCES annotation_sets(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_set_annotations ON annotations(annotation_set_id);

-- Many-to-many annotation labels
CREATE TABLE IF NOT EXISTS annotation_labels (
    annotation_id INTEGER NOT NULL,
    label_id INTEGER NOT NULL,
    PRIMARY KEY (annotation_id, label_id),
    FOREIGN KEY (annotation_id) REFERENCES annotations(id) ON DELETE CASCADE,
    FOREIGN KEY (label_id) REFERENCES labels(id)
);

-- Background job status records
CREATE TABLE IF NOT EXISTS jobs (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    project_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('pending', 'running', 'succeeded', 'failed')),
    error TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_project_jobs ON jobs(project_id);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
