// Package annotation holds annotation sets, annotations, and the service
// that manages one user's annotation pass over a document.
package annotation

import (
	"time"

	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/domain/project"
)

// Set is the unit of one user's annotation pass over one document.
// Exactly one set exists per (user, document) pair; it is created lazily on
// first lookup.
type Set struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	DocumentID int64     `json:"document_id"`
	Completed  bool      `json:"completed"`
	Skipped    bool      `json:"skipped"`
	Flagged    bool      `json:"flagged"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Span addresses a range of the document text by rune offset and length.
// A nil span on an annotation means the whole document is annotated.
type Span struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Annotation is one labeled span (or whole-document label) inside a set.
// Labels carries one value for single-label schemas and several for
// multi-label.
type Annotation struct {
	ID     int64           `json:"id"`
	SetID  int64           `json:"annotation_set_id"`
	Span   *Span           `json:"span,omitempty"`
	Labels []project.Label `json:"labels"`
}

// SetBundle is a completed set joined with its document, coder name, and
// annotations. The dataset builder consumes bundles; nothing here is
// lazy-loaded.
type SetBundle struct {
	Set         Set
	Coder       string
	Document    document.Document
	Annotations []Annotation
}
