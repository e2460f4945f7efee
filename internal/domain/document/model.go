// Package document defines the immutable unit of annotatable text.
package document

import (
	"html"
	"strings"
	"time"
)

// Document is a unit of text inside a project. Text is normalized once at
// creation and never mutated afterwards; annotation spans index into it.
type Document struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	SourceID  string    `json:"source_id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Normalize prepares raw text for storage: HTML special characters are
// escaped and newlines folded to single spaces so spans stay on one line.
func Normalize(text string) string {
	return newlines.Replace(html.EscapeString(text))
}
