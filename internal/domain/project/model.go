package project

import "time"

// Type selects the annotation shape for a project. It is a closed set:
// dataset building and agreement scoring switch on it directly.
type Type string

const (
	TypeSequenceLabeling       Type = "sequence_labeling"
	TypeDocumentClassification Type = "document_classification"
)

// Valid reports whether t is a known project type.
func (t Type) Valid() bool {
	return t == TypeSequenceLabeling || t == TypeDocumentClassification
}

// Project is a container for documents annotated under a redundancy
// constraint: every document needs Redundancy independent completed
// annotation sets.
type Project struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Type       Type      `json:"type"`
	Redundancy int       `json:"redundancy"`
	CreatedAt  time.Time `json:"created_at"`
}

// Label is one assignable value in a project's label set. Value is the
// normalized token used in datasets; Label is the display string.
type Label struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Value     string `json:"value"`
	Label     string `json:"label"`
	Order     int    `json:"order"`
	Color     string `json:"color,omitempty"`
}
