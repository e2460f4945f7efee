package annotation

import "errors"

var (
	// ErrNotAssigned indicates the user has no assignment on the document's
	// project.
	ErrNotAssigned = errors.New("user not assigned to project")
	// ErrDocumentNotFound indicates the document doesn't exist or belongs
	// to another project.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrAnnotationNotFound indicates the annotation doesn't exist or is
	// owned by another user.
	ErrAnnotationNotFound = errors.New("annotation not found")
	// ErrUnknownLabel indicates the label value is not in the project's
	// label set.
	ErrUnknownLabel = errors.New("unknown label value")
	// ErrInvalidInput indicates invalid annotation input.
	ErrInvalidInput = errors.New("invalid annotation input")
)
