package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrLabelNotFound indicates no label with the requested value exists
	// in the project.
	ErrLabelNotFound = errors.New("label not found")
	// ErrInvalidInput indicates invalid project or label input.
	ErrInvalidInput = errors.New("invalid project input")
)
