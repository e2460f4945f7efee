package repository

import "github.com/ysenarath/textflow/internal/repository/errs"

// The sentinels live in the errs leaf package; these aliases keep the
// sqlite, jobs, and api call sites on the repository name. errors.Is
// treats both spellings as the same value.
var (
	ErrNotFound            = errs.ErrNotFound
	ErrConflict            = errs.ErrConflict
	ErrForeignKeyViolation = errs.ErrForeignKeyViolation
	ErrInvalidInput        = errs.ErrInvalidInput
)
