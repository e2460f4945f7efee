package repository_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ysenarath/textflow/internal/repository"
	"github.com/ysenarath/textflow/internal/repository/errs"
)

// Services match on the errs sentinels while the sqlite layer returns the
// repository aliases; both spellings must stay the same value.
func TestSentinelAliases(t *testing.T) {
	require.ErrorIs(t, repository.ErrNotFound, errs.ErrNotFound)
	require.ErrorIs(t, repository.ErrConflict, errs.ErrConflict)
	require.ErrorIs(t, repository.ErrForeignKeyViolation, errs.ErrForeignKeyViolation)
	require.ErrorIs(t, repository.ErrInvalidInput, errs.ErrInvalidInput)
}
