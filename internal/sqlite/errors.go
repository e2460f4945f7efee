package sqlite

import "strings"

// The driver surfaces constraint failures as flat error strings, so
// classification is by substring match.

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isUniqueViolation matches the unique indexes the schema declares: the
// (user_id, document_id) pair on annotation_sets, (project_id, value) on
// labels, usernames, and job ids.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
