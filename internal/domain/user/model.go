// Package user defines annotators and their per-project assignments.
package user

// User is an annotator account. Authentication is handled elsewhere; the
// core only needs identity and a display name for coder columns.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Role gates project-level actions. Annotation requires any assignment;
// dashboards and dataset downloads require manager or admin.
type Role string

const (
	RoleDefault Role = "default"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDefault || r == RoleManager || r == RoleAdmin
}

// CanManage reports whether the role may access admin-facing views such as
// agreement scores and project-wide status.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}

// Assignment links a user to a project with a role. A user without an
// assignment cannot annotate or even see the project.
type Assignment struct {
	UserID    int64 `json:"user_id"`
	ProjectID int64 `json:"project_id"`
	Role      Role  `json:"role"`
}
