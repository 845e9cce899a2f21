// Package authz decides which role may perform which action. Every
// role-gated route resolves to exactly one Action.
package authz

import "github.com/noah-isme/sma-syllabus-api/internal/models"

// Action names a role-gated capability.
type Action string

const (
	ViewAdminDashboard   Action = "admin.dashboard"
	ManageUsers          Action = "admin.users"
	ManageHierarchy      Action = "admin.hierarchy"
	ManageAssignments    Action = "admin.assignments"
	ViewTeacherDashboard Action = "teacher.dashboard"
	ToggleTopic          Action = "teacher.topic"
	ViewPrincipalBoard   Action = "principal.dashboard"
	ViewReports          Action = "principal.reports"
	EmailReports         Action = "principal.email"
)

var policy = map[Action]models.UserRole{
	ViewAdminDashboard:   models.RoleAdmin,
	ManageUsers:          models.RoleAdmin,
	ManageHierarchy:      models.RoleAdmin,
	ManageAssignments:    models.RoleAdmin,
	ViewTeacherDashboard: models.RoleTeacher,
	ToggleTopic:          models.RoleTeacher,
	ViewPrincipalBoard:   models.RolePrincipal,
	ViewReports:          models.RolePrincipal,
	EmailReports:         models.RolePrincipal,
}

// Allowed reports whether role may perform action. The role must match the
// action's required role exactly; anonymous callers and unknown actions are
// always denied.
func Allowed(role models.UserRole, action Action) bool {
	required, ok := policy[action]
	if !ok || role == models.RoleAnonymous {
		return false
	}
	return role == required
}

// RequiredRole returns the role an action is reserved for.
func RequiredRole(action Action) (models.UserRole, bool) {
	role, ok := policy[action]
	return role, ok
}
