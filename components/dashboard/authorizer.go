package dashboard

import "context"

// RoleAuthorizer allows layout edits to viewers carrying any of the configured roles.
type RoleAuthorizer struct {
	Roles []string
}

// NewRoleAuthorizer builds an authorizer; with no roles it defaults to "teacher".
func NewRoleAuthorizer(roles ...string) RoleAuthorizer {
	if len(roles) == 0 {
		roles = []string{"teacher"}
	}
	return RoleAuthorizer{Roles: roles}
}

// CanEditLayout reports whether viewer holds an editing role.
func (a RoleAuthorizer) CanEditLayout(_ context.Context, viewer ViewerContext, _ string) bool {
	for _, role := range a.Roles {
		if viewer.HasRole(role) {
			return true
		}
	}
	return false
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanEditLayout(context.Context, ViewerContext, string) bool {
	return true
}
