package authz

import "github.com/issuehub/issuehub/pkg/model"

// RoleOrNone is the result of membership resolution: either a role in the
// project, or no membership at all. The zero value means no membership.
type RoleOrNone struct {
	role    model.Role
	present bool
}

// SomeRole wraps a resolved membership role.
func SomeRole(r model.Role) RoleOrNone {
	return RoleOrNone{role: r, present: true}
}

// NoMembership is the resolver result for a caller with no membership in the
// project. It is a valid, non-exceptional value.
func NoMembership() RoleOrNone {
	return RoleOrNone{}
}

// Role returns the wrapped role and whether one is present.
func (r RoleOrNone) Role() (model.Role, bool) {
	return r.role, r.present
}

// IsMaintainer reports whether the caller holds the maintainer role.
func (r RoleOrNone) IsMaintainer() bool {
	return r.present && r.role == model.RoleMaintainer
}
