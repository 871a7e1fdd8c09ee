package authz

import "github.com/issuehub/issuehub/pkg/model"

// MembershipSource is the one read the resolver needs from storage.
type MembershipSource interface {
	GetMembership(projectID, userID int64) (*model.ProjectMember, error)
}

// Resolver maps (identity, project) to the caller's role in that project.
// Pure lookup; "no membership" is a valid result, not an error.
type Resolver struct {
	memberships MembershipSource
}

// NewResolver creates a Resolver backed by the given membership source.
func NewResolver(memberships MembershipSource) *Resolver {
	return &Resolver{memberships: memberships}
}

// Resolve returns the caller's role in the project, or NoMembership. The
// error is only for storage failures.
func (r *Resolver) Resolve(userID, projectID int64) (RoleOrNone, error) {
	m, err := r.memberships.GetMembership(projectID, userID)
	if err != nil {
		return NoMembership(), err
	}
	if m == nil {
		return NoMembership(), nil
	}
	return SomeRole(m.Role), nil
}
