package store

import (
	"errors"

	"github.com/issuehub/issuehub/pkg/model"
)

// ErrMembershipNotFound is returned when a membership doesn't exist
var ErrMembershipNotFound = errors.New("membership not found")

// Member is a membership joined with its user, for listing a project's
// members.
type Member struct {
	UserID int64      `json:"user_id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// MembershipsStore abstracts project membership storage
type MembershipsStore interface {
	// GetMembership retrieves one membership. Absence is a valid result, not
	// an error: returns (nil, nil) when the user has no role in the project.
	GetMembership(projectID, userID int64) (*model.ProjectMember, error)

	// ListMembers returns the project's members joined with user details,
	// ordered by user id.
	ListMembers(projectID int64) ([]Member, error)

	// AddMember inserts a membership.
	AddMember(member *model.ProjectMember) error

	// UpdateRole changes an existing membership's role.
	// Returns ErrMembershipNotFound if the membership doesn't exist.
	UpdateRole(projectID, userID int64, role model.Role) error

	// RemoveMember deletes a membership.
	// Returns ErrMembershipNotFound if the membership doesn't exist.
	RemoveMember(projectID, userID int64) error

	// CountMaintainers returns the number of maintainers in the project.
	CountMaintainers(projectID int64) (int64, error)

	// ListProjectIDsForUser returns the ids of the projects the user belongs
	// to, the user's visibility scope.
	ListProjectIDsForUser(userID int64) ([]int64, error)
}
