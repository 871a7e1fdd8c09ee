package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/issuehub/issuehub/pkg/model"
)

func TestDecideNoMembershipDeniesEverything(t *testing.T) {
	for _, action := range Actions() {
		d := Decide(NoMembership(), action, Facts{})
		assert.False(t, d.Allowed, "action %s", action)
		assert.Equal(t, ReasonNoMembership, d.Reason, "action %s", action)
	}
}

func TestDecideMaintainerTable(t *testing.T) {
	maintainer := SomeRole(model.RoleMaintainer)

	for _, action := range Actions() {
		d := Decide(maintainer, action, Facts{})
		assert.True(t, d.Allowed, "maintainer should be allowed %s", action)
	}
}

func TestDecideMaintainerMayNotChangeOwnRole(t *testing.T) {
	maintainer := SomeRole(model.RoleMaintainer)

	d := Decide(maintainer, ActionChangeMemberRole, Facts{TargetIsSelf: true})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonSelfChange, d.Reason)

	// Removing one's own membership is a gate-level allow; the zero-maintainer
	// invariant is enforced by the membership service, not here.
	d = Decide(maintainer, ActionManageMembers, Facts{TargetIsSelf: true})
	assert.True(t, d.Allowed)
}

func TestDecideMemberTable(t *testing.T) {
	member := SomeRole(model.RoleMember)

	cases := []struct {
		action  Action
		facts   Facts
		allowed bool
		reason  DenyReason
	}{
		{ActionViewProject, Facts{}, true, ""},
		{ActionListIssues, Facts{}, true, ""},
		{ActionReadIssue, Facts{}, true, ""},
		{ActionReadComments, Facts{}, true, ""},
		{ActionCreateIssue, Facts{}, true, ""},
		{ActionAddComment, Facts{}, true, ""},

		{ActionEditIssue, Facts{IsReporter: true}, true, ""},
		{ActionEditIssue, Facts{IsAssignee: true}, true, ""},
		{ActionEditIssue, Facts{}, false, ReasonNotOwner},

		{ActionEditIssueTriage, Facts{IsReporter: true, IsAssignee: true}, false, ReasonInsufficientRole},
		{ActionEditIssueTriage, Facts{}, false, ReasonInsufficientRole},

		{ActionDeleteIssue, Facts{IsReporter: true}, true, ""},
		{ActionDeleteIssue, Facts{IsAssignee: true}, false, ReasonNotOwner},
		{ActionDeleteIssue, Facts{}, false, ReasonNotOwner},

		{ActionManageMembers, Facts{}, false, ReasonInsufficientRole},
		{ActionChangeMemberRole, Facts{}, false, ReasonInsufficientRole},
		{ActionReadAudit, Facts{}, false, ReasonInsufficientRole},
	}

	for _, tc := range cases {
		d := Decide(member, tc.action, tc.facts)
		assert.Equal(t, tc.allowed, d.Allowed, "member %s facts=%+v", tc.action, tc.facts)
		if !tc.allowed {
			assert.Equal(t, tc.reason, d.Reason, "member %s facts=%+v", tc.action, tc.facts)
		}
	}
}

// The full cross-product: every action gets a verdict for every role and
// every ownership combination, and the verdict never depends on anything
// else.
func TestDecideIsTotal(t *testing.T) {
	roles := []RoleOrNone{NoMembership(), SomeRole(model.RoleMember), SomeRole(model.RoleMaintainer)}
	bools := []bool{false, true}

	for _, role := range roles {
		for _, action := range Actions() {
			for _, reporter := range bools {
				for _, assignee := range bools {
					for _, self := range bools {
						facts := Facts{IsReporter: reporter, IsAssignee: assignee, TargetIsSelf: self}
						d := Decide(role, action, facts)
						if d.Allowed {
							assert.Empty(t, d.Reason)
						} else {
							assert.NotEmpty(t, d.Reason)
						}
					}
				}
			}
		}
	}
}

func TestResolverMapsMembershipToRole(t *testing.T) {
	src := staticMemberships{
		{ProjectID: 1, UserID: 7, Role: model.RoleMaintainer},
		{ProjectID: 1, UserID: 8, Role: model.RoleMember},
	}
	resolver := NewResolver(src)

	role, err := resolver.Resolve(7, 1)
	assert.NoError(t, err)
	assert.True(t, role.IsMaintainer())

	role, err = resolver.Resolve(8, 1)
	assert.NoError(t, err)
	r, ok := role.Role()
	assert.True(t, ok)
	assert.Equal(t, model.RoleMember, r)

	role, err = resolver.Resolve(9, 1)
	assert.NoError(t, err)
	_, ok = role.Role()
	assert.False(t, ok, "unknown user resolves to no membership")
}

type staticMemberships []model.ProjectMember

func (s staticMemberships) GetMembership(projectID, userID int64) (*model.ProjectMember, error) {
	for i := range s {
		if s[i].ProjectID == projectID && s[i].UserID == userID {
			return &s[i], nil
		}
	}
	return nil, nil
}
