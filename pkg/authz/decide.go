package authz

import "github.com/issuehub/issuehub/pkg/model"

// DenyReason is the machine-readable reason attached to every denial. It is
// distinct from "resource not found", which callers decide with existence
// checks before invoking the gate.
type DenyReason string

const (
	ReasonNoMembership     DenyReason = "no_membership"
	ReasonInsufficientRole DenyReason = "insufficient_role"
	ReasonNotOwner         DenyReason = "not_owner"
	ReasonSelfChange       DenyReason = "self_change_forbidden"
)

// Facts is the ownership-fact bundle for the target resource. Callers fill
// in only the facts that apply to the action; unused facts are ignored.
type Facts struct {
	// IsReporter is true when the caller reported the target issue.
	IsReporter bool
	// IsAssignee is true when the caller is the target issue's assignee.
	IsAssignee bool
	// TargetIsSelf is true when a membership mutation targets the caller's
	// own membership.
	TargetIsSelf bool
}

// Decision is the gate's verdict. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// memberRule describes how a plain member qualifies for an action.
type memberRule int

const (
	memberDenied memberRule = iota
	memberAllowed
	memberIfOwner    // reporter or assignee
	memberIfReporter // reporter only
)

// policy is one row of the decision table.
type policy struct {
	member     memberRule
	maintainer bool // allowed unconditionally for maintainers
	selfGuard  bool // denied even for maintainers when the target is themselves
}

// policyTable maps every action to its policy. Restricted triage and
// administration rows are gated on role, never on ownership: triage authority
// must not be self-grantable by reporters. Unrestricted rows allow ownership
// OR role, so a reporter can always correct their own issue.
var policyTable = map[Action]policy{
	ActionViewProject:  {member: memberAllowed, maintainer: true},
	ActionListIssues:   {member: memberAllowed, maintainer: true},
	ActionReadIssue:    {member: memberAllowed, maintainer: true},
	ActionReadComments: {member: memberAllowed, maintainer: true},

	ActionCreateIssue: {member: memberAllowed, maintainer: true},
	ActionAddComment:  {member: memberAllowed, maintainer: true},
	ActionEditIssue:   {member: memberIfOwner, maintainer: true},

	ActionEditIssueTriage:  {member: memberDenied, maintainer: true},
	ActionDeleteIssue:      {member: memberIfReporter, maintainer: true},
	ActionManageMembers:    {member: memberDenied, maintainer: true},
	ActionChangeMemberRole: {member: memberDenied, maintainer: true, selfGuard: true},
	ActionReadAudit:        {member: memberDenied, maintainer: true},
}

// Decide returns the gate's verdict for (role, action, facts). It is the
// only place in the codebase that interprets roles.
func Decide(role RoleOrNone, action Action, facts Facts) Decision {
	r, present := role.Role()
	if !present {
		return deny(ReasonNoMembership)
	}

	p, ok := policyTable[action]
	if !ok {
		return deny(ReasonInsufficientRole)
	}

	if r == model.RoleMaintainer {
		if p.selfGuard && facts.TargetIsSelf {
			return deny(ReasonSelfChange)
		}
		if p.maintainer {
			return allow()
		}
		return deny(ReasonInsufficientRole)
	}

	switch p.member {
	case memberAllowed:
		return allow()
	case memberIfOwner:
		if facts.IsReporter || facts.IsAssignee {
			return allow()
		}
		return deny(ReasonNotOwner)
	case memberIfReporter:
		if facts.IsReporter {
			return allow()
		}
		return deny(ReasonNotOwner)
	default:
		return deny(ReasonInsufficientRole)
	}
}
