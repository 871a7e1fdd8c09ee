package authz

// Action identifies an operation submitted to the authorization gate.
type Action int

const (
	// Reads
	ActionViewProject Action = iota
	ActionListIssues
	ActionReadIssue
	ActionReadComments

	// Member-level writes
	ActionCreateIssue
	ActionAddComment
	ActionEditIssue // title, description, priority

	// Triage and administration
	ActionEditIssueTriage // status or assignee
	ActionDeleteIssue
	ActionManageMembers // add or remove a project member
	ActionChangeMemberRole
	ActionReadAudit
)

func (a Action) String() string {
	switch a {
	case ActionViewProject:
		return "view_project"
	case ActionListIssues:
		return "list_issues"
	case ActionReadIssue:
		return "read_issue"
	case ActionReadComments:
		return "read_comments"
	case ActionCreateIssue:
		return "create_issue"
	case ActionAddComment:
		return "add_comment"
	case ActionEditIssue:
		return "edit_issue"
	case ActionEditIssueTriage:
		return "edit_issue_triage"
	case ActionDeleteIssue:
		return "delete_issue"
	case ActionManageMembers:
		return "manage_members"
	case ActionChangeMemberRole:
		return "change_member_role"
	case ActionReadAudit:
		return "read_audit"
	}
	return "unknown"
}

// Actions returns every action the gate knows about, for exhaustive tests.
func Actions() []Action {
	return []Action{
		ActionViewProject, ActionListIssues, ActionReadIssue, ActionReadComments,
		ActionCreateIssue, ActionAddComment, ActionEditIssue,
		ActionEditIssueTriage, ActionDeleteIssue, ActionManageMembers,
		ActionChangeMemberRole, ActionReadAudit,
	}
}
