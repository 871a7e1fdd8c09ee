package audit

import (
	"fmt"
	"strconv"

	"github.com/issuehub/issuehub/pkg/model"
)

// MemberAddedEvent represents an attempt to add a member to a project.
type MemberAddedEvent struct {
	ActorID   int64
	ProjectID int64
	TargetID  int64
	Role      string
	ClientIP  string
	Allowed   bool
	Reason    string
}

func (e MemberAddedEvent) MessageID() string {
	return "member-add"
}

func (e MemberAddedEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("user %d added user %d to project %d as %s", e.ActorID, e.TargetID, e.ProjectID, e.Role)
	}
	msg := fmt.Sprintf("user %d tried to add user %d to project %d", e.ActorID, e.TargetID, e.ProjectID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e MemberAddedEvent) Severity() Severity {
	return severityFor(e.Allowed)
}

func (e MemberAddedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor: {
			"user": strconv.FormatInt(e.ActorID, 10),
		},
		SDIDSubject: {
			"user":    strconv.FormatInt(e.TargetID, 10),
			"project": strconv.FormatInt(e.ProjectID, 10),
			"role":    e.Role,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "member-add",
			"result":    outcome(e.Allowed),
		},
	}
}

func (e MemberAddedEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.ActorID,
		Action:     "member.add",
		EntityType: "membership",
		EntityID:   e.TargetID,
		ProjectID:  e.ProjectID,
		Allowed:    e.Allowed,
		Reason:     e.Reason,
	}
}

// MemberRemovedEvent represents an attempt to remove a member from a project.
type MemberRemovedEvent struct {
	ActorID   int64
	ProjectID int64
	TargetID  int64
	ClientIP  string
	Allowed   bool
	Reason    string
}

func (e MemberRemovedEvent) MessageID() string {
	return "member-remove"
}

func (e MemberRemovedEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("user %d removed user %d from project %d", e.ActorID, e.TargetID, e.ProjectID)
	}
	msg := fmt.Sprintf("user %d tried to remove user %d from project %d", e.ActorID, e.TargetID, e.ProjectID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e MemberRemovedEvent) Severity() Severity {
	return severityFor(e.Allowed)
}

func (e MemberRemovedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor: {
			"user": strconv.FormatInt(e.ActorID, 10),
		},
		SDIDSubject: {
			"user":    strconv.FormatInt(e.TargetID, 10),
			"project": strconv.FormatInt(e.ProjectID, 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "member-remove",
			"result":    outcome(e.Allowed),
		},
	}
}

func (e MemberRemovedEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.ActorID,
		Action:     "member.remove",
		EntityType: "membership",
		EntityID:   e.TargetID,
		ProjectID:  e.ProjectID,
		Allowed:    e.Allowed,
		Reason:     e.Reason,
	}
}

// MemberRoleChangedEvent represents an attempt to change another member's
// role. Self role changes are always denied by the gate and show up here with
// outcome denied.
type MemberRoleChangedEvent struct {
	ActorID   int64
	ProjectID int64
	TargetID  int64
	From      string
	To        string
	ClientIP  string
	Allowed   bool
	Reason    string
}

func (e MemberRoleChangedEvent) MessageID() string {
	return "member-role"
}

func (e MemberRoleChangedEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("user %d changed role of user %d in project %d from %s to %s", e.ActorID, e.TargetID, e.ProjectID, e.From, e.To)
	}
	msg := fmt.Sprintf("user %d tried to change role of user %d in project %d to %s", e.ActorID, e.TargetID, e.ProjectID, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e MemberRoleChangedEvent) Severity() Severity {
	return severityFor(e.Allowed)
}

func (e MemberRoleChangedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor: {
			"user": strconv.FormatInt(e.ActorID, 10),
		},
		SDIDSubject: {
			"user":    strconv.FormatInt(e.TargetID, 10),
			"project": strconv.FormatInt(e.ProjectID, 10),
			"from":    e.From,
			"to":      e.To,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "member-role",
			"result":    outcome(e.Allowed),
		},
	}
}

func (e MemberRoleChangedEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.ActorID,
		Action:     "member.change_role",
		EntityType: "membership",
		EntityID:   e.TargetID,
		ProjectID:  e.ProjectID,
		Allowed:    e.Allowed,
		Reason:     e.Reason,
	}
}
