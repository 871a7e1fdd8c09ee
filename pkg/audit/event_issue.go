package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/issuehub/issuehub/pkg/model"
)

// IssueCreatedEvent represents a successful issue creation.
type IssueCreatedEvent struct {
	ActorID   int64
	ProjectID int64
	IssueID   int64
	Title     string
	ClientIP  string
}

func (e IssueCreatedEvent) MessageID() string {
	return "issue-create"
}

func (e IssueCreatedEvent) Message() string {
	return fmt.Sprintf("user %d created issue %d in project %d", e.ActorID, e.IssueID, e.ProjectID)
}

func (e IssueCreatedEvent) Severity() Severity {
	return SeverityInfo
}

func (e IssueCreatedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor: {
			"user": strconv.FormatInt(e.ActorID, 10),
		},
		SDIDSubject: {
			"issue":   strconv.FormatInt(e.IssueID, 10),
			"project": strconv.FormatInt(e.ProjectID, 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "create",
			"result":    "success",
		},
	}
}

func (e IssueCreatedEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.ActorID,
		Action:     "issue.create",
		EntityType: "issue",
		EntityID:   e.IssueID,
		ProjectID:  e.ProjectID,
		Allowed:    true,
	}
}

// IssueUpdatedEvent represents an attempt to edit an issue's unrestricted
// fields (title, description, priority).
type IssueUpdatedEvent struct {
	ActorID   int64
	ProjectID int64
	IssueID   int64
	Fields    []string
	ClientIP  string
	Allowed   bool
	Reason    string
}

func (e IssueUpdatedEvent) MessageID() string {
	return "issue-update"
}

func (e IssueUpdatedEvent) Message() string {
	fields := strings.Join(e.Fields, ", ")
	if e.Allowed {
		return fmt.Sprintf("user %d updated %s on issue %d", e.ActorID, fields, e.IssueID)
	}
	msg := fmt.Sprintf("user %d tried to update %s on issue %d", e.ActorID, fields, e.IssueID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e IssueUpdatedEvent) Severity() Severity {
	return severityFor(e.Allowed)
}

func (e IssueUpdatedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor: {
			"user": strconv.FormatInt(e.ActorID, 10),
		},
		SDIDSubject: {
			"issue":   strconv.FormatInt(e.IssueID, 10),
			"project": strconv.FormatInt(e.ProjectID, 10),
			"fields":  strings.Join(e.Fields, ","),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "update",
			"result":    outcome(e.Allowed),
		},
	}
}

func (e IssueUpdatedEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.ActorID,
		Action:     "issue.update",
		EntityType: "issue",
		EntityID:   e.IssueID,
		ProjectID:  e.ProjectID,
		Allowed:    e.Allowed,
		Reason:     e.Reason,
	}
}

// IssueTriagedEvent represents an attempt to change an issue's status or
// assignee. These are maintainer-only, so denials here are the usual trace of
// a member probing beyond their role.
type IssueTriagedEvent struct {
	ActorID   int64
	ProjectID int64
	IssueID   int64
	Field     string // "status" or "assignee"
	From      string
	To        string
	ClientIP  string
	Allowed   bool
	Reason    string
}

func (e IssueTriagedEvent) MessageID() string {
	return "issue-triage"
}

func (e IssueTriagedEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("user %d changed %s of issue %d from %s to %s", e.ActorID, e.Field, e.IssueID, e.From, e.To)
	}
	msg := fmt.Sprintf("user %d tried to change %s of issue %d to %s", e.ActorID, e.Field, e.IssueID, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e IssueTriagedEvent) Severity() Severity {
	return severityFor(e.Allowed)
}

func (e IssueTriagedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor: {
			"user": strconv.FormatInt(e.ActorID, 10),
		},
		SDIDSubject: {
			"issue":   strconv.FormatInt(e.IssueID, 10),
			"project": strconv.FormatInt(e.ProjectID, 10),
			"field":   e.Field,
			"from":    e.From,
			"to":      e.To,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "triage",
			"result":    outcome(e.Allowed),
		},
	}
}

func (e IssueTriagedEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.ActorID,
		Action:     "issue.triage." + e.Field,
		EntityType: "issue",
		EntityID:   e.IssueID,
		ProjectID:  e.ProjectID,
		Allowed:    e.Allowed,
		Reason:     e.Reason,
	}
}

// IssueDeletedEvent represents an attempt to delete an issue.
type IssueDeletedEvent struct {
	ActorID   int64
	ProjectID int64
	IssueID   int64
	ClientIP  string
	Allowed   bool
	Reason    string
}

func (e IssueDeletedEvent) MessageID() string {
	return "issue-delete"
}

func (e IssueDeletedEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("user %d deleted issue %d from project %d", e.ActorID, e.IssueID, e.ProjectID)
	}
	msg := fmt.Sprintf("user %d tried to delete issue %d", e.ActorID, e.IssueID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e IssueDeletedEvent) Severity() Severity {
	return severityFor(e.Allowed)
}

func (e IssueDeletedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor: {
			"user": strconv.FormatInt(e.ActorID, 10),
		},
		SDIDSubject: {
			"issue":   strconv.FormatInt(e.IssueID, 10),
			"project": strconv.FormatInt(e.ProjectID, 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "delete",
			"result":    outcome(e.Allowed),
		},
	}
}

func (e IssueDeletedEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.ActorID,
		Action:     "issue.delete",
		EntityType: "issue",
		EntityID:   e.IssueID,
		ProjectID:  e.ProjectID,
		Allowed:    e.Allowed,
		Reason:     e.Reason,
	}
}
