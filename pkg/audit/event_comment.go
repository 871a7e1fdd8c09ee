package audit

import (
	"fmt"
	"strconv"

	"github.com/issuehub/issuehub/pkg/model"
)

// CommentAddedEvent represents a successful comment creation.
type CommentAddedEvent struct {
	ActorID   int64
	ProjectID int64
	IssueID   int64
	CommentID int64
	ClientIP  string
}

func (e CommentAddedEvent) MessageID() string {
	return "comment-add"
}

func (e CommentAddedEvent) Message() string {
	return fmt.Sprintf("user %d commented on issue %d", e.ActorID, e.IssueID)
}

func (e CommentAddedEvent) Severity() Severity {
	return SeverityInfo
}

func (e CommentAddedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor: {
			"user": strconv.FormatInt(e.ActorID, 10),
		},
		SDIDSubject: {
			"comment": strconv.FormatInt(e.CommentID, 10),
			"issue":   strconv.FormatInt(e.IssueID, 10),
			"project": strconv.FormatInt(e.ProjectID, 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "comment",
			"result":    "success",
		},
	}
}

func (e CommentAddedEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.ActorID,
		Action:     "comment.create",
		EntityType: "comment",
		EntityID:   e.CommentID,
		ProjectID:  e.ProjectID,
		Allowed:    true,
	}
}
