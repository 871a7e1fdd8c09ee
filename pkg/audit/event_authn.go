package audit

import (
	"fmt"
	"strconv"

	"github.com/issuehub/issuehub/pkg/model"
)

// AuthnEvent represents a signup or login attempt.
type AuthnEvent struct {
	UserID    int64
	Email     string
	ClientIP  string
	Operation string // "signup", "login" or "logout"
	Success   bool
	Reason    string
}

func (e AuthnEvent) MessageID() string {
	return "authn"
}

func (e AuthnEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s completed %s", e.Email, e.Operation)
	}
	msg := fmt.Sprintf("%s failed %s", e.Email, e.Operation)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e AuthnEvent) Severity() Severity {
	return severityFor(e.Success)
}

func (e AuthnEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDActor: {
			"user":  strconv.FormatInt(e.UserID, 10),
			"email": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
}

func (e AuthnEvent) Entry() model.AuditEntry {
	return model.AuditEntry{
		ActorID:    e.UserID,
		Action:     "authn." + e.Operation,
		EntityType: "user",
		EntityID:   e.UserID,
		Allowed:    e.Success,
		Reason:     e.Reason,
	}
}
