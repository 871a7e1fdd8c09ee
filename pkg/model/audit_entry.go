package model

import "time"

// AuditEntry is one immutable record in the audit trail. Sequence is assigned
// by the audit recorder, not by the database, so that append order matches
// the order the recorded actions committed.
type AuditEntry struct {
	Sequence   uint64    `gorm:"column:sequence;primaryKey" json:"sequence"`
	ActorID    int64     `gorm:"column:actor_id;not null" json:"actor_id"`
	Action     string    `gorm:"column:action;not null" json:"action"`
	EntityType string    `gorm:"column:entity_type;not null" json:"entity_type"`
	EntityID   int64     `gorm:"column:entity_id" json:"entity_id"`
	ProjectID  int64     `gorm:"column:project_id" json:"project_id"`
	Allowed    bool      `gorm:"column:allowed;not null" json:"allowed"`
	Reason     string    `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
