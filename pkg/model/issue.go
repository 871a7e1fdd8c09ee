package model

import "time"

//go:generate go run github.com/dmarkham/enumer -type IssueStatus -trimprefix IssueStatus -transform snake -json -sql -output issue_status.gen.go
//go:generate go run github.com/dmarkham/enumer -type IssuePriority -trimprefix IssuePriority -transform snake -json -sql -output issue_priority.gen.go

// IssueStatus is the triage state of an issue. Declaration order matches the
// PostgreSQL enum type issue_status so ordinal comparisons agree with SQL
// ORDER BY on the column.
type IssueStatus int

const (
	IssueStatusOpen IssueStatus = iota
	IssueStatusInProgress
	IssueStatusResolved
	IssueStatusClosed
)

// IssuePriority is the urgency of an issue. Declaration order matches the
// PostgreSQL enum type issue_priority, lowest first.
type IssuePriority int

const (
	IssuePriorityLow IssuePriority = iota
	IssuePriorityMedium
	IssuePriorityHigh
	IssuePriorityCritical
)

// Issue represents a tracked issue within a project. ReporterID is immutable
// after creation. AssigneeID must reference a current member of the issue's
// project at the time of assignment; removing the member later does not
// unassign.
type Issue struct {
	ID          int64         `gorm:"column:id;primaryKey" json:"id"`
	ProjectID   int64         `gorm:"column:project_id;not null" json:"project_id"`
	Title       string        `gorm:"column:title;not null" json:"title"`
	Description string        `gorm:"column:description" json:"description,omitempty"`
	Status      IssueStatus   `gorm:"column:status;not null" json:"status"`
	Priority    IssuePriority `gorm:"column:priority;not null" json:"priority"`
	ReporterID  int64         `gorm:"column:reporter_id;not null" json:"reporter_id"`
	AssigneeID  *int64        `gorm:"column:assignee_id" json:"assignee_id"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Issue) TableName() string {
	return "issues"
}
