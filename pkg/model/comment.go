package model

import "time"

// Comment is an append-only note on an issue. No edit or delete.
type Comment struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	IssueID   int64     `gorm:"column:issue_id;not null" json:"issue_id"`
	AuthorID  int64     `gorm:"column:author_id;not null" json:"author_id"`
	Body      string    `gorm:"column:body;not null" json:"body"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
