package model

import (
	"regexp"
	"time"
)

// Project represents a container for issues
type Project struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Key         string    `gorm:"column:key;uniqueIndex;not null" json:"key"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Project) TableName() string {
	return "projects"
}

// Project keys are short uppercase identifiers, e.g. "INFRA" or "WEB2"
var projectKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,19}$`)

// ValidProjectKey reports whether key is an acceptable project key.
func ValidProjectKey(key string) bool {
	return projectKeyPattern.MatchString(key)
}
