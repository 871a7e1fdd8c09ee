package model

//go:generate go run github.com/dmarkham/enumer -type Role -trimprefix Role -transform snake -json -sql -output role.gen.go

// Role is a membership role within a project. It is a closed two-variant
// type: every membership row holds exactly one of these values, and only the
// authorization gate consumes it to make decisions.
type Role int

const (
	RoleMember Role = iota
	RoleMaintainer
)

// ProjectMember grants a user a role in a project. Unique per (project, user).
type ProjectMember struct {
	ProjectID int64 `gorm:"column:project_id;primaryKey" json:"project_id"`
	UserID    int64 `gorm:"column:user_id;primaryKey" json:"user_id"`
	Role      Role  `gorm:"column:role;not null" json:"role"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
