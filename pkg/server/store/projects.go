package store

import (
	"errors"

	"github.com/issuehub/issuehub/pkg/model"
)

// ErrProjectNotFound is returned when a project doesn't exist
var ErrProjectNotFound = errors.New("project not found")

// ProjectsStore abstracts project storage
type ProjectsStore interface {
	// CreateProject inserts a new project and fills in its generated ID.
	CreateProject(project *model.Project) error

	// GetProject retrieves a project by ID.
	// Returns ErrProjectNotFound if the project doesn't exist.
	GetProject(id int64) (*model.Project, error)

	// GetProjectByKey retrieves a project by its unique key.
	// Returns ErrProjectNotFound if the project doesn't exist.
	GetProjectByKey(key string) (*model.Project, error)

	// ListProjectsForUser returns the projects the user is a member of,
	// ordered by id.
	ListProjectsForUser(userID int64) ([]model.Project, error)
}
