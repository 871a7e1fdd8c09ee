package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// Ensure ProjectsStore implements store.ProjectsStore
var _ store.ProjectsStore = (*ProjectsStore)(nil)

// ProjectsStore implements store.ProjectsStore using GORM
type ProjectsStore struct {
	db *gorm.DB
}

// NewProjectsStore creates a new ProjectsStore
func NewProjectsStore(db *gorm.DB) *ProjectsStore {
	return &ProjectsStore{db: db}
}

func (s *ProjectsStore) CreateProject(project *model.Project) error {
	return s.db.Create(project).Error
}

func (s *ProjectsStore) GetProject(id int64) (*model.Project, error) {
	var project model.Project
	tx := s.db.Where("id = ?", id).First(&project)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrProjectNotFound
		}
		return nil, tx.Error
	}
	return &project, nil
}

func (s *ProjectsStore) GetProjectByKey(key string) (*model.Project, error) {
	var project model.Project
	tx := s.db.Where("key = ?", key).First(&project)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrProjectNotFound
		}
		return nil, tx.Error
	}
	return &project, nil
}

func (s *ProjectsStore) ListProjectsForUser(userID int64) ([]model.Project, error) {
	var projects []model.Project
	tx := s.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.id ASC").
		Find(&projects)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return projects, nil
}
