package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// Ensure MembershipsStore implements store.MembershipsStore
var _ store.MembershipsStore = (*MembershipsStore)(nil)

// MembershipsStore implements store.MembershipsStore using GORM
type MembershipsStore struct {
	db *gorm.DB
}

// NewMembershipsStore creates a new MembershipsStore
func NewMembershipsStore(db *gorm.DB) *MembershipsStore {
	return &MembershipsStore{db: db}
}

func (s *MembershipsStore) GetMembership(projectID, userID int64) (*model.ProjectMember, error) {
	var member model.ProjectMember
	tx := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &member, nil
}

func (s *MembershipsStore) ListMembers(projectID int64) ([]store.Member, error) {
	var members []store.Member
	tx := s.db.
		Table("project_members").
		Select("project_members.user_id, users.name, users.email, project_members.role").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Order("project_members.user_id ASC").
		Scan(&members)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return members, nil
}

func (s *MembershipsStore) AddMember(member *model.ProjectMember) error {
	return s.db.Create(member).Error
}

func (s *MembershipsStore) UpdateRole(projectID, userID int64, role model.Role) error {
	tx := s.db.Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrMembershipNotFound
	}
	return nil
}

func (s *MembershipsStore) RemoveMember(projectID, userID int64) error {
	tx := s.db.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrMembershipNotFound
	}
	return nil
}

func (s *MembershipsStore) CountMaintainers(projectID int64) (int64, error) {
	var count int64
	tx := s.db.Model(&model.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, model.RoleMaintainer).
		Count(&count)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return count, nil
}

func (s *MembershipsStore) ListProjectIDsForUser(userID int64) ([]int64, error) {
	var ids []int64
	tx := s.db.Model(&model.ProjectMember{}).
		Where("user_id = ?", userID).
		Order("project_id ASC").
		Pluck("project_id", &ids)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return ids, nil
}
