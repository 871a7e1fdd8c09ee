package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

func (s *UsersStore) CreateUser(user *model.User) error {
	return s.db.Create(user).Error
}

func (s *UsersStore) GetUserByID(id int64) (*model.User, error) {
	var user model.User
	tx := s.db.Where("id = ?", id).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

func (s *UsersStore) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("email = ?", email).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

func (s *UsersStore) SearchUsers(query string, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + escapeLike(query) + "%"
	tx := s.db.
		Where("name ILIKE ? OR email ILIKE ?", pattern, pattern).
		Order("name ASC, id ASC").
		Limit(limit).
		Find(&users)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return users, nil
}
