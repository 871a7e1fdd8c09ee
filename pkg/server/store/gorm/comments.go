package gorm

import (
	"gorm.io/gorm"

	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// Ensure CommentsStore implements store.CommentsStore
var _ store.CommentsStore = (*CommentsStore)(nil)

// CommentsStore implements store.CommentsStore using GORM
type CommentsStore struct {
	db *gorm.DB
}

// NewCommentsStore creates a new CommentsStore
func NewCommentsStore(db *gorm.DB) *CommentsStore {
	return &CommentsStore{db: db}
}

func (s *CommentsStore) CreateComment(comment *model.Comment) error {
	return s.db.Create(comment).Error
}

func (s *CommentsStore) ListComments(issueID int64) ([]model.Comment, error) {
	comments := []model.Comment{}
	tx := s.db.
		Where("issue_id = ?", issueID).
		Order("id ASC").
		Find(&comments)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return comments, nil
}
