package gorm

import (
	"gorm.io/gorm"

	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// Ensure AuditEntriesStore implements store.AuditStore
var _ store.AuditStore = (*AuditEntriesStore)(nil)

// AuditEntriesStore implements store.AuditStore using GORM
type AuditEntriesStore struct {
	db *gorm.DB
}

// NewAuditEntriesStore creates a new AuditEntriesStore
func NewAuditEntriesStore(db *gorm.DB) *AuditEntriesStore {
	return &AuditEntriesStore{db: db}
}

func (s *AuditEntriesStore) MaxSequence() (uint64, error) {
	var max uint64
	tx := s.db.Model(&model.AuditEntry{}).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&max)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return max, nil
}

func (s *AuditEntriesStore) SaveEntry(entry *model.AuditEntry) error {
	return s.db.Create(entry).Error
}

func (s *AuditEntriesStore) ListEntries(projectID int64, after uint64, limit int) ([]model.AuditEntry, error) {
	entries := []model.AuditEntry{}
	tx := s.db.
		Where("project_id = ? AND sequence > ?", projectID, after).
		Order("sequence ASC").
		Limit(limit).
		Find(&entries)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return entries, nil
}
