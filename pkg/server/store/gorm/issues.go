package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/queryplan"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// Ensure IssuesStore implements store.IssuesStore
var _ store.IssuesStore = (*IssuesStore)(nil)

// IssuesStore implements store.IssuesStore using GORM
type IssuesStore struct {
	db *gorm.DB
}

// NewIssuesStore creates a new IssuesStore
func NewIssuesStore(db *gorm.DB) *IssuesStore {
	return &IssuesStore{db: db}
}

func (s *IssuesStore) CreateIssue(issue *model.Issue) error {
	return s.db.Create(issue).Error
}

func (s *IssuesStore) GetIssue(projectID, issueID int64) (*model.Issue, error) {
	var issue model.Issue
	tx := s.db.Where("project_id = ? AND id = ?", projectID, issueID).First(&issue)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrIssueNotFound
		}
		return nil, tx.Error
	}
	return &issue, nil
}

func (s *IssuesStore) GetIssueByID(issueID int64) (*model.Issue, error) {
	var issue model.Issue
	tx := s.db.Where("id = ?", issueID).First(&issue)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrIssueNotFound
		}
		return nil, tx.Error
	}
	return &issue, nil
}

// ListIssues translates a query plan to SQL. Filters are applied in the
// plan's fixed order, the count is taken before pagination, and the ORDER BY
// carries the plan's id tie-break.
func (s *IssuesStore) ListIssues(projectIDs []int64, plan queryplan.Plan) ([]model.Issue, int64, error) {
	if len(projectIDs) == 0 {
		return []model.Issue{}, 0, nil
	}

	query := s.db.Model(&model.Issue{}).Where("project_id IN ?", projectIDs)
	if plan.TitleQuery != "" {
		query = query.Where("title ILIKE ?", "%"+escapeLike(plan.TitleQuery)+"%")
	}
	if plan.Status != nil {
		query = query.Where("status = ?", *plan.Status)
	}
	if plan.Priority != nil {
		query = query.Where("priority = ?", *plan.Priority)
	}
	if plan.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *plan.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	issues := []model.Issue{}
	tx := query.
		Order(plan.OrderClause()).
		Limit(plan.Limit).
		Offset(plan.Offset).
		Find(&issues)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return issues, total, nil
}

func (s *IssuesStore) UpdateIssue(issue *model.Issue) error {
	return s.db.Save(issue).Error
}

func (s *IssuesStore) DeleteIssue(projectID, issueID int64) error {
	tx := s.db.
		Where("project_id = ? AND id = ?", projectID, issueID).
		Delete(&model.Issue{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrIssueNotFound
	}
	return nil
}
