package store

import (
	"errors"

	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/queryplan"
)

// ErrIssueNotFound is returned when an issue doesn't exist
var ErrIssueNotFound = errors.New("issue not found")

// IssuesStore abstracts issue storage
type IssuesStore interface {
	// CreateIssue inserts a new issue and fills in its generated ID.
	CreateIssue(issue *model.Issue) error

	// GetIssue retrieves an issue scoped to a project.
	// Returns ErrIssueNotFound if no such issue exists in that project.
	GetIssue(projectID, issueID int64) (*model.Issue, error)

	// GetIssueByID retrieves an issue by id alone, for routes that resolve
	// the project from the issue. Returns ErrIssueNotFound if absent.
	GetIssueByID(issueID int64) (*model.Issue, error)

	// ListIssues executes a query plan against the given visibility scope and
	// returns one page plus the filtered pre-pagination total. An empty scope
	// yields an empty page with total zero.
	ListIssues(projectIDs []int64, plan queryplan.Plan) ([]model.Issue, int64, error)

	// UpdateIssue persists changes to an existing issue.
	UpdateIssue(issue *model.Issue) error

	// DeleteIssue removes an issue and, via the schema, its comments.
	// Returns ErrIssueNotFound if no such issue exists in that project.
	DeleteIssue(projectID, issueID int64) error
}
