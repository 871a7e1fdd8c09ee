package store

import "github.com/issuehub/issuehub/pkg/model"

// CommentsStore abstracts comment storage. Comments are append-only; there is
// deliberately no update or delete.
type CommentsStore interface {
	// CreateComment inserts a new comment and fills in its generated ID.
	CreateComment(comment *model.Comment) error

	// ListComments returns an issue's comments in creation order.
	ListComments(issueID int64) ([]model.Comment, error)
}
