package store

import (
	"errors"

	"github.com/issuehub/issuehub/pkg/model"
)

// ErrUserNotFound is returned when a user doesn't exist
var ErrUserNotFound = errors.New("user not found")

// UsersStore abstracts user account storage
type UsersStore interface {
	// CreateUser inserts a new user and fills in its generated ID.
	CreateUser(user *model.User) error

	// GetUserByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByID(id int64) (*model.User, error)

	// GetUserByEmail retrieves a user by email.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByEmail(email string) (*model.User, error)

	// SearchUsers returns up to limit users whose name or email contains
	// query, case-insensitively, ordered by name then id.
	SearchUsers(query string, limit int) ([]model.User, error)
}
