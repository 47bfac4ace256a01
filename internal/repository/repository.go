package repository

import (
	"time"

	"github.com/mkrajewski/task-manager-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by (normalized) email
	FindByEmail(email string) (*models.User, error)

	// AddToken persists a newly issued session token for a user
	AddToken(token *models.AuthToken) error

	// RemoveToken deletes a single session token; other tokens stay valid
	RemoveToken(userID uint64, token string) error

	// HasToken reports whether the token is currently stored for the user
	HasToken(userID uint64, token string) (bool, error)
}

// TaskFilter holds owner-scoped filtering options for listing tasks.
// SortColumn must already be a whitelisted column name.
// Limit/Skip below zero mean "no limit"/"no skip".
type TaskFilter struct {
	OwnerID    uint64
	Completed  *bool
	Tag        string
	SortColumn string
	SortDesc   bool
	Limit      int
	Skip       int
}

// TaskRepository defines the interface for task data access. Every read and
// write except ListDueBetween is scoped to a single owner.
type TaskRepository interface {
	// Create creates a new task along with its subtasks, tags and collaborators
	Create(task *models.Task) error

	// FindOwned finds a task by ID belonging to the owner, with relations
	FindOwned(ownerID, taskID uint64) (*models.Task, error)

	// List retrieves the owner's tasks matching the filter
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves task fields; when replaceTags is set the stored tag rows
	// are replaced with task.Tags in the same transaction
	Update(task *models.Task, replaceTags bool) error

	// DeleteOwned atomically finds and deletes an owned task, returning it
	DeleteOwned(ownerID, taskID uint64) (*models.Task, error)

	// ListDueBetween returns tasks of all owners with a deadline in [from, to),
	// owners preloaded. Used by the reminder runner.
	ListDueBetween(from, to time.Time) ([]models.Task, error)
}
