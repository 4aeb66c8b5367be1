package store

import (
	"context"
	"errors"

	"taskboard/internal/models"
)

// ErrInvalid wraps every validation failure. Nothing is written when it is returned.
var ErrInvalid = errors.New("invalid task")

// Store defines the task operations the dashboard and CLI depend on.
//
// Tasks are identified by description. When several tasks share a description,
// Edit, Remove and Complete act on the first one in file order.
type Store interface {
	// Read operations
	Load(ctx context.Context) ([]models.Task, error)
	List(ctx context.Context) (*models.Listing, error)
	Due(ctx context.Context) ([]models.Task, error)

	// Mutations. The bool results report whether a matching task was found.
	Add(ctx context.Context, description string) error
	AddRecurring(ctx context.Context, description string, freq models.Frequency) error
	Edit(ctx context.Context, oldDescription, newDescription string) (bool, error)
	Remove(ctx context.Context, description string) (bool, error)
	Complete(ctx context.Context, description string) (bool, error)

	// Lifecycle
	Close() error
}

// Backend persists an ordered task list. Replace must be all-or-nothing: a concurrent
// Read sees either the previous list or the new one.
type Backend interface {
	// Path identifies the backing resource. Mutations on the same path are serialized.
	Path() string
	// LockFile is the cross-process lock file, or "" when the backend locks on its own.
	LockFile() string
	Read(ctx context.Context) ([]models.Task, error)
	Replace(ctx context.Context, tasks []models.Task) error
	Close() error
}
