package store

import (
	"context"
	"errors"
	"todo-api/todos"
)

var (
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("not found")

	// ErrNoCompleted is returned by DeleteCompleted when no record matched,
	// regardless of whether the store itself is empty.
	ErrNoCompleted = errors.New("no complete to dos")
)

// TodoStore defines the contract for to-do persistence.
// Records are kept most-recent-first and ids are never reused.
type TodoStore interface {
	Insert(ctx context.Context, text string) (*todos.Todo, error)
	List(ctx context.Context) ([]todos.Todo, error)
	Get(ctx context.Context, id int64) (*todos.Todo, error)
	Delete(ctx context.Context, id int64) (*todos.Todo, error)
	DeleteCompleted(ctx context.Context) ([]todos.Todo, error)
	Update(ctx context.Context, id int64, patch todos.Patch) (*todos.Todo, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
