package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"
	"todo-api/errors"
	"todo-api/logger"
	"todo-api/todos"
	"todo-api/todos/store"
)

// Service defines the to-do operations exposed over HTTP.
// Every error it returns is an *errors.APIError.
type Service interface {
	CreateTodo(ctx context.Context, text string) (*todos.Todo, error)
	ListTodos(ctx context.Context) ([]todos.Todo, error)
	GetTodo(ctx context.Context, id int64) (*todos.Todo, error)
	UpdateTodo(ctx context.Context, id int64, patch todos.Patch) (*todos.Todo, error)
	DeleteTodo(ctx context.Context, id int64) (*todos.Todo, error)
	DeleteCompletedTodos(ctx context.Context) ([]todos.Todo, error)

	// Healthy reports whether the backing store answers.
	Healthy(ctx context.Context) error
}

type service struct {
	store  store.TodoStore
	logger *logger.Logger
}

var _ Service = (*service)(nil)

// NewService wraps a store with logging and API error mapping.
func NewService(s store.TodoStore, lg *logger.Logger) Service {
	scoped := lg.With(map[string]any{
		"component":  "todo_service",
		"store_type": fmt.Sprintf("%T", s),
	})

	return &service{
		store:  s,
		logger: scoped,
	}
}

func (s *service) CreateTodo(ctx context.Context, text string) (*todos.Todo, error) {
	todo, err := s.store.Insert(ctx, text)
	if err != nil {
		return nil, s.storeFailure("insert", err, nil)
	}

	s.logger.Todo(todo.ID, "todo created", map[string]any{
		"text_length": len(todo.Text),
	})
	return todo, nil
}

func (s *service) ListTodos(ctx context.Context) ([]todos.Todo, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeFailure("list", err, nil)
	}
	return all, nil
}

func (s *service) GetTodo(ctx context.Context, id int64) (*todos.Todo, error) {
	todo, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.mapError("get", id, err)
	}
	return todo, nil
}

func (s *service) UpdateTodo(ctx context.Context, id int64, patch todos.Patch) (*todos.Todo, error) {
	todo, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, s.mapError("update", id, err)
	}

	s.logger.Todo(todo.ID, "todo updated", map[string]any{
		"text_supplied":     patch.Text != nil,
		"complete_supplied": patch.Complete != nil,
		"complete":          todo.Complete,
	})
	return todo, nil
}

func (s *service) DeleteTodo(ctx context.Context, id int64) (*todos.Todo, error) {
	todo, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, s.mapError("delete", id, err)
	}

	s.logger.Todo(todo.ID, "todo deleted")
	return todo, nil
}

func (s *service) DeleteCompletedTodos(ctx context.Context) ([]todos.Todo, error) {
	removed, err := s.store.DeleteCompleted(ctx)
	if stderrors.Is(err, store.ErrNoCompleted) {
		return nil, errors.NewNoCompletedError(store.ErrNoCompleted.Error())
	}
	if err != nil {
		return nil, s.storeFailure("delete completed", err, nil)
	}

	removedIDs := make([]int64, 0, len(removed))
	for _, t := range removed {
		removedIDs = append(removedIDs, t.ID)
	}
	s.logger.Info("completed todos deleted", map[string]any{
		"count": len(removed),
		"ids":   removedIDs,
	})
	return removed, nil
}

func (s *service) Healthy(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("store ping failed", map[string]any{
			"error": err.Error(),
		})
		return errors.NewUnavailableError("store unavailable")
	}
	return nil
}

// mapError turns ErrNotFound into a 404 and anything else into a 500.
func (s *service) mapError(op string, id int64, err error) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.NewNotFoundError(store.ErrNotFound.Error())
	}
	return s.storeFailure(op, err, map[string]any{"todo_id": id})
}

// storeFailure logs the backend error and hides it from the client.
func (s *service) storeFailure(op string, err error, fields map[string]any) error {
	logFields := map[string]any{
		"operation": op,
		"error":     err.Error(),
	}
	maps.Copy(logFields, fields)
	s.logger.Error("store operation failed", logFields)

	return errors.NewInternalError(fmt.Sprintf("store %s failed", op))
}
