package store

import (
	"context"
	"sync"
	"todo-api/todos"
)

// Compile-time check to ensure MemoryTodoStore implements TodoStore interface
var _ TodoStore = (*MemoryTodoStore)(nil)

// MemoryTodoStore keeps records in process memory, newest first.
type MemoryTodoStore struct {
	mu     sync.RWMutex
	todos  []*todos.Todo
	nextID int64
}

// NewMemoryTodoStore creates an empty store whose first id will be 1.
func NewMemoryTodoStore() *MemoryTodoStore {
	return &MemoryTodoStore{
		todos:  make([]*todos.Todo, 0),
		nextID: 1,
	}
}

// Insert prepends a new incomplete record. It never fails.
func (s *MemoryTodoStore) Insert(_ context.Context, text string) (*todos.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo := &todos.Todo{ID: s.nextID, Text: text}
	s.nextID++

	s.todos = append([]*todos.Todo{todo}, s.todos...)

	copied := *todo
	return &copied, nil
}

// List returns copies of every record in store order.
func (s *MemoryTodoStore) List(_ context.Context) ([]todos.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]todos.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, *t)
	}
	return out, nil
}

// Get retrieves a record by its id.
// It returns a copy so callers cannot mutate stored state.
func (s *MemoryTodoStore) Get(_ context.Context, id int64) (*todos.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	copied := *s.todos[idx]
	return &copied, nil
}

// Delete removes the record with the given id and returns it.
func (s *MemoryTodoStore) Delete(_ context.Context, id int64) (*todos.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	removed := *s.todos[idx]
	s.todos = append(s.todos[:idx], s.todos[idx+1:]...)
	return &removed, nil
}

// DeleteCompleted removes every complete record and returns them in their
// original relative order.
func (s *MemoryTodoStore) DeleteCompleted(_ context.Context) ([]todos.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []todos.Todo
	kept := make([]*todos.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if t.Complete {
			removed = append(removed, *t)
			continue
		}
		kept = append(kept, t)
	}

	if len(removed) == 0 {
		return nil, ErrNoCompleted
	}

	s.todos = kept
	return removed, nil
}

// Update applies the supplied fields of patch to the stored record in place.
func (s *MemoryTodoStore) Update(_ context.Context, id int64, patch todos.Patch) (*todos.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	patch.Apply(s.todos[idx])

	copied := *s.todos[idx]
	return &copied, nil
}

func (s *MemoryTodoStore) Ping(_ context.Context) error {
	return nil
}

func (s *MemoryTodoStore) Close() error {
	return nil
}

// indexOf must be called with s.mu held.
func (s *MemoryTodoStore) indexOf(id int64) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
