package service_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	apierrors "todo-api/errors"
	"todo-api/logger"
	"todo-api/todos"
	"todo-api/todos/service"
	"todo-api/todos/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore simulates backend failures for testing error conditions
type fakeStore struct {
	store.TodoStore
	shouldFail bool
}

var errBackend = errors.New("connection reset by peer")

func (s *fakeStore) Insert(ctx context.Context, text string) (*todos.Todo, error) {
	if s.shouldFail {
		return nil, errBackend
	}
	return s.TodoStore.Insert(ctx, text)
}

func (s *fakeStore) List(ctx context.Context) ([]todos.Todo, error) {
	if s.shouldFail {
		return nil, errBackend
	}
	return s.TodoStore.List(ctx)
}

func (s *fakeStore) Get(ctx context.Context, id int64) (*todos.Todo, error) {
	if s.shouldFail {
		return nil, errBackend
	}
	return s.TodoStore.Get(ctx, id)
}

func (s *fakeStore) Update(ctx context.Context, id int64, patch todos.Patch) (*todos.Todo, error) {
	if s.shouldFail {
		return nil, errBackend
	}
	return s.TodoStore.Update(ctx, id, patch)
}

func (s *fakeStore) Delete(ctx context.Context, id int64) (*todos.Todo, error) {
	if s.shouldFail {
		return nil, errBackend
	}
	return s.TodoStore.Delete(ctx, id)
}

func (s *fakeStore) DeleteCompleted(ctx context.Context) ([]todos.Todo, error) {
	if s.shouldFail {
		return nil, errBackend
	}
	return s.TodoStore.DeleteCompleted(ctx)
}

func (s *fakeStore) Ping(ctx context.Context) error {
	if s.shouldFail {
		return errBackend
	}
	return nil
}

func newTestService(t *testing.T, failing bool) (service.Service, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	lg := logger.New("DEBUG", &buf)
	fs := &fakeStore{TodoStore: store.NewMemoryTodoStore(), shouldFail: failing}
	return service.NewService(fs, lg), &buf
}

func requireAPIError(t *testing.T, err error, code int) *apierrors.APIError {
	t.Helper()
	apiErr, ok := apierrors.IsAPIError(err)
	require.True(t, ok, "expected APIError, got %T: %v", err, err)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestService_CreateAndGet(t *testing.T) {
	t.Parallel()
	svc, logs := newTestService(t, false)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, todos.Todo{ID: 1, Text: "buy milk"}, *created)

	got, err := svc.GetTodo(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	assert.Contains(t, logs.String(), "todo created")
}

func TestService_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, false)
	ctx := context.Background()
	complete := true

	testCases := []struct {
		name string
		call func() error
	}{
		{"get", func() error { _, err := svc.GetTodo(ctx, 9); return err }},
		{"update", func() error { _, err := svc.UpdateTodo(ctx, 9, todos.Patch{Complete: &complete}); return err }},
		{"delete", func() error { _, err := svc.DeleteTodo(ctx, 9); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := requireAPIError(t, tc.call(), http.StatusNotFound)
			assert.Equal(t, apierrors.NotFoundError, apiErr.Type)
			assert.Equal(t, "not found", apiErr.Message)
		})
	}
}

func TestService_DeleteCompletedTodos(t *testing.T) {
	t.Parallel()
	svc, logs := newTestService(t, false)
	ctx := context.Background()

	_, err := svc.DeleteCompletedTodos(ctx)
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, apierrors.NoCompletedError, apiErr.Type)
	assert.Equal(t, "no complete to dos", apiErr.Message)

	first, err := svc.CreateTodo(ctx, "buy milk")
	require.NoError(t, err)
	_, err = svc.CreateTodo(ctx, "walk dog")
	require.NoError(t, err)

	complete := true
	_, err = svc.UpdateTodo(ctx, first.ID, todos.Patch{Complete: &complete})
	require.NoError(t, err)

	removed, err := svc.DeleteCompletedTodos(ctx)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, first.ID, removed[0].ID)
	assert.Contains(t, logs.String(), "completed todos deleted")
}

func TestService_StoreFailuresBecomeInternalErrors(t *testing.T) {
	t.Parallel()
	svc, logs := newTestService(t, true)
	ctx := context.Background()

	testCases := []struct {
		name string
		call func() error
	}{
		{"create", func() error { _, err := svc.CreateTodo(ctx, "x"); return err }},
		{"list", func() error { _, err := svc.ListTodos(ctx); return err }},
		{"get", func() error { _, err := svc.GetTodo(ctx, 1); return err }},
		{"update", func() error { _, err := svc.UpdateTodo(ctx, 1, todos.Patch{}); return err }},
		{"delete", func() error { _, err := svc.DeleteTodo(ctx, 1); return err }},
		{"delete completed", func() error { _, err := svc.DeleteCompletedTodos(ctx); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := requireAPIError(t, tc.call(), http.StatusInternalServerError)
			assert.Equal(t, apierrors.InternalError, apiErr.Type)
			// the driver error is logged, never returned to the client
			assert.False(t, strings.Contains(apiErr.Message, errBackend.Error()))
		})
	}

	assert.Contains(t, logs.String(), errBackend.Error())
}

func TestService_Healthy(t *testing.T) {
	t.Parallel()

	healthy, _ := newTestService(t, false)
	require.NoError(t, healthy.Healthy(context.Background()))

	broken, _ := newTestService(t, true)
	requireAPIError(t, broken.Healthy(context.Background()), http.StatusServiceUnavailable)
}
