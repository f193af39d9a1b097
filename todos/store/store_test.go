package store

import (
	"context"
	"testing"
	"todo-api/todos"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }

func ids(list []todos.Todo) []int64 {
	out := make([]int64, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

// runTodoStoreContract exercises behaviour every TodoStore must share.
// newStore must return an empty store whose first issued id is 1.
func runTodoStoreContract(t *testing.T, newStore func(t *testing.T) TodoStore) {
	t.Run("insert then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, "buy milk")
		require.NoError(t, err)
		assert.DeepEqual(t, todos.Todo{ID: 1, Text: "buy milk", Complete: false}, *created)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.DeepEqual(t, *created, *got)
	})

	t.Run("list is newest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		empty, err := s.List(ctx)
		require.NoError(t, err)
		require.NotNil(t, empty)
		assert.Equal(t, 0, len(empty))

		for _, text := range []string{"first", "second", "third"} {
			_, err := s.Insert(ctx, text)
			require.NoError(t, err)
		}

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.DeepEqual(t, []int64{3, 2, 1}, ids(all))
		assert.Equal(t, "third", all[0].Text)
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)

		got, err := s.Get(context.Background(), 99)
		require.ErrorIs(t, err, ErrNotFound)
		require.Nil(t, got)
	})

	t.Run("delete missing leaves store untouched", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Insert(ctx, "keep me")
		require.NoError(t, err)

		got, err := s.Delete(ctx, 42)
		require.ErrorIs(t, err, ErrNotFound)
		require.Nil(t, got)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, len(all))
	})

	t.Run("delete returns removed record and ids are not reused", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a, err := s.Insert(ctx, "a")
		require.NoError(t, err)
		b, err := s.Insert(ctx, "b")
		require.NoError(t, err)

		removed, err := s.Delete(ctx, b.ID)
		require.NoError(t, err)
		assert.DeepEqual(t, *b, *removed)

		_, err = s.Get(ctx, b.ID)
		require.ErrorIs(t, err, ErrNotFound)

		c, err := s.Insert(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, int64(3), c.ID)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.DeepEqual(t, []int64{c.ID, a.ID}, ids(all))
	})

	t.Run("update changes only supplied fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, "buy milk")
		require.NoError(t, err)

		updated, err := s.Update(ctx, created.ID, todos.Patch{Complete: boolPtr(true)})
		require.NoError(t, err)
		assert.DeepEqual(t, todos.Todo{ID: created.ID, Text: "buy milk", Complete: true}, *updated)

		updated, err = s.Update(ctx, created.ID, todos.Patch{Text: stringPtr("buy oat milk")})
		require.NoError(t, err)
		assert.DeepEqual(t, todos.Todo{ID: created.ID, Text: "buy oat milk", Complete: true}, *updated)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.DeepEqual(t, *updated, *got)
	})

	t.Run("update never changes id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, "x")
		require.NoError(t, err)

		otherID := int64(77)
		updated, err := s.Update(ctx, created.ID, todos.Patch{ID: &otherID, Text: stringPtr("y")})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)

		_, err = s.Get(ctx, otherID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty update returns current record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, "x")
		require.NoError(t, err)

		got, err := s.Update(ctx, created.ID, todos.Patch{})
		require.NoError(t, err)
		assert.DeepEqual(t, *created, *got)
	})

	t.Run("update missing", func(t *testing.T) {
		s := newStore(t)

		got, err := s.Update(context.Background(), 5, todos.Patch{Complete: boolPtr(true)})
		require.ErrorIs(t, err, ErrNotFound)
		require.Nil(t, got)
	})

	t.Run("delete completed removes exactly the complete subset", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		// ids 1..6, complete on 1, 2, 4 and 5 so adjacent matches are exercised
		for i := 1; i <= 6; i++ {
			created, err := s.Insert(ctx, "item")
			require.NoError(t, err)
			if i != 3 && i != 6 {
				_, err = s.Update(ctx, created.ID, todos.Patch{Complete: boolPtr(true)})
				require.NoError(t, err)
			}
		}

		removed, err := s.DeleteCompleted(ctx)
		require.NoError(t, err)
		assert.DeepEqual(t, []int64{5, 4, 2, 1}, ids(removed))
		for _, r := range removed {
			assert.Assert(t, r.Complete)
		}

		remaining, err := s.List(ctx)
		require.NoError(t, err)
		assert.DeepEqual(t, []int64{6, 3}, ids(remaining))
	})

	t.Run("delete completed with nothing complete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		removed, err := s.DeleteCompleted(ctx)
		require.ErrorIs(t, err, ErrNoCompleted)
		require.Nil(t, removed)

		_, err = s.Insert(ctx, "still open")
		require.NoError(t, err)

		removed, err = s.DeleteCompleted(ctx)
		require.ErrorIs(t, err, ErrNoCompleted)
		require.Nil(t, removed)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, len(all))
	})

	t.Run("returned records are copies", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, "original")
		require.NoError(t, err)
		created.Text = "mutated"
		created.Complete = true

		got, err := s.Get(ctx, 1)
		require.NoError(t, err)
		got.Text = "mutated again"

		again, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.DeepEqual(t, todos.Todo{ID: 1, Text: "original"}, *again)
	})

	t.Run("walkthrough", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		milk, err := s.Insert(ctx, "buy milk")
		require.NoError(t, err)
		assert.DeepEqual(t, todos.Todo{ID: 1, Text: "buy milk"}, *milk)

		dog, err := s.Insert(ctx, "walk dog")
		require.NoError(t, err)
		assert.DeepEqual(t, todos.Todo{ID: 2, Text: "walk dog"}, *dog)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.DeepEqual(t, []todos.Todo{*dog, *milk}, all)

		done, err := s.Update(ctx, 1, todos.Patch{Complete: boolPtr(true)})
		require.NoError(t, err)
		assert.DeepEqual(t, todos.Todo{ID: 1, Text: "buy milk", Complete: true}, *done)

		removed, err := s.DeleteCompleted(ctx)
		require.NoError(t, err)
		assert.DeepEqual(t, []todos.Todo{*done}, removed)

		_, err = s.DeleteCompleted(ctx)
		require.ErrorIs(t, err, ErrNoCompleted)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Ping(context.Background()))
	})
}
