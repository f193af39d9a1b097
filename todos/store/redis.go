package store

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"todo-api/todos"

	"github.com/redis/go-redis/v9"
)

// RedisTodoStore keeps each record in a hash and the store order in a list.
//
//	<prefix>:seq        INCR counter issuing ids
//	<prefix>:ids        list of ids, newest first
//	<prefix>:item:<id>  hash with "text" and "complete"
type RedisTodoStore struct {
	client *redis.Client
	prefix string
}

var _ TodoStore = (*RedisTodoStore)(nil)

func NewRedisTodoStore(url, prefix string) (*RedisTodoStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTodoStore{
		client: client,
		prefix: prefix,
	}, nil
}

func (s *RedisTodoStore) seqKey() string { return s.prefix + ":seq" }
func (s *RedisTodoStore) idsKey() string { return s.prefix + ":ids" }

func (s *RedisTodoStore) itemKey(id int64) string {
	return fmt.Sprintf("%s:item:%d", s.prefix, id)
}

func (s *RedisTodoStore) Insert(ctx context.Context, text string) (*todos.Todo, error) {
	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate todo id: %w", err)
	}

	todo := &todos.Todo{ID: id, Text: text}

	// Hash first, then left push so the list stays newest first
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.itemKey(id), encodeTodo(todo))
	pipe.LPush(ctx, s.idsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert todo %d: %w", id, err)
	}

	return todo, nil
}

func (s *RedisTodoStore) List(ctx context.Context) ([]todos.Todo, error) {
	ids, err := s.client.LRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list todo ids: %w", err)
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, raw := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.prefix+":item:"+raw)
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to load todos: %w", err)
		}
	}

	out := make([]todos.Todo, 0, len(ids))
	for i, raw := range ids {
		fields := cmds[i].Val()
		if len(fields) == 0 {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt todo id %q: %w", raw, err)
		}
		todo, err := decodeTodo(id, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, *todo)
	}
	return out, nil
}

func (s *RedisTodoStore) Get(ctx context.Context, id int64) (*todos.Todo, error) {
	fields, err := s.client.HGetAll(ctx, s.itemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get todo %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return decodeTodo(id, fields)
}

// Delete reads the record before removing it so the removed value can be returned.
func (s *RedisTodoStore) Delete(ctx context.Context, id int64) (*todos.Todo, error) {
	todo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, s.idsKey(), 0, id)
	pipe.Del(ctx, s.itemKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete todo %d: %w", id, err)
	}
	return todo, nil
}

func (s *RedisTodoStore) DeleteCompleted(ctx context.Context) ([]todos.Todo, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var removed []todos.Todo
	for _, t := range all {
		if t.Complete {
			removed = append(removed, t)
		}
	}
	if len(removed) == 0 {
		return nil, ErrNoCompleted
	}

	pipe := s.client.TxPipeline()
	for _, t := range removed {
		pipe.LRem(ctx, s.idsKey(), 0, t.ID)
		pipe.Del(ctx, s.itemKey(t.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete completed todos: %w", err)
	}
	return removed, nil
}

// Update writes only the supplied hash fields.
func (s *RedisTodoStore) Update(ctx context.Context, id int64, patch todos.Patch) (*todos.Todo, error) {
	todo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return todo, nil
	}

	patch.Apply(todo)

	values := make(map[string]any, 2)
	if patch.Text != nil {
		values["text"] = todo.Text
	}
	if patch.Complete != nil {
		values["complete"] = strconv.FormatBool(todo.Complete)
	}
	if err := s.client.HSet(ctx, s.itemKey(id), values).Err(); err != nil {
		return nil, fmt.Errorf("failed to update todo %d: %w", id, err)
	}
	return todo, nil
}

func (s *RedisTodoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisTodoStore) Close() error {
	return s.client.Close()
}

func encodeTodo(t *todos.Todo) map[string]any {
	return map[string]any{
		"text":     t.Text,
		"complete": strconv.FormatBool(t.Complete),
	}
}

func decodeTodo(id int64, fields map[string]string) (*todos.Todo, error) {
	complete, err := strconv.ParseBool(fields["complete"])
	if err != nil {
		return nil, fmt.Errorf("corrupt complete flag on todo %d: %w", id, err)
	}
	return &todos.Todo{
		ID:       id,
		Text:     fields["text"],
		Complete: complete,
	}, nil
}
