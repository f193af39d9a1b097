package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"todo-api/todos"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect selects the SQL driver and DDL flavour.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const (
	todosTable  = "todos"
	todoColumns = "id, text, complete"
)

// Compile-time check to ensure SQLTodoStore implements TodoStore interface
var _ TodoStore = (*SQLTodoStore)(nil)

// SQLTodoStore persists records in a single relational table.
// Every operation is one statement; there are no multi-statement transactions.
type SQLTodoStore struct {
	db      *sql.DB
	dialect Dialect
}

// driverName maps a dialect to its registered database/sql driver.
func (d Dialect) driverName() (string, error) {
	switch d {
	case DialectPostgres:
		return "pgx", nil
	case DialectSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported SQL dialect %q", d)
	}
}

func (d Dialect) createTableSQL() string {
	idColumn := "id BIGSERIAL PRIMARY KEY"
	if d == DialectSQLite {
		// AUTOINCREMENT keeps SQLite from handing out a deleted row's id again.
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return `CREATE TABLE IF NOT EXISTS ` + todosTable + ` (
    ` + idColumn + `,
    text     TEXT    NOT NULL,
    complete BOOLEAN NOT NULL DEFAULT FALSE
)`
}

// OpenSQLTodoStore connects to the database, verifies the connection and
// creates the todos table if it does not exist yet.
func OpenSQLTodoStore(ctx context.Context, dialect Dialect, dsn string) (*SQLTodoStore, error) {
	driver, err := dialect.driverName()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database URL cannot be empty for %s store", dialect)
	}

	if dialect == DialectSQLite {
		dsn, err = prepareSQLitePath(dsn)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}

	s := &SQLTodoStore{db: db, dialect: dialect}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// prepareSQLitePath creates the parent directory of a file database and adds
// a busy timeout when the DSN carries no options of its own.
func prepareSQLitePath(dsn string) (string, error) {
	if strings.Contains(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return dsn, nil
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create db directory: %w", err)
		}
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}
	return dsn, nil
}

// EnsureSchema creates the todos table if it doesn't exist.
func (s *SQLTodoStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTableSQL()); err != nil {
		return fmt.Errorf("ensure todos schema: %w", err)
	}
	return nil
}

func (s *SQLTodoStore) Insert(ctx context.Context, text string) (*todos.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO `+todosTable+` (text, complete) VALUES ($1, $2) RETURNING `+todoColumns,
		text, false)

	todo, err := scanTodo(row)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return todo, nil
}

func (s *SQLTodoStore) List(ctx context.Context) ([]todos.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM `+todosTable+` ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	out, err := collectTodos(rows)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return out, nil
}

func (s *SQLTodoStore) Get(ctx context.Context, id int64) (*todos.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM `+todosTable+` WHERE id = $1`, id)

	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}
	return todo, nil
}

// Delete removes the row and returns its last values in the same statement.
func (s *SQLTodoStore) Delete(ctx context.Context, id int64) (*todos.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM `+todosTable+` WHERE id = $1 RETURNING `+todoColumns, id)

	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete todo %d: %w", id, err)
	}
	return todo, nil
}

func (s *SQLTodoStore) DeleteCompleted(ctx context.Context) ([]todos.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`DELETE FROM `+todosTable+` WHERE complete = $1 RETURNING `+todoColumns, true)
	if err != nil {
		return nil, fmt.Errorf("delete completed todos: %w", err)
	}

	removed, err := collectTodos(rows)
	if err != nil {
		return nil, fmt.Errorf("delete completed todos: %w", err)
	}
	if len(removed) == 0 {
		return nil, ErrNoCompleted
	}

	// RETURNING order is unspecified; restore store order.
	slices.SortFunc(removed, func(a, b todos.Todo) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
	return removed, nil
}

// Update issues a single UPDATE whose SET clause holds only the supplied
// fields. An empty patch is a plain lookup.
func (s *SQLTodoStore) Update(ctx context.Context, id int64, patch todos.Patch) (*todos.Todo, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	query, args := buildUpdate(id, patch)
	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}
	return todo, nil
}

func buildUpdate(id int64, patch todos.Patch) (string, []any) {
	var (
		sets []string
		args []any
	)
	if patch.Text != nil {
		args = append(args, *patch.Text)
		sets = append(sets, fmt.Sprintf("text = $%d", len(args)))
	}
	if patch.Complete != nil {
		args = append(args, *patch.Complete)
		sets = append(sets, fmt.Sprintf("complete = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		todosTable, strings.Join(sets, ", "), len(args), todoColumns)
	return query, args
}

func (s *SQLTodoStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLTodoStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*todos.Todo, error) {
	var t todos.Todo
	if err := row.Scan(&t.ID, &t.Text, &t.Complete); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTodos(rows *sql.Rows) ([]todos.Todo, error) {
	defer rows.Close()

	out := make([]todos.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
