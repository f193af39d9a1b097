package main

import (
	"context"
	"fmt"
	"log"
	"time"
	"todo-api/api/server"
	"todo-api/config"
	"todo-api/logger"
	"todo-api/todos/service"
	"todo-api/todos/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lg := logger.New(cfg.LogLevel, nil).With(map[string]any{"service": "todo-api"})

	lg.Info("Starting todo api", map[string]any{
		"version":       cfg.Version,
		"port":          cfg.ServerPort,
		"log_level":     cfg.LogLevel,
		"store_backend": cfg.StoreBackend,
	})

	todoStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store unavailable: %v", err)
	}
	defer func() {
		if err := todoStore.Close(); err != nil {
			lg.Error("Failed to close store", map[string]any{"error": err.Error()})
		}
	}()

	svc := service.NewService(todoStore, lg)

	srv := server.New(svc, cfg, lg)
	if err := srv.Start(); err != nil {
		lg.Error("Server stopped with error", map[string]any{"error": err.Error()})
	}
}

// openStore builds the record store selected by STORE_BACKEND
func openStore(cfg *config.Config) (store.TodoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemoryTodoStore(), nil
	case config.BackendPostgres, config.BackendSQLite:
		dialect := store.DialectPostgres
		if cfg.StoreBackend == config.BackendSQLite {
			dialect = store.DialectSQLite
		}
		sqlStore, err := store.OpenSQLTodoStore(ctx, dialect, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return sqlStore, nil
	case config.BackendRedis:
		redisStore, err := store.NewRedisTodoStore(cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
