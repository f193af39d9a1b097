package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"todo-api/api"
	"todo-api/api/middleware"
	"todo-api/config"
	"todo-api/logger"
	"todo-api/todos/service"
)

// Server wraps http.Server with graceful shutdown capabilities
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *logger.Logger
}

// dependencies contains all the dependencies needed to create a server
type dependencies struct {
	service service.Service
	config  *config.Config
	logger  *logger.Logger
}

// New creates a new server with all HTTP configuration
func New(svc service.Service, cfg *config.Config, lg *logger.Logger) *Server {
	deps := &dependencies{
		service: svc,
		config:  cfg,
		logger:  lg,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      newRouter(deps),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		config: cfg,
		logger: lg,
	}
}

// newRouter registers every route on a method-aware mux and wraps it in middleware
func newRouter(deps *dependencies) http.Handler {
	mux := http.NewServeMux()
	svc, lg := deps.service, deps.logger

	mux.HandleFunc("GET /{$}", api.NewIndexHandler(deps.config, lg))
	mux.HandleFunc("GET /health", api.NewHealthHandler(deps.config, svc, lg))

	mux.HandleFunc("GET /to-dos", api.NewListTodosHandler(svc, lg))
	mux.HandleFunc("POST /to-dos", api.NewCreateTodoHandler(svc, lg))
	mux.HandleFunc("GET /to-dos/{id}", api.NewGetTodoHandler(svc, lg))
	mux.HandleFunc("PATCH /to-dos/{id}", api.NewUpdateTodoHandler(svc, lg))
	mux.HandleFunc("DELETE /to-dos/{id}", api.NewDeleteTodoHandler(svc, lg))
	mux.HandleFunc("DELETE /completed-to-dos", api.NewDeleteCompletedTodosHandler(svc, lg))

	return applyMiddleware(mux, deps)
}

// applyMiddleware wraps the handler with all necessary middleware
func applyMiddleware(handler http.Handler, deps *dependencies) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	wrapped := handler
	wrapped = middleware.CORSMiddleware(deps.config.CORSAllowedOrigins)(wrapped)
	wrapped = middleware.LoggingMiddleware(deps.logger)(wrapped)
	wrapped = middleware.RequestIDMiddleware()(wrapped)

	return wrapped
}

// Start starts the server and blocks until shutdown or a listen failure
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", map[string]any{
			"address": s.config.Address(),
		})

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", map[string]any{
				"error": err.Error(),
			})
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}

	s.logger.Info("Shutting down server")
	return s.shutdown()
}

// shutdown gracefully shuts down the server
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})

		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
