package api

import (
	"net/http"
	"strconv"
	"todo-api/errors"
	"todo-api/logger"
	"todo-api/todos"
	"todo-api/todos/service"
)

// createTodoRequest defines the expected payload for POST /to-dos.
type createTodoRequest struct {
	Text string `json:"text"`
}

// parseTodoID extracts the {id} path value.
func parseTodoID(r *http.Request) (int64, *errors.APIError) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("invalid to-do id", map[string]any{
			"id": raw,
		})
	}
	return id, nil
}

// NewListTodosHandler serves GET /to-dos, newest first.
func NewListTodosHandler(svc service.Service, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := svc.ListTodos(r.Context())
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondJSON(w, http.StatusOK, all, lg)
	}
}

// NewCreateTodoHandler serves POST /to-dos.
func NewCreateTodoHandler(svc service.Service, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTodoRequest
		if apiErr := decodeBody(w, r, createTodo, &req); apiErr != nil {
			respondWithError(w, apiErr, lg)
			return
		}

		created, err := svc.CreateTodo(r.Context(), req.Text)
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondJSON(w, http.StatusCreated, created, lg)
	}
}

// NewGetTodoHandler serves GET /to-dos/{id}.
func NewGetTodoHandler(svc service.Service, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, apiErr := parseTodoID(r)
		if apiErr != nil {
			respondWithError(w, apiErr, lg)
			return
		}

		todo, err := svc.GetTodo(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondJSON(w, http.StatusOK, todo, lg)
	}
}

// NewUpdateTodoHandler serves PATCH /to-dos/{id}. Only supplied fields change.
func NewUpdateTodoHandler(svc service.Service, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, apiErr := parseTodoID(r)
		if apiErr != nil {
			respondWithError(w, apiErr, lg)
			return
		}

		var patch todos.Patch
		if apiErr := decodeBody(w, r, updateTodo, &patch); apiErr != nil {
			respondWithError(w, apiErr, lg)
			return
		}

		updated, err := svc.UpdateTodo(r.Context(), id, patch)
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondJSON(w, http.StatusOK, updated, lg)
	}
}

// NewDeleteTodoHandler serves DELETE /to-dos/{id} and returns the removed record.
func NewDeleteTodoHandler(svc service.Service, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, apiErr := parseTodoID(r)
		if apiErr != nil {
			respondWithError(w, apiErr, lg)
			return
		}

		removed, err := svc.DeleteTodo(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondJSON(w, http.StatusOK, removed, lg)
	}
}

// NewDeleteCompletedTodosHandler serves DELETE /completed-to-dos.
func NewDeleteCompletedTodosHandler(svc service.Service, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := svc.DeleteCompletedTodos(r.Context())
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondJSON(w, http.StatusOK, removed, lg)
	}
}
