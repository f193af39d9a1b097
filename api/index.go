package api

import (
	"net/http"
	"todo-api/config"
	"todo-api/logger"
)

// RouteInfo documents one endpoint on the index page
type RouteInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// IndexResponse is served at GET /
type IndexResponse struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Routes  []RouteInfo `json:"routes"`
}

var routes = []RouteInfo{
	{http.MethodGet, "/to-dos", "list every to-do, newest first"},
	{http.MethodPost, "/to-dos", "create a to-do from {\"text\": string}"},
	{http.MethodGet, "/to-dos/{id}", "fetch one to-do"},
	{http.MethodPatch, "/to-dos/{id}", "update text and/or complete"},
	{http.MethodDelete, "/to-dos/{id}", "delete one to-do"},
	{http.MethodDelete, "/completed-to-dos", "delete every complete to-do"},
	{http.MethodGet, "/health", "service and store health"},
}

// NewIndexHandler describes the API
func NewIndexHandler(cfg *config.Config, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, IndexResponse{
			Name:    "todo-api",
			Version: cfg.Version,
			Routes:  routes,
		}, lg)
	}
}
