package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rgavidia/go-inventory/pkg/web"
)

// HealthHandler serves the service index and health probes.
type HealthHandler struct {
	logger *slog.Logger
}

func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{logger: logger.With("component", "rest")}
}

// RegisterRoutes registers the index and health routes.
func (h *HealthHandler) RegisterRoutes(r *chi.Mux) {
	r.Get("/", h.Index)
	r.Get("/health", h.Health)
}

// Index describes the API surface.
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]any{
		"message": "Inventory Management API",
		"version": "1.0",
		"endpoints": map[string]string{
			"categories": "/api/categories",
			"products":   "/api/products",
		},
	})
}

// Health is a simple liveness check.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "healthy"})
}
