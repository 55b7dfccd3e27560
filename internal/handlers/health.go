package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// ProductLister is the slice of the catalog the health check needs
type ProductLister interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	catalog ProductLister
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalog ProductLister, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Products  int       `json:"products"`
}

// ServeHTTP handles health check requests. An unreadable catalog document
// reports degraded rather than failing, since pages still render chrome.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}

	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.logger.Warn("catalog document unreadable", "error", err)
		response.Status = "degraded"
	}
	response.Products = len(products)

	WriteJSON(w, http.StatusOK, response, h.logger)
}
