package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
)

// ProductHandler serves the static product document
type ProductHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *catalog.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ServeDocument handles GET /api/products.json.
// The document is written verbatim, malformed or not.
func (h *ProductHandler) ServeDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Document(r.Context())
	if err != nil {
		h.logger.Error("failed to load product document", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.logger.Error("failed to write product document", "error", err)
	}
}
