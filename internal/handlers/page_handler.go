package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/fetch"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pages"
)

// PageHandler renders one storefront page per request. Every request is a
// fresh activation, so nothing fetched is reused between requests.
type PageHandler struct {
	client *fetch.Client
	opts   pages.Options
	wait   time.Duration
	logger *slog.Logger
}

// NewPageHandler creates a new page handler. wait bounds how long a request
// waits for its fetch before rendering the pending view; zero leaves it to
// the request context.
func NewPageHandler(client *fetch.Client, opts pages.Options, wait time.Duration, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		client: client,
		opts:   opts,
		wait:   wait,
		logger: logger,
	}
}

// Page returns the handler for def. It waits for the fetch to settle, for
// the wait bound or for the request to end, then renders whatever state the
// page reached.
func (h *PageHandler) Page(def pages.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		page := pages.NewInstance(def, h.client, h.opts, h.logger)
		page.Activate(ctx)
		defer page.Deactivate()

		waitCtx := ctx
		if h.wait > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(ctx, h.wait)
			defer cancel()
		}

		if !page.Wait(waitCtx) {
			h.logger.Warn("request ended before fetch settled",
				"page", def.Name,
				"instance_id", page.ID(),
			)
		}

		var buf bytes.Buffer
		if err := page.Render(&buf); err != nil {
			h.logger.Error("failed to render page", "page", def.Name, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.Error("failed to write page", "page", def.Name, "error", err)
		}
	}
}
