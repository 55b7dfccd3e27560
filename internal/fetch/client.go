// Package fetch issues one-shot product document retrievals and exposes
// their eventual result through a Handle.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// ErrFetch is the single failure kind: transport error or undecodable body
var ErrFetch = errors.New("fetch or decode failure")

// maxDocumentSize bounds how much of a response body is decoded
const maxDocumentSize = 8 << 20

// Client performs product document retrievals
type Client struct {
	http    *http.Client
	baseURL *url.URL
	logger  *slog.Logger
}

// Options configures a Client
type Options struct {
	// BaseURL resolves relative locators such as /api/products.json
	BaseURL string
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the underlying client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// NewClient creates a new fetch client
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		http:    hc,
		baseURL: base,
		logger:  logger,
	}, nil
}

// Get starts one retrieval of locator and returns immediately. The returned
// handle settles once, when the request completes or fails.
func (c *Client) Get(ctx context.Context, locator string) *Handle {
	h := newHandle(locator)
	go c.run(ctx, h)
	return h
}

func (c *Client) run(ctx context.Context, h *Handle) {
	products, err := c.retrieve(ctx, h.locator)
	if err != nil {
		c.logger.Error("fetching error", "locator", h.locator, "error", err)
		h.fail(err)
		return
	}

	c.logger.Debug("fetched products", "locator", h.locator, "count", len(products))
	h.resolve(products)
}

// retrieve issues the request and decodes the envelope. The status code is
// not inspected: any JSON body is decoded, anything else is a failure.
func (c *Client) retrieve(ctx context.Context, locator string) ([]models.Product, error) {
	target, err := c.resolve(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	var env models.Envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response (status %d): %v", ErrFetch, resp.StatusCode, err)
	}

	return env.Data, nil
}

func (c *Client) resolve(locator string) (string, error) {
	ref, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("invalid locator %q: %w", locator, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}
