package shell

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/fetch"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pages"
)

// Shell keeps exactly one mounted page and swaps it on navigation.
// Fetched data belongs to the mounted instance and is discarded with it.
type Shell struct {
	client *fetch.Client
	opts   pages.Options
	logger *slog.Logger

	mu      sync.Mutex
	current *pages.Instance
}

// New creates a shell with nothing mounted
func New(client *fetch.Client, opts pages.Options, logger *slog.Logger) *Shell {
	return &Shell{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// Navigate unmounts the current page and mounts a fresh instance for path.
// The new instance starts its own fetch; an unknown path leaves the current
// page mounted.
func (s *Shell) Navigate(ctx context.Context, path string) (*pages.Instance, error) {
	def, err := Lookup(path)
	if err != nil {
		return nil, err
	}

	next := pages.NewInstance(def, s.client, s.opts, s.logger)

	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if prev != nil {
		prev.Deactivate()
	}

	s.logger.Debug("navigated", "path", path, "instance_id", next.ID())
	next.Activate(ctx)
	return next, nil
}

// Current returns the mounted page, or nil before the first navigation
func (s *Shell) Current() *pages.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close unmounts the current page
func (s *Shell) Close() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		prev.Deactivate()
	}
}
