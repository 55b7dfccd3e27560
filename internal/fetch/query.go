package fetch

import (
	"context"
	"sync"
)

// Query binds one locator to a client and fires at most one request.
//
// The locator is fixed at construction. A consumer that needs a different
// locator must create a new Query; an existing one never refetches.
type Query struct {
	client  *Client
	locator string

	mu     sync.Mutex
	handle *Handle
}

// NewQuery creates a query for locator
func NewQuery(client *Client, locator string) *Query {
	return &Query{
		client:  client,
		locator: locator,
	}
}

// Locator returns the bound locator
func (q *Query) Locator() string {
	return q.locator
}

// Activate issues the request on first call and returns the same handle on
// every later call
func (q *Query) Activate(ctx context.Context) *Handle {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.handle == nil {
		q.handle = q.client.Get(ctx, q.locator)
	}
	return q.handle
}

// Handle returns the active handle, or nil before Activate
func (q *Query) Handle() *Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.handle
}
