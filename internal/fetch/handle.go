package fetch

import (
	"context"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// Handle is the eventual result of one retrieval. It starts pending and
// settles exactly once, either resolved with the document's data or failed.
type Handle struct {
	locator string
	done    chan struct{}

	mu        sync.Mutex
	settled   bool
	products  []models.Product
	resolved  bool
	err       error
	callbacks []func(products []models.Product, ok bool)
}

func newHandle(locator string) *Handle {
	return &Handle{
		locator: locator,
		done:    make(chan struct{}),
	}
}

// Locator returns the address this handle was created for
func (h *Handle) Locator() string {
	return h.locator
}

// Done is closed when the handle settles, after every callback registered
// before settlement has returned
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Products returns the resolved data. ok is false while pending and after
// a failure; the data stays absent in both cases.
func (h *Handle) Products() (products []models.Product, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.products, h.resolved
}

// Err returns the recorded failure, if any. It is meant for diagnostics only.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Wait blocks until the handle settles or ctx is done, and reports whether
// it settled
func (h *Handle) Wait(ctx context.Context) bool {
	select {
	case <-h.done:
		return true
	case <-ctx.Done():
		return false
	}
}

// OnSettle registers fn to run once on settlement. If the handle already
// settled, fn runs immediately on the calling goroutine.
func (h *Handle) OnSettle(fn func(products []models.Product, ok bool)) {
	h.mu.Lock()
	if h.settled {
		products, ok := h.products, h.resolved
		h.mu.Unlock()
		fn(products, ok)
		return
	}
	h.callbacks = append(h.callbacks, fn)
	h.mu.Unlock()
}

func (h *Handle) resolve(products []models.Product) {
	h.settle(products, true, nil)
}

func (h *Handle) fail(err error) {
	h.settle(nil, false, err)
}

func (h *Handle) settle(products []models.Product, ok bool, err error) {
	h.mu.Lock()
	h.settled = true
	h.products = products
	h.resolved = ok
	h.err = err
	callbacks := h.callbacks
	h.callbacks = nil
	h.mu.Unlock()

	for _, fn := range callbacks {
		fn(products, ok)
	}
	close(h.done)
}
