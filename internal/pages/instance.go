package pages

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/fetch"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// State is the lifecycle state of a mounted page
type State int

const (
	// StatePending is the initial state: only static chrome renders
	StatePending State = iota
	// StateResolved means the product sequence arrived
	StateResolved
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Options tunes page instances
type Options struct {
	// CancelOnDeactivate cancels the in-flight request on Deactivate.
	// When false the request runs to completion and its result is dropped.
	CancelOnDeactivate bool
}

// View is an immutable snapshot of what a page renders
type View struct {
	Heading      string
	HeadingLevel int
	Cards        []models.Product
	Link         Link
}

// Instance is one mounted page. It owns its fetched data; nothing is shared
// between instances.
type Instance struct {
	id     string
	def    Definition
	query  *fetch.Query
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	active   bool
	products []models.Product
	onChange func(View)
	cancel   context.CancelFunc
}

// NewInstance creates an unmounted page instance for def
func NewInstance(def Definition, client *fetch.Client, opts Options, logger *slog.Logger) *Instance {
	id := uuid.NewString()
	return &Instance{
		id:     id,
		def:    def,
		query:  fetch.NewQuery(client, def.Locator),
		opts:   opts,
		logger: logger.With("page", def.Name, "instance_id", id),
		state:  StatePending,
	}
}

// ID returns the unique instance identifier
func (p *Instance) ID() string {
	return p.id
}

// Definition returns the page this instance mounts
func (p *Instance) Definition() Definition {
	return p.def
}

// OnChange registers fn to be called with the new view when the page
// transitions to resolved. It replaces any previous callback.
func (p *Instance) OnChange(fn func(View)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Activate mounts the page and starts its fetch. Calling it again returns
// the handle of the first activation without a new request.
func (p *Instance) Activate(ctx context.Context) *fetch.Handle {
	p.mu.Lock()
	if existing := p.query.Handle(); existing != nil {
		p.mu.Unlock()
		return existing
	}

	p.active = true
	fetchCtx := context.WithoutCancel(ctx)
	if p.opts.CancelOnDeactivate {
		fetchCtx, p.cancel = context.WithCancel(ctx)
	}
	// Held across the query so a concurrent Activate sees the handle and
	// the cancel func always belongs to the request in flight
	h := p.query.Activate(fetchCtx)
	p.mu.Unlock()

	p.logger.Debug("page activated", "locator", p.def.Locator)

	h.OnSettle(p.settle)
	return h
}

// Deactivate unmounts the page. A result arriving afterwards is ignored.
func (p *Instance) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		return
	}
	p.active = false
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.logger.Debug("page deactivated", "state", p.state.String())
}

// Active reports whether the page is mounted
func (p *Instance) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// State returns the current lifecycle state
func (p *Instance) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Wait blocks until the page's fetch settles or ctx is done. It reports
// false if the page was never activated or ctx ended first.
func (p *Instance) Wait(ctx context.Context) bool {
	h := p.query.Handle()
	if h == nil {
		return false
	}
	return h.Wait(ctx)
}

// View returns the current snapshot. Cards are empty while pending.
func (p *Instance) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *Instance) viewLocked() View {
	return View{
		Heading:      p.def.Heading,
		HeadingLevel: p.def.HeadingLevel,
		Cards:        p.products,
		Link:         p.def.Link,
	}
}

// settle applies a fetch settlement. Failures keep the page pending, and
// settlements after deactivation are dropped.
func (p *Instance) settle(products []models.Product, ok bool) {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		p.logger.Debug("dropping result for inactive page", "resolved", ok)
		return
	}
	if !ok || p.state == StateResolved {
		p.mu.Unlock()
		return
	}

	p.state = StateResolved
	p.products = append([]models.Product(nil), products...)
	view := p.viewLocked()
	fn := p.onChange
	p.mu.Unlock()

	p.logger.Debug("page resolved", "cards", len(view.Cards))
	if fn != nil {
		fn(view)
	}
}
