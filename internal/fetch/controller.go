package fetch

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/offview/internal/log"
	"github.com/zjrosen/offview/internal/metrics"
	"github.com/zjrosen/offview/internal/product"
)

// Config configures a Controller.
type Config struct {
	// Fetcher performs the network lookups. Required.
	Fetcher Fetcher

	// Timeout bounds each worker task. Zero means no deadline.
	Timeout time.Duration

	// FenceStale drops messages from a request superseded by a newer request
	// of the same kind. When false the last applied message wins.
	FenceStale bool

	// Tracer records a span per worker task. Defaults to a no-op tracer.
	Tracer trace.Tracer

	// Now is the clock used for latency metrics. Defaults to time.Now.
	Now func() time.Time
}

// Controller owns the application State. All methods except Wait must be
// called from the single foreground loop; workers only touch the Channel.
type Controller struct {
	fetcher Fetcher
	timeout time.Duration
	fence   bool
	tracer  trace.Tracer
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	ch     *Channel

	state   State
	nextID  uint64
	latest  map[Kind]uint64
	metrics metrics.FetchMetrics
}

// NewController creates a controller in the initial SearchResults view.
func NewController(cfg Config) *Controller {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		fetcher: cfg.Fetcher,
		timeout: cfg.Timeout,
		fence:   cfg.FenceStale,
		tracer:  tracer,
		now:     now,
		ctx:     ctx,
		cancel:  cancel,
		ch:      NewChannel(),
		state:   State{View: ViewSearchResults},
		latest:  make(map[Kind]uint64),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state.clone()
}

// Metrics returns the fetch counters.
func (c *Controller) Metrics() metrics.FetchMetrics {
	return c.metrics
}

// Fencing reports whether stale results are discarded.
func (c *Controller) Fencing() bool {
	return c.fence
}

// SetFencing switches stale-result fencing on or off for future polls.
func (c *Controller) SetFencing(enabled bool) {
	c.fence = enabled
}

// Channel exposes the message channel so a UI loop can wait on Ready.
func (c *Controller) Channel() *Channel {
	return c.ch
}

// OnSearchSubmitted starts a search for term. Previous results stay visible
// until the response lands. The term is not validated; "" is a legal search.
func (c *Controller) OnSearchSubmitted(term string) uint64 {
	c.state.SearchTerm = term
	c.startLoading()
	id := c.spawn(KindSearch, term)
	log.Info(log.CatFetch, "Search submitted", "request", id, "term", term)
	return id
}

// OnProductSelected switches to the details view and starts a detail lookup.
// Any previously selected product stays visible until the response lands.
// A product without a code is looked up as product.UnknownCode.
func (c *Controller) OnProductSelected(p product.Product) uint64 {
	c.state.View = ViewProductDetails
	c.startLoading()
	code := p.LookupCode()
	if code == product.UnknownCode {
		log.Warn(log.CatFetch, "Selected product has no code, using sentinel", "code", code)
	}
	id := c.spawn(KindDetail, code)
	log.Info(log.CatFetch, "Product selected", "request", id, "code", code)
	return id
}

// OnBackRequested returns to the search results and clears the selection.
// It performs no I/O and is idempotent.
func (c *Controller) OnBackRequested() {
	c.state.View = ViewSearchResults
	c.state.Selected = nil
	log.Debug(log.CatController, "Back to search results")
}

// PollMessages drains every pending message without blocking and applies
// them in arrival order. It returns the number of messages applied
// (discarded stale messages are not counted).
func (c *Controller) PollMessages() int {
	msgs := c.ch.Drain()
	applied := 0
	for _, msg := range msgs {
		if c.apply(msg) {
			applied++
		}
	}
	return applied
}

func (c *Controller) startLoading() {
	c.state.Loading = true
	c.state.Err = nil
}

func (c *Controller) spawn(kind Kind, arg string) uint64 {
	c.nextID++
	req := Request{ID: c.nextID, Kind: kind, Arg: arg}
	c.latest[kind] = req.ID
	c.metrics.Started++

	task := newTask(req, c.fetcher, c.ch, c.tracer, c.now())

	ctx, cancel := c.ctx, context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.timeout)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		_ = task.Run(ctx)
	}()
	return req.ID
}

func (c *Controller) apply(msg Message) bool {
	env := msg.envelope()
	now := c.now()

	if c.fence && env.RequestID < c.latest[env.Kind] {
		c.metrics.Discarded++
		c.metrics.LastUpdatedAt = now
		log.Debug(log.CatController, "Discarding stale message",
			"request", env.RequestID, "kind", env.Kind, "latest", c.latest[env.Kind])
		return false
	}

	switch m := msg.(type) {
	case SearchResultsMsg:
		c.state.Results = m.Products
		c.metrics.Completed++
		log.Debug(log.CatController, "Applied search results", "request", env.RequestID, "count", len(m.Products))
	case ProductDetailsMsg:
		detail := m.Detail
		c.state.Selected = &detail
		c.metrics.Completed++
		log.Debug(log.CatController, "Applied product details", "request", env.RequestID, "code", detail.Code)
	case ErrorMsg:
		text := m.Text
		c.state.Err = &text
		c.metrics.Failed++
		log.Warn(log.CatController, "Applied error", "request", env.RequestID, "kind", env.Kind, "error", text)
	}

	c.state.Loading = false
	if !env.Started.IsZero() {
		c.metrics.LastLatency = now.Sub(env.Started)
	}
	c.metrics.LastUpdatedAt = now
	return true
}

// Wait blocks until every spawned worker has finished. Safe from any goroutine.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight workers, rejects their late sends and waits for them.
func (c *Controller) Close() {
	c.cancel()
	c.ch.Close()
	c.wg.Wait()
}
