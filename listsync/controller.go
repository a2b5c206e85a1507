// Package listsync keeps an in-memory copy of a remote collection in step with
// the server: one fetch in flight per list, full replace on success, the last
// issued fetch wins, and failures keep whatever was already on screen.
package listsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/notify"
)

// FetchFunc fetches the whole collection
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Snapshot is a consistent view of a controller
type Snapshot[T any] struct {
	State    State
	Items    []T
	Err      error
	LoadedAt time.Time
}

// Empty reports whether the list loaded successfully with nothing in it
func (s Snapshot[T]) Empty() bool {
	return s.State == Loaded && len(s.Items) == 0
}

type options struct {
	sink     notify.Sink
	log      *zap.SugaredLogger
	onChange func()
	now      func() time.Time
}

// Option configures a Controller
type Option func(*options)

// WithSink sets where failure notifications go
func WithSink(s notify.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithLogger sets the controller logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.log = l }
}

// OnChange registers a callback run after every state change, outside the lock
func OnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Controller synchronizes one list instance. It owns its collection exclusively.
type Controller[T any] struct {
	name  string
	fetch FetchFunc[T]
	opts  options

	mu       sync.Mutex
	state    State
	items    []T
	err      error
	loadedAt time.Time
	issued   uint64
}

// New creates an Idle controller. name is used in notifications, e.g. "complaints".
func New[T any](name string, fetch FetchFunc[T], opts ...Option) *Controller[T] {
	o := options{
		sink: notify.Discard,
		log:  zap.NewNop().Sugar(),
		now:  time.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &Controller[T]{name: name, fetch: fetch, opts: o, state: Idle}
}

// Name returns the list name
func (c *Controller[T]) Name() string { return c.name }

// Mount is called on first display and starts the initial load
func (c *Controller[T]) Mount(ctx context.Context) bool {
	return c.Load(ctx)
}

// Load fetches the collection. It is accepted from Idle or Failed and blocks until
// the fetch settles. It returns false without fetching when not accepted.
func (c *Controller[T]) Load(ctx context.Context) bool {
	return c.run(ctx, EventLoad)
}

// Refresh refetches while keeping the current items visible. It is accepted from
// Loaded or Failed and is a no-op while a fetch is in flight.
func (c *Controller[T]) Refresh(ctx context.Context) bool {
	return c.run(ctx, EventRefresh)
}

// Reload always issues a fresh fetch, superseding any fetch in flight. It is meant
// for after a write, when whatever was in flight may predate it.
func (c *Controller[T]) Reload(ctx context.Context) bool {
	return c.run(ctx, EventReload)
}

// Close detaches the controller from its view; results that arrive later are dropped
func (c *Controller[T]) Close() {
	c.mu.Lock()
	next, ok := Next(c.state, EventClose)
	c.state = next
	c.mu.Unlock()
	if ok {
		c.changed()
	}
}

// State returns the current state
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a copy of the cached collection
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItems()
}

// Err returns the error of the last failed fetch, cleared on success
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Snapshot returns state, items and error read under a single lock
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{State: c.state, Items: c.copyItems(), Err: c.err, LoadedAt: c.loadedAt}
}

func (c *Controller[T]) copyItems() []T {
	if c.items == nil {
		return nil
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller[T]) run(ctx context.Context, ev Event) bool {
	c.mu.Lock()
	next, ok := Next(c.state, ev)
	if !ok {
		state := c.state
		c.mu.Unlock()
		c.opts.log.Debugw("ignoring list event", "list", c.name, "event", ev.String(), "state", state.String())
		return false
	}
	c.state = next
	c.issued++
	seq := c.issued
	c.mu.Unlock()
	c.changed()

	items, err := c.safeFetch(ctx)
	c.settle(seq, items, err)
	return true
}

func (c *Controller[T]) safeFetch(ctx context.Context) (items []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch %s panicked: %v", c.name, r)
		}
	}()
	return c.fetch(ctx)
}

// settle applies the result of fetch seq if it is still the latest issued one
func (c *Controller[T]) settle(seq uint64, items []T, err error) {
	c.mu.Lock()
	if c.state == Closed || seq != c.issued {
		latest, state := c.issued, c.state
		c.mu.Unlock()
		c.opts.log.Debugw("discarding stale list result", "list", c.name, "seq", seq, "latest", latest, "state", state.String())
		return
	}

	if err != nil {
		c.state, _ = Next(c.state, EventFailed)
		c.err = err
		c.mu.Unlock()

		c.opts.log.Errorw("failed to fetch list", "list", c.name, "error", err)
		c.opts.sink.Notify(notify.Error, fmt.Sprintf("Failed to load %s", c.name), err.Error())
		c.changed()
		return
	}

	c.state, _ = Next(c.state, EventSucceeded)
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.err = nil
	c.loadedAt = c.opts.now()
	n := len(items)
	c.mu.Unlock()

	c.opts.log.Debugw("list loaded", "list", c.name, "count", n)
	c.changed()
}

func (c *Controller[T]) changed() {
	if c.opts.onChange != nil {
		c.opts.onChange()
	}
}
