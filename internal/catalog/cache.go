package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State is the warm-up lifecycle of a Cache.
type State int32

const (
	StateNotStarted State = iota
	StateWarming
	StateReady
)

func (s State) String() string {
	switch s {
	case StateWarming:
		return "warming"
	case StateReady:
		return "ready"
	default:
		return "not_started"
	}
}

// Loader builds a complete snapshot. *Fetcher is the production Loader.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Event describes a warm-up state change.
type Event struct {
	Type   string    `json:"type"` // catalog.warming, catalog.ready, catalog.failed
	Meals  int       `json:"meals,omitempty"`
	Drinks int       `json:"drinks,omitempty"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

const (
	EventWarming = "catalog.warming"
	EventReady   = "catalog.ready"
	EventFailed  = "catalog.failed"
)

// Notifier receives warm-up events. internal/events.Hub implements it.
type Notifier interface {
	BroadcastJSON(v any)
}

const warmKey = "catalog"

// Cache holds the in-memory catalog. It is written once, by the first
// successful warm-up, and read-only afterwards.
type Cache struct {
	loader  Loader
	timeout time.Duration
	logger  *zap.Logger
	notify  Notifier

	group singleflight.Group
	state atomic.Int32
	snap  atomic.Pointer[Snapshot]
}

// Option configures a Cache.
type Option func(*Cache)

// WithWarmupTimeout bounds a single warm-up attempt.
func WithWarmupTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

func WithNotifier(n Notifier) Option {
	return func(c *Cache) { c.notify = n }
}

func NewCache(loader Loader, opts ...Option) *Cache {
	c := &Cache{
		loader:  loader,
		timeout: 45 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("catalog")
	return c
}

// State reports the current lifecycle state.
func (c *Cache) State() State {
	return State(c.state.Load())
}

// Start begins warm-up in the background so the first request does not pay
// for it. Errors are logged; the next access retries.
func (c *Cache) Start(ctx context.Context) {
	go func() {
		_ = c.EnsureWarm(ctx)
	}()
}

// EnsureWarm returns once the cache is Ready, or with the error of the
// warm-up attempt it waited on. Concurrent callers share one attempt. The
// attempt itself is detached from ctx: a caller that gives up stops waiting
// but does not cancel the load for everyone else.
func (c *Cache) EnsureWarm(ctx context.Context) error {
	if c.snap.Load() != nil {
		return nil
	}

	ch := c.group.DoChan(warmKey, func() (any, error) {
		// A previous flight may have finished between our fast-path check
		// and joining the group.
		if c.snap.Load() != nil {
			return nil, nil
		}
		return nil, c.warm(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot warms the cache if needed and returns the published snapshot.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := c.EnsureWarm(ctx); err != nil {
		return nil, err
	}
	return c.snap.Load(), nil
}

func (c *Cache) warm(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.state.Store(int32(StateWarming))
	c.publish(Event{Type: EventWarming, At: time.Now()})
	c.logger.Info("warm-up started")

	start := time.Now()
	snap, err := c.loader.Load(ctx)
	elapsed := time.Since(start)
	warmupDuration.Observe(elapsed.Seconds())

	if err != nil {
		c.state.Store(int32(StateNotStarted))
		warmups.WithLabelValues("failed").Inc()
		c.logger.Error("warm-up failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		c.publish(Event{Type: EventFailed, Error: err.Error(), At: time.Now()})
		return err
	}

	c.snap.Store(snap)
	c.state.Store(int32(StateReady))
	warmups.WithLabelValues("ok").Inc()
	catalogRecords.WithLabelValues("meal").Set(float64(len(snap.Meals)))
	catalogRecords.WithLabelValues("drink").Set(float64(len(snap.Drinks)))

	c.logger.Info("warm-up complete",
		zap.Int("meals", len(snap.Meals)),
		zap.Int("drinks", len(snap.Drinks)),
		zap.Duration("elapsed", elapsed))
	c.publish(Event{Type: EventReady, Meals: len(snap.Meals), Drinks: len(snap.Drinks), At: time.Now()})
	return nil
}

func (c *Cache) publish(ev Event) {
	if c.notify != nil {
		c.notify.BroadcastJSON(ev)
	}
}
