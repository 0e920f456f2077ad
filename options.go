package roomshare

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Option configures a Tracker with optional dependencies.
type Option func(*trackerOptions)

// trackerOptions holds optional Tracker configuration.
type trackerOptions struct {
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
	store     Store
	eventConn *nats.Conn
	clock     func() time.Time
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewTracker
//
// Example:
//
//	hooks := &roomshare.Hooks{
//	    OnGroupFormed: func(ctx context.Context, g roomshare.Group) error {
//	        return notifyHost(ctx, g)
//	    },
//	}
//	trk, err := roomshare.NewTracker(&cfg, src, eng, roomshare.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *trackerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewTracker
//
// Example:
//
//	collector := myPrometheusCollector
//	trk, err := roomshare.NewTracker(&cfg, src, eng, roomshare.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *trackerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewTracker
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	trk, err := roomshare.NewTracker(&cfg, src, eng, roomshare.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *trackerOptions) {
		o.logger = logger
	}
}

// WithStore sets a persistence store.
//
// With a store configured the tracker saves the namespace state after every
// accepted mutation and restores it on Start. Without one the tracker is
// purely in-memory.
//
// Parameters:
//   - store: Store implementation (e.g. store/sqlite)
//
// Returns:
//   - Option: Functional option for NewTracker
//
// Example:
//
//	db, err := sqlite.Open("roomshare.db")
//	if err != nil { /* handle */ }
//	trk, err := roomshare.NewTracker(&cfg, src, eng, roomshare.WithStore(db))
func WithStore(store Store) Option {
	return func(o *trackerOptions) {
		o.store = store
	}
}

// WithEventConn sets a NATS connection for outbound event publishing.
//
// Events are published to <EventSubjectPrefix>.<Namespace>.<kind> subjects.
// Publishing is best-effort: a failed publish is counted and reported
// through the OnError hook but never fails the mutation.
//
// Parameters:
//   - conn: Established NATS connection
//
// Returns:
//   - Option: Functional option for NewTracker
func WithEventConn(conn *nats.Conn) Option {
	return func(o *trackerOptions) {
		o.eventConn = conn
	}
}

// WithClock sets the time source used for deadline checks.
//
// Intended for tests that need to control eligibility cutoffs.
//
// Parameters:
//   - clock: Function returning the current time
//
// Returns:
//   - Option: Functional option for NewTracker
func WithClock(clock func() time.Time) Option {
	return func(o *trackerOptions) {
		o.clock = clock
	}
}
