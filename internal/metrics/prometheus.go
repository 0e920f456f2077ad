package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/muenchnerfurs/roomshare/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Metric registration is lazy: collectors are created and registered on the
// first recorded observation, so constructing the collector never panics on
// a registry that already holds the metrics.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	mutations           *prometheus.CounterVec
	groupCount          prometheus.Gauge
	pendingParticipants prometheus.Gauge
	groupStateChanges   *prometheus.CounterVec

	resolveAttempts  *prometheus.CounterVec
	resolveDuration  *prometheus.HistogramVec
	dirtyGroups      prometheus.Histogram
	swapImprovements prometheus.Counter
	stalled          prometheus.Counter
	stalledPending   prometheus.Histogram

	storeOperations *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec

	eventsPublished *prometheus.CounterVec
	eventsDropped   *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "roomshare" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "roomshare"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "tracker",
			Name:      "mutations_total",
			Help:      "Total inbound mutations by operation and outcome.",
		}, []string{"op", "outcome"})

		p.groupCount = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "tracker",
			Name:      "groups_current",
			Help:      "Current number of live groups.",
		})

		p.pendingParticipants = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "tracker",
			Name:      "pending_participants_current",
			Help:      "Current number of participants flagged pending.",
		})

		p.groupStateChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "tracker",
			Name:      "group_state_changes_total",
			Help:      "Total group state transitions by from/to state.",
		}, []string{"from", "to"})

		p.resolveAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "resolve_attempts_total",
			Help:      "Total allocation engine invocations by scope and outcome.",
		}, []string{"scope", "outcome"})

		p.resolveDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of completed resolve cycles in seconds by scope.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		}, []string{"scope"})

		p.dirtyGroups = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "dirty_groups",
			Help:      "Number of groups marked dirty per mutation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 50},
		})

		p.swapImprovements = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "swap_improvements_total",
			Help:      "Total improving pairwise swaps applied by allocations.",
		})

		p.stalled = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "stalled_total",
			Help:      "Total resolutions that exhausted the retry budget.",
		})

		p.stalledPending = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "stalled_pending_participants",
			Help:      "Participants left pending per stalled resolution.",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 50},
		})

		p.storeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total persistence operations by type and outcome.",
		}, []string{"op", "outcome"})

		p.storeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of persistence operations in seconds by type.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~2s
		}, []string{"op"})

		p.eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total successfully published events by kind.",
		}, []string{"kind"})

		p.eventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Total events that could not be published by kind.",
		}, []string{"kind"})

		p.reg.MustRegister(p.mutations)
		p.reg.MustRegister(p.groupCount)
		p.reg.MustRegister(p.pendingParticipants)
		p.reg.MustRegister(p.groupStateChanges)
		p.reg.MustRegister(p.resolveAttempts)
		p.reg.MustRegister(p.resolveDuration)
		p.reg.MustRegister(p.dirtyGroups)
		p.reg.MustRegister(p.swapImprovements)
		p.reg.MustRegister(p.stalled)
		p.reg.MustRegister(p.stalledPending)
		p.reg.MustRegister(p.storeOperations)
		p.reg.MustRegister(p.storeDuration)
		p.reg.MustRegister(p.eventsPublished)
		p.reg.MustRegister(p.eventsDropped)
	})
}

func outcomeLabel(ok bool) string {
	if ok {
		return "accepted"
	}

	return "rejected"
}

// TrackerMetrics implementation

// RecordMutation increments the mutation counter for the operation.
func (p *PrometheusCollector) RecordMutation(op string, accepted bool) {
	p.ensureRegistered()
	p.mutations.WithLabelValues(op, outcomeLabel(accepted)).Inc()
}

// RecordGroupCount sets the live group gauge.
func (p *PrometheusCollector) RecordGroupCount(count int) {
	p.ensureRegistered()
	p.groupCount.Set(float64(count))
}

// RecordPendingParticipants sets the pending participant gauge.
func (p *PrometheusCollector) RecordPendingParticipants(count int) {
	p.ensureRegistered()
	p.pendingParticipants.Set(float64(count))
}

// RecordGroupStateChange increments the state transition counter.
func (p *PrometheusCollector) RecordGroupStateChange(from, to types.GroupState) {
	p.ensureRegistered()
	p.groupStateChanges.WithLabelValues(from.String(), to.String()).Inc()
}

// AllocationMetrics implementation

// RecordResolveAttempt increments the resolve attempt counter.
func (p *PrometheusCollector) RecordResolveAttempt(scope string, success bool) {
	p.ensureRegistered()
	outcome := "rejected"
	if success {
		outcome = "accepted"
	}
	p.resolveAttempts.WithLabelValues(scope, outcome).Inc()
}

// RecordResolveDuration observes a resolve cycle duration.
func (p *PrometheusCollector) RecordResolveDuration(scope string, duration float64) {
	p.ensureRegistered()
	p.resolveDuration.WithLabelValues(scope).Observe(duration)
}

// RecordDirtyGroups observes the dirty group count of a mutation.
func (p *PrometheusCollector) RecordDirtyGroups(count int) {
	p.ensureRegistered()
	p.dirtyGroups.Observe(float64(count))
}

// RecordSwapImprovements adds applied swap improvements.
func (p *PrometheusCollector) RecordSwapImprovements(count int) {
	p.ensureRegistered()
	p.swapImprovements.Add(float64(count))
}

// RecordAllocationStalled records a stalled resolution.
func (p *PrometheusCollector) RecordAllocationStalled(participants int) {
	p.ensureRegistered()
	p.stalled.Inc()
	p.stalledPending.Observe(float64(participants))
}

// StoreMetrics implementation

// RecordStoreOperation records a persistence operation.
func (p *PrometheusCollector) RecordStoreOperation(op string, duration float64, success bool) {
	p.ensureRegistered()
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	p.storeOperations.WithLabelValues(op, outcome).Inc()
	p.storeDuration.WithLabelValues(op).Observe(duration)
}

// EventMetrics implementation

// RecordEventPublished increments the published event counter.
func (p *PrometheusCollector) RecordEventPublished(kind string) {
	p.ensureRegistered()
	p.eventsPublished.WithLabelValues(kind).Inc()
}

// RecordEventDropped increments the dropped event counter.
func (p *PrometheusCollector) RecordEventDropped(kind string) {
	p.ensureRegistered()
	p.eventsDropped.WithLabelValues(kind).Inc()
}
