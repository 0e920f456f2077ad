package metrics

import "github.com/muenchnerfurs/roomshare/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	metrics := metrics.NewNop()
//	trk := roomshare.NewTracker(&cfg, src, eng, roomshare.WithMetrics(metrics))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// TrackerMetrics implementation

// RecordMutation discards the mutation metric.
func (n *NopMetrics) RecordMutation(_ /* op */ string, _ /* accepted */ bool) {
	// No-op
}

// RecordGroupCount discards the group count metric.
func (n *NopMetrics) RecordGroupCount(_ /* count */ int) {
	// No-op
}

// RecordPendingParticipants discards the pending participant count metric.
func (n *NopMetrics) RecordPendingParticipants(_ /* count */ int) {
	// No-op
}

// RecordGroupStateChange discards the group state transition metric.
func (n *NopMetrics) RecordGroupStateChange(_ /* from */, _ /* to */ types.GroupState) {
	// No-op
}

// AllocationMetrics implementation

// RecordResolveAttempt discards the resolve attempt metric.
func (n *NopMetrics) RecordResolveAttempt(_ /* scope */ string, _ /* success */ bool) {
	// No-op
}

// RecordResolveDuration discards the resolve duration metric.
func (n *NopMetrics) RecordResolveDuration(_ /* scope */ string, _ /* duration */ float64) {
	// No-op
}

// RecordDirtyGroups discards the dirty group count metric.
func (n *NopMetrics) RecordDirtyGroups(_ /* count */ int) {
	// No-op
}

// RecordSwapImprovements discards the swap improvement metric.
func (n *NopMetrics) RecordSwapImprovements(_ /* count */ int) {
	// No-op
}

// RecordAllocationStalled discards the stalled allocation metric.
func (n *NopMetrics) RecordAllocationStalled(_ /* participants */ int) {
	// No-op
}

// StoreMetrics implementation

// RecordStoreOperation discards the store operation metric.
func (n *NopMetrics) RecordStoreOperation(_ /* op */ string, _ /* duration */ float64, _ /* success */ bool) {
	// No-op
}

// EventMetrics implementation

// RecordEventPublished discards the published event metric.
func (n *NopMetrics) RecordEventPublished(_ /* kind */ string) {
	// No-op
}

// RecordEventDropped discards the dropped event metric.
func (n *NopMetrics) RecordEventDropped(_ /* kind */ string) {
	// No-op
}
