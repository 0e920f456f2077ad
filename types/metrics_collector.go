package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods may be called from internal goroutines and must be
// thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better
// modularity.
type MetricsCollector interface {
	TrackerMetrics
	AllocationMetrics
	StoreMetrics
	EventMetrics
}

// TrackerMetrics defines metrics for consistency-tracker operations.
type TrackerMetrics interface {
	// RecordMutation records one inbound mutation.
	//
	// Parameters:
	//   - op: Operation name ("register", "withdraw", "preferences",
	//     "participant_capacity", "resource_capacity", "join", "leave")
	//   - accepted: true unless the mutation was rejected with a
	//     structural error
	RecordMutation(op string, accepted bool)

	// RecordGroupCount sets the current live group count (gauge metric).
	RecordGroupCount(count int)

	// RecordPendingParticipants sets the current pending participant count
	// (gauge metric).
	RecordPendingParticipants(count int)

	// RecordGroupStateChange records a group state transition.
	RecordGroupStateChange(from, to GroupState)
}

// AllocationMetrics defines metrics for allocation and conflict resolution.
type AllocationMetrics interface {
	// RecordResolveAttempt records one allocation engine invocation.
	//
	// Parameters:
	//   - scope: Resolve scope ("delta" or "full")
	//   - success: true if the conflict resolver accepted the proposal
	RecordResolveAttempt(scope string, success bool)

	// RecordResolveDuration records the time taken for a completed resolve
	// cycle.
	//
	// Parameters:
	//   - scope: Resolve scope ("delta" or "full")
	//   - duration: Time taken in seconds
	RecordResolveDuration(scope string, duration float64)

	// RecordDirtyGroups records the number of groups marked dirty by a
	// mutation.
	RecordDirtyGroups(count int)

	// RecordSwapImprovements records the improving pairwise swaps applied
	// in one allocation.
	RecordSwapImprovements(count int)

	// RecordAllocationStalled records a stalled resolution and the number
	// of participants left pending.
	RecordAllocationStalled(participants int)
}

// StoreMetrics defines metrics for persistence operations.
type StoreMetrics interface {
	// RecordStoreOperation records a store operation.
	//
	// Parameters:
	//   - op: Operation type ("save", "load")
	//   - duration: Time taken in seconds
	//   - success: true if the operation succeeded
	RecordStoreOperation(op string, duration float64, success bool)
}

// EventMetrics defines metrics for outbound event publishing.
type EventMetrics interface {
	// RecordEventPublished records a successfully published event.
	RecordEventPublished(kind string)

	// RecordEventDropped records an event that could not be published.
	RecordEventDropped(kind string)
}
