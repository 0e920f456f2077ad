package types

import "context"

// Hooks defines callbacks for tracker lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking the mutation path. Hook errors are logged but never
// fail the mutation that triggered them.
//
// Best practices for hook implementations:
//   - Complete quickly (< 1 second recommended)
//   - Respect context cancellation
//   - Make hooks idempotent (redeliveries are possible after a restore)
//
// Example:
//
//	hooks := &roomshare.Hooks{
//	    OnGroupFormed: func(ctx context.Context, g roomshare.Group) error {
//	        return notifyHost(ctx, g)
//	    },
//	}
type Hooks struct {
	// OnGroupFormed is called when a new group is created by an accepted
	// resolution.
	OnGroupFormed func(ctx context.Context, group Group) error

	// OnGroupDissolved is called when a group is emptied and removed.
	// The group carries its last member list.
	OnGroupDissolved func(ctx context.Context, group Group) error

	// OnParticipantPending is called when a previously placed participant
	// is displaced and no alternative capacity exists.
	OnParticipantPending func(ctx context.Context, id ParticipantID) error

	// OnAllocationStalled is called when the conflict resolver exhausts its
	// retry budget. The listed participants remain in their last
	// known-valid state, flagged pending, until the host intervenes.
	OnAllocationStalled func(ctx context.Context, ids []ParticipantID) error

	// OnAssignmentChanged is called after every accepted mutation with the
	// resulting placement delta.
	OnAssignmentChanged func(ctx context.Context, delta Delta) error

	// OnError is called when a recoverable error occurs (failed persistence,
	// failed event publish).
	OnError func(ctx context.Context, err error) error
}
