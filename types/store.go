package types

import "context"

// PersistedState is the durable representation of one event namespace:
// the constraint model plus the live assignment.
//
// Any schema preserving these fields and the group invariants is
// conformant; the store/sqlite package provides the reference
// implementation.
type PersistedState struct {
	// Namespace is the event namespace the state belongs to.
	Namespace string `json:"namespace"`

	// Version is the assignment version at save time.
	Version int64 `json:"version"`

	// GroupSeq is the next group id sequence number.
	GroupSeq int64 `json:"groupSeq"`

	// ParticipantSeq is the next registration sequence number.
	ParticipantSeq int64 `json:"participantSeq"`

	// Participants holds every registered participant including status.
	Participants []Participant `json:"participants"`

	// Resources holds the resource catalog including overcommit flags.
	Resources []Resource `json:"resources"`

	// Groups holds every live group.
	Groups []Group `json:"groups"`
}

// Store persists and reloads the state of event namespaces.
//
// The consistency tracker saves after every accepted mutation and loads
// once at startup. Namespaces are fully independent: implementations must
// scope all rows by namespace. Implementations must be safe for concurrent
// use across trackers.
type Store interface {
	// SaveState durably replaces the state of the namespace.
	SaveState(ctx context.Context, state *PersistedState) error

	// LoadState loads the state of the namespace.
	//
	// Returns:
	//   - *PersistedState: The stored state
	//   - error: ErrNotFound when the namespace has no stored state
	LoadState(ctx context.Context, namespace string) (*PersistedState, error)
}
