package types

import "time"

// EventKind identifies an outbound event emitted for the host to persist or
// display.
type EventKind string

const (
	// EventGroupFormed is emitted when a new group is created.
	EventGroupFormed EventKind = "group.formed"

	// EventGroupDissolved is emitted when a group is emptied and removed.
	EventGroupDissolved EventKind = "group.dissolved"

	// EventParticipantPending is emitted when a participant is displaced
	// with no alternative capacity.
	EventParticipantPending EventKind = "participant.pending"

	// EventAllocationStalled is emitted when the resolve retry budget is
	// exhausted.
	EventAllocationStalled EventKind = "allocation.stalled"
)

// Event is the wire form of an outbound tracker event.
//
// Events are published as JSON to <prefix>.<namespace>.<kind> subjects.
// The ID is a fresh UUID per event so hosts can deduplicate redeliveries.
type Event struct {
	// ID is a unique event id.
	ID string `json:"id"`

	// Kind identifies the event type.
	Kind EventKind `json:"kind"`

	// Namespace is the emitting event namespace.
	Namespace string `json:"namespace"`

	// Time is the emission time.
	Time time.Time `json:"time"`

	// Version is the assignment version the event belongs to.
	Version int64 `json:"version"`

	// Group carries the affected group for group events.
	Group *Group `json:"group,omitempty"`

	// Participants carries the affected participants for participant
	// events.
	Participants []ParticipantID `json:"participants,omitempty"`
}
