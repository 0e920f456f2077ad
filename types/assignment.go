package types

import "slices"

// Assignment is the full mapping of participants to groups at a point in
// time.
//
// Assignments are versioned: the version increases by one for every
// accepted mutation, and identical input sequences produce byte-identical
// marshaled assignments (groups and id lists are kept sorted).
type Assignment struct {
	// Version is the monotonically increasing assignment version.
	Version int64 `json:"version"`

	// Groups lists all live groups, sorted by id.
	Groups []Group `json:"groups"`

	// Unassigned lists registered participants currently in no group,
	// sorted by id.
	Unassigned []ParticipantID `json:"unassigned,omitempty"`

	// Pending lists participants flagged pending (displaced or stalled),
	// sorted by id. Pending participants also appear in Unassigned.
	Pending []ParticipantID `json:"pending,omitempty"`
}

// GroupOf returns the group containing the participant.
//
// Returns:
//   - Group: The containing group (zero value when unassigned)
//   - bool: true if the participant is a member of a group
func (a Assignment) GroupOf(id ParticipantID) (Group, bool) {
	for _, g := range a.Groups {
		if g.HasMember(id) {
			return g, true
		}
	}

	return Group{}, false
}

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	c := a
	c.Groups = make([]Group, len(a.Groups))
	for i, g := range a.Groups {
		c.Groups[i] = g.Clone()
	}
	c.Unassigned = slices.Clone(a.Unassigned)
	c.Pending = slices.Clone(a.Pending)

	return c
}

// Placement records where a single participant ended up after a mutation.
// An empty Group means the participant is unassigned.
type Placement struct {
	Participant ParticipantID     `json:"participant"`
	Group       GroupID           `json:"group,omitempty"`
	Resource    ResourceID        `json:"resource,omitempty"`
	Status      ParticipantStatus `json:"status"`
}

// Delta is the set of placements that changed in one accepted mutation.
type Delta struct {
	// Version is the assignment version after the mutation.
	Version int64 `json:"version"`

	// Placements lists the participants whose placement changed, sorted by
	// participant id.
	Placements []Placement `json:"placements,omitempty"`
}

// ResultKind classifies the outcome of an inbound mutation.
type ResultKind int

const (
	// ResultAccepted means the mutation was applied and all affected groups
	// returned to a stable state.
	ResultAccepted ResultKind = iota

	// ResultRequiresReview means the mutation was applied but some
	// participants could not be placed (pending or stalled) and host
	// intervention may be needed.
	ResultRequiresReview
)

// String returns the string representation of the result kind.
func (k ResultKind) String() string {
	switch k {
	case ResultAccepted:
		return "Accepted"
	case ResultRequiresReview:
		return "RequiresReview"
	default:
		return "Unknown"
	}
}

// Result is the structured outcome of an inbound mutation.
type Result struct {
	// Kind classifies the outcome.
	Kind ResultKind `json:"kind"`

	// Delta describes the resulting assignment changes.
	Delta Delta `json:"delta"`

	// Unplaced carries per-participant allocation failures (ErrInfeasible,
	// ErrInvalidConstraint) from this mutation. These participants remain
	// unassigned; the mutation itself still succeeded.
	Unplaced []Unplaced `json:"unplaced,omitempty"`
}
