package types

import "slices"

// GroupID uniquely identifies a group within an event namespace.
type GroupID string

// GroupState represents the group lifecycle state.
//
// States follow a defined progression during normal operation:
//
//	GroupStable → GroupDirty → GroupResolving → GroupStable
//
// A group becomes Dirty when any member is removed, any member's
// preferences change, or its resource's capacity shrinks below current
// usage. A group emptied by a resolution transitions to Dissolved, which is
// terminal.
type GroupState int

const (
	// GroupStable indicates all group invariants hold.
	GroupStable GroupState = iota

	// GroupDirty indicates the group's invariants may be violated and a
	// re-solve is pending.
	GroupDirty

	// GroupResolving indicates the group is part of an in-flight
	// allocation. Mutations overlapping a resolving group wait.
	GroupResolving

	// GroupDissolved indicates the group was emptied and removed.
	GroupDissolved
)

// String returns the string representation of the state.
func (s GroupState) String() string {
	switch s {
	case GroupStable:
		return "Stable"
	case GroupDirty:
		return "Dirty"
	case GroupResolving:
		return "Resolving"
	case GroupDissolved:
		return "Dissolved"
	default:
		return "Unknown"
	}
}

// Group is a set of participants jointly occupying one resource.
//
// Invariants (enforced by the conflict resolver):
//   - the sum of member capacity requirements never exceeds the resource's
//     capacity
//   - every member's required tags are satisfied by the resource's tags
//   - every member belongs to at most this one group
type Group struct {
	// ID uniquely identifies the group. Ids are sequence-derived so that
	// identical input sequences produce identical ids.
	ID GroupID `json:"id"`

	// Resource is the resource the group occupies.
	Resource ResourceID `json:"resource"`

	// Members lists the participants in the group, sorted by id.
	Members []ParticipantID `json:"members"`

	// Admin is the member administering the group. The seeding participant
	// becomes admin; when the admin leaves, the lowest-id remaining member
	// is promoted.
	Admin ParticipantID `json:"admin,omitempty"`

	// JoinCode lets participants join this specific group explicitly.
	// Derived deterministically from the group and resource ids.
	JoinCode string `json:"joinCode,omitempty"`

	// State is the group's lifecycle state.
	State GroupState `json:"state"`
}

// HasMember reports whether the participant is a member of the group.
func (g Group) HasMember(id ParticipantID) bool {
	return slices.Contains(g.Members, id)
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	c := g
	c.Members = slices.Clone(g.Members)

	return c
}
