package types

import (
	"slices"
	"time"
)

// ParticipantID uniquely identifies an attendee within an event namespace.
type ParticipantID string

// ParticipantStatus describes a participant's relationship to the live
// assignment.
type ParticipantStatus int

const (
	// StatusUnassigned means the participant is registered but currently
	// in no group.
	StatusUnassigned ParticipantStatus = iota

	// StatusAssigned means the participant is a member of exactly one
	// group.
	StatusAssigned

	// StatusPending means the participant lost a previously valid placement
	// (displaced by a capacity conflict or a stalled resolution) and awaits
	// capacity or manual intervention.
	StatusPending
)

// String returns the string representation of the status.
func (s ParticipantStatus) String() string {
	switch s {
	case StatusUnassigned:
		return "unassigned"
	case StatusAssigned:
		return "assigned"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Participant is an attendee seeking to share a resource.
//
// Participants are created on registration, mutated only by preference and
// capacity edits, and removed on withdrawal or event closure.
type Participant struct {
	// ID uniquely identifies the participant.
	ID ParticipantID `json:"id"`

	// Preferences is the ordered list of preferred co-participants,
	// best first. Entries must reference registered participants and must
	// not reference the participant itself.
	Preferences []ParticipantID `json:"preferences,omitempty"`

	// Capacity is the number of units the participant occupies
	// (e.g., beds needed). Minimum 1.
	Capacity int `json:"capacity"`

	// RequiredTags restricts eligible resources: every required tag must be
	// offered by the resource. Empty means any resource is eligible.
	RequiredTags []Tag `json:"requiredTags,omitempty"`

	// Deadline is the hard cutoff after which the participant is no longer
	// eligible for (re)placement. Zero means no deadline.
	Deadline time.Time `json:"deadline"`

	// RegisteredSeq is the registration order, assigned by the constraint
	// model. Earlier registrations win placement ties.
	RegisteredSeq int64 `json:"registeredSeq"`

	// Status is the participant's current assignment status. Owned by the
	// consistency tracker; the constraint model never touches it.
	Status ParticipantStatus `json:"status"`
}

// EligibleAt reports whether the participant may still be (re)placed at the
// given time.
func (p Participant) EligibleAt(now time.Time) bool {
	return p.Deadline.IsZero() || now.Before(p.Deadline)
}

// PrefRank returns the zero-based position of other in the participant's
// preference list.
//
// Returns:
//   - int: Preference rank (0 is best), undefined when not listed
//   - bool: true if other is listed
func (p Participant) PrefRank(other ParticipantID) (int, bool) {
	idx := slices.Index(p.Preferences, other)
	if idx < 0 {
		return 0, false
	}

	return idx, true
}

// Clone returns a deep copy of the participant.
func (p Participant) Clone() Participant {
	c := p
	c.Preferences = slices.Clone(p.Preferences)
	c.RequiredTags = slices.Clone(p.RequiredTags)

	return c
}
