package types

import "time"

// PrefEdge is one directed preference edge in a snapshot, resolved to a
// participant index.
//
// Edges are stored by index rather than object reference so the graph can
// be traversed without ownership cycles.
type PrefEdge struct {
	// To is the index of the preferred participant in
	// Snapshot.Participants.
	To int

	// Rank is the zero-based position in the source participant's
	// preference list (0 is best).
	Rank int

	// Weight is the edge weight: list length minus rank, so longer and
	// higher-ranked preferences weigh more.
	Weight int64

	// Mutual is set when the preferred participant also lists the source
	// participant. Mutual edges count double in the aggregate objective.
	Mutual bool
}

// Snapshot is a read-only, index-based view of the constraint model.
//
// Snapshots are what the allocation engine consumes and what the conflict
// resolver verifies proposals against. Participants and resources are
// sorted by id, so identical model contents produce identical snapshots.
type Snapshot struct {
	// Generation is the constraint model generation this snapshot was taken
	// at. Proposals computed against an older generation are rejected by
	// the conflict resolver and re-solved with refreshed constraints.
	Generation int64

	// Now is the time the snapshot was taken, used for deadline checks.
	Now time.Time

	// Participants is sorted by id.
	Participants []Participant

	// Resources is sorted by id.
	Resources []Resource

	// Prefs holds the outgoing preference edges of each participant,
	// indexed in parallel with Participants.
	Prefs [][]PrefEdge

	pindex map[ParticipantID]int
	rindex map[ResourceID]int
}

// NewSnapshot builds a snapshot and its id indices.
//
// The caller must pass participants and resources already sorted by id and
// prefs indexed in parallel with participants; the constraint model is the
// only intended caller.
func NewSnapshot(generation int64, now time.Time, participants []Participant, resources []Resource, prefs [][]PrefEdge) *Snapshot {
	s := &Snapshot{
		Generation:   generation,
		Now:          now,
		Participants: participants,
		Resources:    resources,
		Prefs:        prefs,
		pindex:       make(map[ParticipantID]int, len(participants)),
		rindex:       make(map[ResourceID]int, len(resources)),
	}
	for i, p := range participants {
		s.pindex[p.ID] = i
	}
	for i, r := range resources {
		s.rindex[r.ID] = i
	}

	return s
}

// ParticipantIndex returns the index of the participant in Participants.
func (s *Snapshot) ParticipantIndex(id ParticipantID) (int, bool) {
	idx, ok := s.pindex[id]
	return idx, ok
}

// ResourceIndex returns the index of the resource in Resources.
func (s *Snapshot) ResourceIndex(id ResourceID) (int, bool) {
	idx, ok := s.rindex[id]
	return idx, ok
}

// Participant returns the participant with the given id.
func (s *Snapshot) Participant(id ParticipantID) (Participant, bool) {
	if idx, ok := s.pindex[id]; ok {
		return s.Participants[idx], true
	}

	return Participant{}, false
}

// Resource returns the resource with the given id.
func (s *Snapshot) Resource(id ResourceID) (Resource, bool) {
	if idx, ok := s.rindex[id]; ok {
		return s.Resources[idx], true
	}

	return Resource{}, false
}
