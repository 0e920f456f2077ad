package constraint

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/muenchnerfurs/roomshare/types"
)

// Model holds the participants, resources, and preference edges of one
// event namespace.
//
// Thread safety: all methods are safe for concurrent use. Mutations bump an
// internal generation counter; snapshots carry the generation so the
// conflict resolver can detect proposals computed against stale
// constraints.
type Model struct {
	mu         sync.RWMutex
	generation int64
	nextSeq    int64

	participants map[types.ParticipantID]*types.Participant
	resources    map[types.ResourceID]*types.Resource
}

// NewModel creates an empty constraint model.
func NewModel() *Model {
	return &Model{
		participants: make(map[types.ParticipantID]*types.Participant),
		resources:    make(map[types.ResourceID]*types.Resource),
	}
}

// AddParticipant registers a participant.
//
// The participant's registration sequence is assigned by the model; any
// caller-provided value is overwritten. A capacity of 0 defaults to 1.
// Preferences, if provided, are validated like SetPreferences.
//
// Returns:
//   - error: ErrDuplicateID if the id is already registered (re-adding a
//     withdrawn id is also rejected once it has been re-used),
//     ErrInvalidPreference for a malformed preference list
func (m *Model) AddParticipant(p types.Participant) error {
	if p.ID == "" {
		return fmt.Errorf("participant id must not be empty")
	}
	if p.Capacity < 0 {
		return fmt.Errorf("participant %s: capacity must not be negative", p.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.participants[p.ID]; exists {
		return fmt.Errorf("participant %s: %w", p.ID, types.ErrDuplicateID)
	}
	if err := m.validatePreferences(p.ID, p.Preferences); err != nil {
		return err
	}

	c := p.Clone()
	if c.Capacity == 0 {
		c.Capacity = 1
	}
	c.RegisteredSeq = m.nextSeq
	c.Status = types.StatusUnassigned
	m.nextSeq++

	m.participants[c.ID] = &c
	m.generation++

	return nil
}

// Restore loads persisted participants and resources into an empty model.
//
// Unlike AddParticipant, restore trusts the stored data: registration
// sequences are kept and preference lists are not re-validated (they were
// validated when first accepted). Must be called before any other mutation.
//
// Parameters:
//   - participants: Persisted participants with their original sequences
//   - resources: Persisted resource catalog
//   - nextSeq: Persisted registration sequence counter
func (m *Model) Restore(participants []types.Participant, resources []types.Resource, nextSeq int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range participants {
		c := p.Clone()
		m.participants[c.ID] = &c
	}
	for _, r := range resources {
		c := r
		c.Tags = slices.Clone(r.Tags)
		m.resources[c.ID] = &c
	}
	m.nextSeq = nextSeq
	m.generation++
}

// RemoveParticipant removes a participant from the graph.
//
// Preference edges pointing at the removed participant are left in place on
// other participants and skipped when building snapshots, so a stale
// reference never reaches the allocation engine.
//
// Returns:
//   - error: ErrNotFound if the id is not registered
func (m *Model) RemoveParticipant(id types.ParticipantID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.participants[id]; !exists {
		return fmt.Errorf("participant %s: %w", id, types.ErrNotFound)
	}

	delete(m.participants, id)
	m.generation++

	return nil
}

// SetPreferences rewrites the outgoing preference edges of a participant.
//
// Re-submitting an identical list is a no-op: the generation does not move
// and changed is false.
//
// Returns:
//   - bool: true if the preference list actually changed
//   - error: ErrNotFound for an unknown participant, ErrInvalidPreference
//     for a self-referential, duplicated, or unknown entry
func (m *Model) SetPreferences(id types.ParticipantID, prefs []types.ParticipantID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.participants[id]
	if !exists {
		return false, fmt.Errorf("participant %s: %w", id, types.ErrNotFound)
	}
	if err := m.validatePreferences(id, prefs); err != nil {
		return false, err
	}

	if slices.Equal(p.Preferences, prefs) {
		return false, nil
	}

	p.Preferences = slices.Clone(prefs)
	m.generation++

	return true, nil
}

// validatePreferences checks a preference list for self-references,
// duplicates, and unknown participants. Callers must hold the lock.
func (m *Model) validatePreferences(self types.ParticipantID, prefs []types.ParticipantID) error {
	seen := make(map[types.ParticipantID]struct{}, len(prefs))
	for _, ref := range prefs {
		if ref == self {
			return fmt.Errorf("participant %s lists itself: %w", self, types.ErrInvalidPreference)
		}
		if _, dup := seen[ref]; dup {
			return fmt.Errorf("participant %s listed twice: %w", ref, types.ErrInvalidPreference)
		}
		seen[ref] = struct{}{}
		if _, known := m.participants[ref]; !known {
			return fmt.Errorf("unknown participant %s: %w", ref, types.ErrInvalidPreference)
		}
	}

	return nil
}

// SetParticipantCapacity updates a participant's capacity requirement.
//
// Returns:
//   - bool: true if the capacity actually changed
//   - error: ErrNotFound for an unknown participant
func (m *Model) SetParticipantCapacity(id types.ParticipantID, capacity int) (bool, error) {
	if capacity < 1 {
		return false, fmt.Errorf("participant %s: capacity must be >= 1", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.participants[id]
	if !exists {
		return false, fmt.Errorf("participant %s: %w", id, types.ErrNotFound)
	}
	if p.Capacity == capacity {
		return false, nil
	}

	p.Capacity = capacity
	m.generation++

	return true, nil
}

// Participant returns a copy of the participant with the given id.
func (m *Model) Participant(id types.ParticipantID) (types.Participant, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.participants[id]
	if !ok {
		return types.Participant{}, false
	}

	return p.Clone(), true
}

// ParticipantCount returns the number of registered participants.
func (m *Model) ParticipantCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.participants)
}

// AddResource adds a resource to the catalog.
//
// Returns:
//   - error: ErrDuplicateID if the id already exists
func (m *Model) AddResource(r types.Resource) error {
	if r.ID == "" {
		return fmt.Errorf("resource id must not be empty")
	}
	if r.Capacity < 0 {
		return fmt.Errorf("resource %s: capacity must not be negative", r.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.resources[r.ID]; exists {
		return fmt.Errorf("resource %s: %w", r.ID, types.ErrDuplicateID)
	}

	c := r
	c.Tags = slices.Clone(r.Tags)
	m.resources[r.ID] = &c
	m.generation++

	return nil
}

// ResourceCapacity returns the total capacity of a resource.
//
// Returns:
//   - int: Total capacity in units
//   - error: ErrNotFound for an unknown resource
func (m *Model) ResourceCapacity(id types.ResourceID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.resources[id]
	if !ok {
		return 0, fmt.Errorf("resource %s: %w", id, types.ErrNotFound)
	}

	return r.Capacity, nil
}

// UpdateCapacity sets a new total capacity for a resource.
//
// A reduction below the given current usage is accepted but flags the
// resource overcommitted; the consistency tracker hands the affected groups
// to the conflict resolver.
//
// Parameters:
//   - id: Resource to update
//   - capacity: New total capacity in units
//   - usage: Units currently occupied by assigned groups
//
// Returns:
//   - bool: true if the resource is now overcommitted
//   - error: ErrNotFound for an unknown resource
func (m *Model) UpdateCapacity(id types.ResourceID, capacity, usage int) (bool, error) {
	if capacity < 0 {
		return false, fmt.Errorf("resource %s: capacity must not be negative", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.resources[id]
	if !ok {
		return false, fmt.Errorf("resource %s: %w", id, types.ErrNotFound)
	}

	r.Capacity = capacity
	r.Overcommitted = usage > capacity
	m.generation++

	return r.Overcommitted, nil
}

// MarkOvercommitted sets or clears the overcommit flag of a resource.
// Used by the consistency tracker once a resolution restores the capacity
// invariant.
func (m *Model) MarkOvercommitted(id types.ResourceID, flag bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.resources[id]
	if !ok {
		return fmt.Errorf("resource %s: %w", id, types.ErrNotFound)
	}
	if r.Overcommitted != flag {
		r.Overcommitted = flag
		m.generation++
	}

	return nil
}

// Resource returns a copy of the resource with the given id.
func (m *Model) Resource(id types.ResourceID) (types.Resource, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.resources[id]
	if !ok {
		return types.Resource{}, false
	}

	c := *r
	c.Tags = slices.Clone(r.Tags)

	return c, true
}

// Generation returns the current model generation.
func (m *Model) Generation() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.generation
}

// NextSeq returns the next registration sequence number. Used when
// restoring a persisted model.
func (m *Model) NextSeq() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.nextSeq
}

// SetNextSeq restores the registration sequence counter from persisted
// state. Must be called before participants register.
func (m *Model) SetNextSeq(seq int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSeq = seq
}

// Snapshot returns an immutable, index-based view of the graph.
//
// Participants and resources are sorted by id and preference lists are
// resolved to index edges. Edges pointing at withdrawn participants are
// skipped. Edge weight is list length minus rank; an edge is mutual when
// the target also lists the source.
//
// Parameters:
//   - now: Snapshot time, used for deadline eligibility checks
//
// Returns:
//   - *types.Snapshot: Read-only snapshot at the current generation
func (m *Model) Snapshot(now time.Time) *types.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	participants := make([]types.Participant, 0, len(m.participants))
	for _, p := range m.participants {
		participants = append(participants, p.Clone())
	}
	slices.SortFunc(participants, func(a, b types.Participant) int {
		return cmp.Compare(a.ID, b.ID)
	})

	resources := make([]types.Resource, 0, len(m.resources))
	for _, r := range m.resources {
		c := *r
		c.Tags = slices.Clone(r.Tags)
		resources = append(resources, c)
	}
	slices.SortFunc(resources, func(a, b types.Resource) int {
		return cmp.Compare(a.ID, b.ID)
	})

	index := make(map[types.ParticipantID]int, len(participants))
	for i, p := range participants {
		index[p.ID] = i
	}

	prefs := make([][]types.PrefEdge, len(participants))
	for i, p := range participants {
		listLen := len(p.Preferences)
		edges := make([]types.PrefEdge, 0, listLen)
		for rank, ref := range p.Preferences {
			to, known := index[ref]
			if !known {
				continue // withdrawn participant, edge is stale
			}
			_, mutual := participants[to].PrefRank(p.ID)
			edges = append(edges, types.PrefEdge{
				To:     to,
				Rank:   rank,
				Weight: int64(listLen - rank),
				Mutual: mutual,
			})
		}
		prefs[i] = edges
	}

	return types.NewSnapshot(m.generation, now, participants, resources, prefs)
}
