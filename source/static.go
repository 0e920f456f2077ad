package source

import (
	"context"
	"sync"

	"github.com/muenchnerfurs/roomshare/types"
)

// Static serves a resource catalog held in memory.
//
// Most deployments know their room or table inventory when the event is
// configured, so the tracker only consults the source once on Start to seed
// the constraint model; later capacity changes go through
// Tracker.UpdateResourceCapacity. Update exists for hosts that rebuild the
// catalog between tracker generations and for tests.
type Static struct {
	mu        sync.RWMutex
	resources []types.Resource
}

var _ types.ResourceSource = (*Static)(nil)

// NewStatic creates a source over a fixed catalog.
//
// Parameters:
//   - resources: The catalog to serve; the slice is not copied, callers
//     hand over ownership
//
// Returns:
//   - *Static: Initialized source
//
// Example:
//
//	src := source.NewStatic([]types.Resource{
//	    {ID: "room-101", Capacity: 2},
//	    {ID: "room-102", Capacity: 4, Tags: []types.Tag{types.TagAccessible}},
//	})
//	trk, err := roomshare.NewTracker(&cfg, src, allocator.NewGreedy())
//	if err != nil { /* handle */ }
func NewStatic(resources []types.Resource) *Static {
	return &Static{
		resources: resources,
	}
}

// ListResources returns a copy of the catalog.
func (s *Static) ListResources(_ context.Context) ([]types.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Resource, len(s.resources))
	copy(result, s.resources)

	return result, nil
}

// Update replaces the catalog.
//
// A started tracker does not observe the change; it takes effect the next
// time a tracker seeds from this source.
func (s *Static) Update(resources []types.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resources = make([]types.Resource, len(resources))
	copy(s.resources, resources)
}
