// Package resolve verifies allocation proposals against the constraint
// snapshot they were computed from.
//
// The resolver is the acceptance gate between the allocation engine and the
// consistency tracker: a proposal is committed only after every invariant
// check passes against a fresh snapshot. A proposal computed from an older
// snapshot generation is rejected as stale so the tracker can re-run the
// engine on current data.
package resolve

import (
	"errors"
	"fmt"

	"github.com/muenchnerfurs/roomshare/types"
)

// Verification errors.
var (
	// ErrStale is returned when the proposal was computed from an older
	// snapshot generation. The caller should refresh the snapshot and
	// re-run the allocation engine.
	ErrStale = errors.New("proposal generation does not match snapshot")

	// ErrRejected is returned when the proposal violates a placement
	// invariant. The wrapped message names the violated check.
	ErrRejected = errors.New("proposal rejected")
)

// Resolver validates proposals before they are committed.
type Resolver struct{}

// New creates a resolver.
func New() *Resolver {
	return &Resolver{}
}

// Verify checks the proposal against the snapshot.
//
// The checks, in order:
//   - the proposal generation matches the snapshot generation
//   - group ids are unique and every group has at least one member
//   - at most one group occupies each resource
//   - all members and resources exist in the snapshot
//   - no participant appears in more than one group
//   - member capacity demands sum within each resource's capacity
//   - every member's required tags are offered by the group's resource
//   - the group admin is a member of the group
//
// Parameters:
//   - snap: The current constraint snapshot
//   - prop: The proposal to verify
//
// Returns:
//   - error: nil if the proposal is acceptable, ErrStale if it was computed
//     from an older generation, ErrRejected (wrapped with the violated
//     check) otherwise
func (r *Resolver) Verify(snap *types.Snapshot, prop *types.Proposal) error {
	if prop.Generation != snap.Generation {
		return fmt.Errorf("%w: proposal %d, snapshot %d", ErrStale, prop.Generation, snap.Generation)
	}

	seenGroup := make(map[types.GroupID]struct{}, len(prop.Groups))
	seenResource := make(map[types.ResourceID]types.GroupID, len(prop.Groups))
	memberOf := make(map[types.ParticipantID]types.GroupID)

	for _, g := range prop.Groups {
		if _, dup := seenGroup[g.ID]; dup {
			return fmt.Errorf("%w: duplicate group id %s", ErrRejected, g.ID)
		}
		seenGroup[g.ID] = struct{}{}

		if len(g.Members) == 0 {
			return fmt.Errorf("%w: group %s has no members", ErrRejected, g.ID)
		}

		res, ok := snap.Resource(g.Resource)
		if !ok {
			return fmt.Errorf("%w: group %s references unknown resource %s", ErrRejected, g.ID, g.Resource)
		}
		if prev, taken := seenResource[res.ID]; taken {
			return fmt.Errorf("%w: resource %s held by groups %s and %s", ErrRejected, res.ID, prev, g.ID)
		}
		seenResource[res.ID] = g.ID

		usage := 0
		for _, m := range g.Members {
			p, ok := snap.Participant(m)
			if !ok {
				return fmt.Errorf("%w: group %s contains unknown participant %s", ErrRejected, g.ID, m)
			}
			if prev, dup := memberOf[m]; dup {
				return fmt.Errorf("%w: participant %s in groups %s and %s", ErrRejected, m, prev, g.ID)
			}
			memberOf[m] = g.ID

			if !types.Compatible(p.RequiredTags, res.Tags) {
				return fmt.Errorf("%w: participant %s requires tags resource %s does not offer", ErrRejected, m, res.ID)
			}
			usage += p.Capacity
		}

		if usage > res.Capacity {
			return fmt.Errorf("%w: group %s demands %d on resource %s with capacity %d",
				ErrRejected, g.ID, usage, res.ID, res.Capacity)
		}

		if !g.HasMember(g.Admin) {
			return fmt.Errorf("%w: admin %s is not a member of group %s", ErrRejected, g.Admin, g.ID)
		}
	}

	return nil
}
