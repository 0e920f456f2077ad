package allocator

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/muenchnerfurs/roomshare/types"
)

// Shuffle implements deterministically seeded random packing.
//
// The engine ignores preference edges entirely: targets are shuffled with a
// PRNG seeded from the configured seed plus a digest of the target set, then
// packed into the lowest-id group or first free resource with room. Two
// runs over the same snapshot and problem produce the same proposal, which
// keeps randomized room assignment reproducible and auditable.
type Shuffle struct {
	seed uint64
}

var _ types.Allocator = (*Shuffle)(nil)

// NewShuffle creates a shuffle allocation engine.
//
// Parameters:
//   - seed: Seed mixed into the shuffle. The same seed, snapshot, and
//     problem always produce the same proposal.
//
// Returns:
//   - *Shuffle: Initialized engine
func NewShuffle(seed uint64) *Shuffle {
	return &Shuffle{seed: seed}
}

// Allocate packs the targets into groups in shuffled order.
func (s *Shuffle) Allocate(snap *types.Snapshot, prob types.Problem) (*types.Proposal, error) {
	targets, err := orderTargets(snap, prob)
	if err != nil {
		return nil, err
	}

	st := newWorkState(snap, prob.Current, prob.NextGroupSeq)

	// Stable base order, then a seeded Fisher-Yates shuffle. The digest
	// covers the target ids and generation so distinct inputs get distinct
	// but reproducible orders.
	slices.SortFunc(targets, func(a, b types.Participant) int {
		return cmp.Compare(a.ID, b.ID)
	})

	var sb strings.Builder
	for _, p := range targets {
		sb.WriteString(string(p.ID))
		sb.WriteByte(0)
	}
	digest := xxh3.HashString(sb.String()) ^ uint64(snap.Generation) //nolint:gosec // G115: mixing, not converting

	rng := rand.New(rand.NewPCG(s.seed, digest))
	rng.Shuffle(len(targets), func(i, j int) {
		targets[i], targets[j] = targets[j], targets[i]
	})

	var unplaced []types.Unplaced
	for _, p := range targets {
		if err := st.placeAnywhere(p); err != nil {
			unplaced = append(unplaced, types.Unplaced{Participant: p.ID, Reason: err})
		}
	}

	return st.proposal(unplaced, 0), nil
}
