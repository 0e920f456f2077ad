package allocator

import (
	"cmp"
	"slices"

	"github.com/muenchnerfurs/roomshare/types"
)

// DefaultSwapPasses is the default bound on swap-improvement passes.
const DefaultSwapPasses = 3

// Greedy implements greedy placement with bounded pairwise swap
// improvement.
//
// The engine maximizes aggregate mutual-preference satisfaction
// heuristically; it does not guarantee a globally optimal or stable
// matching. All tie-breaks are deterministic (lowest id wins) so identical
// inputs produce identical proposals.
type Greedy struct {
	passes int
}

var _ types.Allocator = (*Greedy)(nil)

// GreedyOption configures a Greedy engine.
type GreedyOption func(*Greedy)

// WithSwapPasses bounds the swap-improvement phase to k passes.
//
// Parameters:
//   - k: Maximum improvement passes (values < 1 are ignored)
//
// Returns:
//   - GreedyOption: Functional option for NewGreedy
func WithSwapPasses(k int) GreedyOption {
	return func(g *Greedy) {
		if k >= 1 {
			g.passes = k
		}
	}
}

// NewGreedy creates a greedy allocation engine.
//
// The algorithm:
//  1. Sort targets by descending preference-list length, then earliest
//     registration, then lowest id.
//  2. For each target, join the highest-ranked compatible group with
//     remaining capacity; if no group can host, open a new group on the
//     first eligible resource with free capacity.
//  3. Run bounded pairwise swap improvement: two members of different
//     groups exchange places when both individually improve their realized
//     preference rank, across at most the configured number of passes.
//
// Returns:
//   - *Greedy: Initialized engine with default swap bound
//
// Example:
//
//	engine := allocator.NewGreedy(allocator.WithSwapPasses(5))
//	tracker, err := roomshare.NewTracker(&cfg, src, engine)
func NewGreedy(opts ...GreedyOption) *Greedy {
	g := &Greedy{passes: DefaultSwapPasses}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Allocate computes a proposed assignment for the problem.
//
// Unplaceable targets are reported in Proposal.Unplaced with ErrInfeasible
// (no remaining capacity anywhere) or ErrInvalidConstraint (eligibility
// rejects every candidate); they never fail the run.
func (g *Greedy) Allocate(snap *types.Snapshot, prob types.Problem) (*types.Proposal, error) {
	targets, err := orderTargets(snap, prob)
	if err != nil {
		return nil, err
	}

	st := newWorkState(snap, prob.Current, prob.NextGroupSeq)

	// Longest preference lists first; earlier registration, then lowest id
	// break ties.
	slices.SortFunc(targets, func(a, b types.Participant) int {
		if c := cmp.Compare(len(b.Preferences), len(a.Preferences)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.RegisteredSeq, b.RegisteredSeq); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	var unplaced []types.Unplaced
	for _, p := range targets {
		if err := g.place(st, p); err != nil {
			unplaced = append(unplaced, types.Unplaced{Participant: p.ID, Reason: err})
		}
	}

	swaps := g.improve(st)

	return st.proposal(unplaced, swaps), nil
}

// place joins the highest-ranked compatible group, or opens a new one.
func (g *Greedy) place(st *workState, p types.Participant) error {
	var best *workGroup
	bestRank := unrankedPref
	for _, wg := range st.groups {
		r, ok := st.snap.Resource(wg.group.Resource)
		if !ok || !types.Compatible(p.RequiredTags, r.Tags) {
			continue
		}
		if st.remaining(wg) < p.Capacity {
			continue
		}
		rank := realizedRank(p, wg.group.Members)
		if best == nil || rank < bestRank {
			best, bestRank = wg, rank
		}
	}

	if best != nil && bestRank < unrankedPref {
		st.join(best, p)
		return nil
	}

	// No preferred group can host: prefer opening a fresh group, fall back
	// to any group with room.
	if err := st.openFirstEligible(p); err == nil {
		return nil
	}
	if best != nil {
		st.join(best, p)
		return nil
	}

	return st.openFirstEligible(p)
}

// improve runs bounded pairwise swap improvement over the whole state.
//
// A swap applies only when both participants strictly improve their
// realized preference rank and both groups stay within capacity and
// eligibility. Iteration order is sorted by participant id so results are
// reproducible.
func (g *Greedy) improve(st *workState) int {
	members := make([]types.ParticipantID, 0, len(st.memberOf))
	for id := range st.memberOf {
		members = append(members, id)
	}
	slices.Sort(members)

	swaps := 0
	for pass := 0; pass < g.passes; pass++ {
		improved := false
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if g.trySwap(st, members[i], members[j]) {
					swaps++
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	return swaps
}

// trySwap exchanges a and b between their groups when both improve.
func (g *Greedy) trySwap(st *workState, aID, bID types.ParticipantID) bool {
	ga, gb := st.memberOf[aID], st.memberOf[bID]
	if ga == nil || gb == nil || ga == gb {
		return false
	}

	a, okA := st.snap.Participant(aID)
	b, okB := st.snap.Participant(bID)
	if !okA || !okB {
		return false
	}
	// Seats held past the deadline are pinned, never traded.
	if !a.EligibleAt(st.snap.Now) || !b.EligibleAt(st.snap.Now) {
		return false
	}

	ra, okRA := st.snap.Resource(ga.group.Resource)
	rb, okRB := st.snap.Resource(gb.group.Resource)
	if !okRA || !okRB {
		return false
	}

	// Capacity and eligibility after the exchange.
	if ga.usage-a.Capacity+b.Capacity > ra.Capacity {
		return false
	}
	if gb.usage-b.Capacity+a.Capacity > rb.Capacity {
		return false
	}
	if !types.Compatible(a.RequiredTags, rb.Tags) || !types.Compatible(b.RequiredTags, ra.Tags) {
		return false
	}

	membersAWithoutA := without(ga.group.Members, aID)
	membersBWithoutB := without(gb.group.Members, bID)

	// Both must strictly improve their realized rank.
	if realizedRank(a, membersBWithoutB) >= realizedRank(a, ga.group.Members) {
		return false
	}
	if realizedRank(b, membersAWithoutA) >= realizedRank(b, gb.group.Members) {
		return false
	}

	ga.group.Members = append(membersAWithoutA, bID)
	gb.group.Members = append(membersBWithoutB, aID)
	ga.usage += b.Capacity - a.Capacity
	gb.usage += a.Capacity - b.Capacity
	st.memberOf[aID] = gb
	st.memberOf[bID] = ga

	return true
}

// without returns members minus the given id, as a fresh slice.
func without(members []types.ParticipantID, id types.ParticipantID) []types.ParticipantID {
	out := make([]types.ParticipantID, 0, len(members))
	for _, m := range members {
		if m != id {
			out = append(out, m)
		}
	}

	return out
}
