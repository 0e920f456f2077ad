package allocator

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/zeebo/xxh3"

	"github.com/muenchnerfurs/roomshare/types"
)

// unrankedPref is the realized preference rank of a participant whose group
// contains none of their preferred co-participants.
const unrankedPref = math.MaxInt

// workGroup is one group under construction, with cached usage.
type workGroup struct {
	group types.Group
	usage int
}

// workState is the mutable assignment both engines build proposals on.
//
// Exactly one live group occupies a resource at a time, so resource
// remaining capacity and group remaining capacity coincide.
type workState struct {
	snap     *types.Snapshot
	groups   []*workGroup // sorted by group id
	byID     map[types.GroupID]*workGroup
	occupied map[types.ResourceID]*workGroup
	memberOf map[types.ParticipantID]*workGroup
	seq      int64
}

// newWorkState seeds the state from the problem's current groups. Empty
// groups are dropped; member usage is computed from snapshot capacities.
func newWorkState(snap *types.Snapshot, current []types.Group, seq int64) *workState {
	st := &workState{
		snap:     snap,
		byID:     make(map[types.GroupID]*workGroup),
		occupied: make(map[types.ResourceID]*workGroup),
		memberOf: make(map[types.ParticipantID]*workGroup),
		seq:      seq,
	}

	for _, g := range current {
		if len(g.Members) == 0 {
			continue
		}
		wg := &workGroup{group: g.Clone()}
		for _, id := range g.Members {
			if p, ok := snap.Participant(id); ok {
				wg.usage += p.Capacity
				st.memberOf[id] = wg
			}
		}
		st.groups = append(st.groups, wg)
		st.byID[g.ID] = wg
		st.occupied[g.Resource] = wg
	}
	slices.SortFunc(st.groups, func(a, b *workGroup) int {
		return cmp.Compare(a.group.ID, b.group.ID)
	})

	return st
}

// remaining returns the free capacity of the group's resource.
func (st *workState) remaining(wg *workGroup) int {
	r, ok := st.snap.Resource(wg.group.Resource)
	if !ok {
		return 0
	}

	return r.Capacity - wg.usage
}

// join adds the participant to an existing group.
func (st *workState) join(wg *workGroup, p types.Participant) {
	wg.group.Members = append(wg.group.Members, p.ID)
	wg.usage += p.Capacity
	st.memberOf[p.ID] = wg
}

// open seeds a new group for the participant on the resource. The seeding
// participant becomes admin and the join code derives from the group and
// resource ids.
func (st *workState) open(r types.Resource, p types.Participant) *workGroup {
	id := types.GroupID(fmt.Sprintf("g%d", st.seq))
	st.seq++

	wg := &workGroup{
		group: types.Group{
			ID:       id,
			Resource: r.ID,
			Members:  []types.ParticipantID{p.ID},
			Admin:    p.ID,
			JoinCode: JoinCode(id, r.ID),
			State:    types.GroupStable,
		},
		usage: p.Capacity,
	}

	st.groups = append(st.groups, wg)
	st.byID[id] = wg
	st.occupied[r.ID] = wg
	st.memberOf[p.ID] = wg

	return wg
}

// placeAnywhere places the participant into the lowest-id group with room,
// or opens a group on the first free eligible resource. Preference edges
// are ignored; used by the Shuffle engine and as the Greedy fallback order.
func (st *workState) placeAnywhere(p types.Participant) error {
	for _, wg := range st.groups {
		r, ok := st.snap.Resource(wg.group.Resource)
		if !ok {
			continue
		}
		if !types.Compatible(p.RequiredTags, r.Tags) {
			continue
		}
		if st.remaining(wg) >= p.Capacity {
			st.join(wg, p)
			return nil
		}
	}

	return st.openFirstEligible(p)
}

// openFirstEligible opens a new group on the first unoccupied eligible
// resource with enough capacity, in resource id order.
func (st *workState) openFirstEligible(p types.Participant) error {
	hadCapacity := false
	for _, r := range st.snap.Resources {
		free := r.Capacity
		if wg, taken := st.occupied[r.ID]; taken {
			free = r.Capacity - wg.usage
		}
		if free >= p.Capacity {
			hadCapacity = true
		}
		if _, taken := st.occupied[r.ID]; taken {
			continue
		}
		if !types.Compatible(p.RequiredTags, r.Tags) {
			continue
		}
		if r.Capacity >= p.Capacity {
			st.open(r, p)
			return nil
		}
	}

	if !hadCapacity {
		return types.ErrInfeasible
	}

	return types.ErrInvalidConstraint
}

// realizedRank returns the best preference rank the participant realizes
// in the given member set, ignoring self. unrankedPref when the set
// contains no preferred co-participant.
func realizedRank(p types.Participant, members []types.ParticipantID) int {
	best := unrankedPref
	for _, m := range members {
		if m == p.ID {
			continue
		}
		if rank, ok := p.PrefRank(m); ok && rank < best {
			best = rank
		}
	}

	return best
}

// proposal freezes the work state into a complete proposal. Groups and
// member lists are sorted so identical inputs marshal identically.
func (st *workState) proposal(unplaced []types.Unplaced, swaps int) *types.Proposal {
	groups := make([]types.Group, 0, len(st.groups))
	for _, wg := range st.groups {
		g := wg.group.Clone()
		slices.Sort(g.Members)
		if g.Admin == "" || !g.HasMember(g.Admin) {
			g.Admin = g.Members[0] // members are sorted, lowest id wins
		}
		g.State = types.GroupStable
		groups = append(groups, g)
	}
	slices.SortFunc(groups, func(a, b types.Group) int {
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortFunc(unplaced, func(a, b types.Unplaced) int {
		return cmp.Compare(a.Participant, b.Participant)
	})

	return &types.Proposal{
		Generation:       st.snap.Generation,
		Groups:           groups,
		Unplaced:         unplaced,
		NextGroupSeq:     st.seq,
		SwapImprovements: swaps,
	}
}

// orderTargets resolves and filters the problem targets: unknown ids fail
// the problem, participants past their deadline or already seated in
// Problem.Current are skipped.
func orderTargets(snap *types.Snapshot, prob types.Problem) ([]types.Participant, error) {
	seated := make(map[types.ParticipantID]struct{})
	for _, g := range prob.Current {
		for _, m := range g.Members {
			seated[m] = struct{}{}
		}
	}

	var targets []types.Participant
	if prob.Full {
		targets = slices.Clone(snap.Participants)
	} else {
		targets = make([]types.Participant, 0, len(prob.Targets))
		for _, id := range prob.Targets {
			p, ok := snap.Participant(id)
			if !ok {
				return nil, fmt.Errorf("target participant %s: %w", id, types.ErrNotFound)
			}
			targets = append(targets, p)
		}
	}

	eligible := targets[:0]
	for _, p := range targets {
		if _, ok := seated[p.ID]; ok {
			continue
		}
		if p.EligibleAt(snap.Now) {
			eligible = append(eligible, p)
		}
	}

	return eligible, nil
}

// JoinCode derives the deterministic join code of a group from its id and
// resource. Participants use the code to join the specific group
// explicitly.
func JoinCode(g types.GroupID, r types.ResourceID) string {
	sum := xxh3.HashString(string(g) + "/" + string(r))
	return fmt.Sprintf("%08x", uint32(sum>>32)^uint32(sum)) //nolint:gosec // G115: fold, not truncate
}
