package types

// Problem describes one allocation request handed to an Allocator.
//
// The consistency tracker scopes the problem: a localized delta re-solve
// passes the current groups minus the dirty participants, while a full
// re-run strips every re-placeable participant and keeps only pinned
// placements in Current.
type Problem struct {
	// Current is the set of live groups the allocator may extend. The
	// targets have already been removed from their groups; groups emptied
	// by that removal are not included. Members still seated here are
	// pinned: the allocator never re-places them.
	Current []Group

	// Targets lists the participants to (re)place, in no particular order.
	// Ignored when Full is set.
	Targets []ParticipantID

	// Full requests a complete re-run: every eligible participant in the
	// snapshot not pinned in Current is re-placed from scratch.
	Full bool

	// NextGroupSeq is the first sequence number to use for new group ids.
	// Sequence-derived ids keep results reproducible for identical input.
	NextGroupSeq int64
}

// Unplaced records a participant the allocator could not place, with the
// reason (ErrInfeasible or ErrInvalidConstraint).
type Unplaced struct {
	Participant ParticipantID `json:"participant"`
	Reason      error         `json:"-"`
}

// Proposal is the allocation engine's proposed assignment.
//
// Proposals are complete: Groups contains every group that should exist
// after the mutation, including untouched ones carried over from
// Problem.Current. The allocation engine never mutates tracker state
// directly; the consistency tracker applies a proposal only after the
// conflict resolver accepts it.
type Proposal struct {
	// Generation is the snapshot generation the proposal was computed
	// against.
	Generation int64

	// Groups is the complete proposed group set, sorted by id.
	Groups []Group

	// Unplaced lists participants that could not be placed, with reasons.
	Unplaced []Unplaced

	// NextGroupSeq is the sequence value after all new groups were named.
	NextGroupSeq int64

	// SwapImprovements counts the improving pairwise swaps applied.
	SwapImprovements int
}

// Allocator computes group assignments from a constraint snapshot.
//
// The consistency tracker invokes the allocator for localized delta
// problems and for full re-runs. Implementations must be:
//   - deterministic (same snapshot and problem → same proposal; ties break
//     toward the lowest participant id)
//   - stateless (no side effects, safe for concurrent use)
//   - total (unplaceable participants are reported in Unplaced, never by
//     failing the run)
type Allocator interface {
	// Allocate computes a proposed assignment for the problem.
	//
	// Parameters:
	//   - snap: Read-only constraint snapshot
	//   - prob: Problem scope (delta targets or full re-run)
	//
	// Returns:
	//   - *Proposal: Complete proposed group set plus unplaced participants
	//   - error: Only for malformed problems (unknown target ids); never
	//     for unplaceable participants
	Allocate(snap *Snapshot, prob Problem) (*Proposal, error)
}
