// Package roomshare provides a Go library for preference-aware allocation of
// participants into groups sharing capacity-bounded resources.
//
// Roomshare keeps a continuously consistent participant-to-resource mapping
// while registrations, withdrawals, preference edits, and capacity changes
// arrive incrementally. It provides deterministic greedy allocation with
// pairwise swap improvement, verified proposals, and localized re-solving
// that leaves unrelated groups untouched.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/muenchnerfurs/roomshare"
//	    "github.com/muenchnerfurs/roomshare/allocator"
//	    "github.com/muenchnerfurs/roomshare/source"
//	)
//
//	cfg := roomshare.Config{
//	    Namespace: "con-2026",
//	}
//
//	src := source.NewStatic(rooms)
//	trk, err := roomshare.NewTracker(&cfg, src, allocator.NewGreedy())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := trk.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer trk.Stop(context.Background())
//
//	result, err := trk.RegisterParticipant(ctx, roomshare.Participant{ID: "alice"})
//
// # Key Features
//
//   - Deterministic Allocation: Same inputs produce the same assignment;
//     ties break toward the lowest participant id
//   - Mutual Preference Ranking: Groups form around reciprocal preferences,
//     with bounded pairwise swaps improving realized ranks
//   - Localized Re-Solving: Mutations re-place only dirty groups and
//     pending participants; stable groups are never touched
//   - Verified Proposals: Every engine proposal passes an invariant check
//     before becoming visible, with stale proposals retried
//   - Join Codes: Participants can join a specific group directly with its
//     derived join code, bypassing preferences but never invariants
//   - Persistence and Events: Optional SQLite-backed state and NATS event
//     publishing for group formation, dissolution, and stalls
//
// # Architecture
//
// Groups progress through a state machine:
//
//	STABLE → DIRTY → RESOLVING → STABLE (or DISSOLVED)
//
// A mutation marks affected groups dirty, the allocation engine computes a
// proposal against an immutable constraint snapshot, and the conflict
// resolver verifies it before the tracker commits. When the retry budget is
// exhausted the affected participants are flagged pending and the last
// known-valid assignment stays in place.
//
// # Advanced Usage
//
// Persistence, events, and hooks:
//
//	db, err := sqlite.Open("roomshare.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	hooks := &roomshare.Hooks{
//	    OnGroupFormed: func(ctx context.Context, g roomshare.Group) error {
//	        return notifyHost(ctx, g)
//	    },
//	}
//
//	trk, err := roomshare.NewTracker(&cfg, src, allocator.NewGreedy(),
//	    roomshare.WithStore(db),
//	    roomshare.WithEventConn(natsConn),
//	    roomshare.WithHooks(hooks),
//	    roomshare.WithMetrics(myPrometheusCollector),
//	)
//
// See the examples/ directory for complete working examples.
package roomshare
