// Package allocator implements the allocation engines that turn constraint
// snapshots into proposed group assignments.
//
// Two engines are provided:
//   - Greedy: preference-driven placement with bounded pairwise swap
//     improvement. This is the default engine for preference matching.
//   - Shuffle: deterministically seeded random packing, used to randomize
//     attendees without preferences into rooms.
//
// Engine implementations must be deterministic and stateless; see the
// types.Allocator contract. Neither engine guarantees a globally optimal
// matching: results are deterministic, fair, and constraint-satisfying,
// computed within bounded time.
package allocator
