// Package constraint implements the constraint model: the typed eligibility
// graph between participants and resources.
//
// The model maintains a bipartite-plus-preference graph. Participants are
// connected to candidate resources through the closed tag set (filtered by
// compatibility and capacity at allocation time), and to each other through
// directed, weighted preference edges. Edges are resolved to indices in
// read-only snapshots rather than object references, so traversal never
// follows ownership cycles.
//
// The model has no side effects beyond its internal graph state. All
// queries return copies, and Snapshot produces the immutable view consumed
// by the allocation engine and the conflict resolver.
package constraint
