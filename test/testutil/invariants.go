package testutil

import (
	"testing"

	"github.com/muenchnerfurs/roomshare/types"
)

// AssertAssignmentConsistent verifies the structural invariants of an
// assignment: at most one group per resource, no participant in more than
// one group, group usage within resource capacity, members compatible with
// the resource tags, and the admin a member of their group.
//
// Parameters:
//   - t: testing handle
//   - a: assignment under test
//   - resources: the resource catalog the assignment was computed against
//   - participants: every registered participant, keyed by id
func AssertAssignmentConsistent(t *testing.T, a types.Assignment, resources []types.Resource, participants map[types.ParticipantID]types.Participant) {
	t.Helper()

	byResource := make(map[types.ResourceID]types.Resource, len(resources))
	for _, r := range resources {
		byResource[r.ID] = r
	}

	seenResource := make(map[types.ResourceID]types.GroupID)
	seenMember := make(map[types.ParticipantID]types.GroupID)
	for _, g := range a.Groups {
		if len(g.Members) == 0 {
			t.Fatalf("group %s is empty", g.ID)
		}
		if prev, taken := seenResource[g.Resource]; taken {
			t.Fatalf("resource %s occupied by both %s and %s", g.Resource, prev, g.ID)
		}
		seenResource[g.Resource] = g.ID

		r, known := byResource[g.Resource]
		if !known {
			t.Fatalf("group %s references unknown resource %s", g.ID, g.Resource)
		}
		if g.JoinCode == "" {
			t.Fatalf("group %s has no join code", g.ID)
		}
		if !g.HasMember(g.Admin) {
			t.Fatalf("group %s admin %s is not a member", g.ID, g.Admin)
		}

		usage := 0
		for _, m := range g.Members {
			if prev, dup := seenMember[m]; dup {
				t.Fatalf("participant %s in both %s and %s", m, prev, g.ID)
			}
			seenMember[m] = g.ID

			p, registered := participants[m]
			if !registered {
				t.Fatalf("group %s contains unregistered participant %s", g.ID, m)
			}
			usage += p.Capacity
			if !types.Compatible(p.RequiredTags, r.Tags) {
				t.Fatalf("participant %s requires tags %v but %s offers %v", m, p.RequiredTags, r.ID, r.Tags)
			}
		}
		if usage > r.Capacity {
			t.Fatalf("group %s usage %d exceeds %s capacity %d", g.ID, usage, r.ID, r.Capacity)
		}
	}

	for _, id := range a.Unassigned {
		if gid, placed := seenMember[id]; placed {
			t.Fatalf("participant %s reported unassigned but member of %s", id, gid)
		}
	}
	unassigned := make(map[types.ParticipantID]struct{}, len(a.Unassigned))
	for _, id := range a.Unassigned {
		unassigned[id] = struct{}{}
	}
	for _, id := range a.Pending {
		if _, ok := unassigned[id]; !ok {
			t.Fatalf("pending participant %s missing from unassigned list", id)
		}
	}
}
