package allocator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muenchnerfurs/roomshare/constraint"
	"github.com/muenchnerfurs/roomshare/types"
)

func TestShuffle_Allocate(t *testing.T) {
	build := func(m *constraint.Model) {
		require.NoError(t, m.AddResource(types.Resource{ID: "room-a", Capacity: 2}))
		require.NoError(t, m.AddResource(types.Resource{ID: "room-b", Capacity: 3}))
		for _, id := range []types.ParticipantID{"p1", "p2", "p3", "p4", "p5"} {
			require.NoError(t, m.AddParticipant(types.Participant{ID: id, Capacity: 1}))
		}
		// Preferences must not influence a shuffle.
		mustSetPrefs(t, m, "p1", "p5")
		mustSetPrefs(t, m, "p5", "p1")
	}
	prob := types.Problem{Full: true, NextGroupSeq: 1}

	t.Run("same seed reproduces the proposal", func(t *testing.T) {
		prop1, err := NewShuffle(42).Allocate(snapshotOf(t, build), prob)
		require.NoError(t, err)
		prop2, err := NewShuffle(42).Allocate(snapshotOf(t, build), prob)
		require.NoError(t, err)

		require.Equal(t, prop1, prop2)
	})

	t.Run("packs everyone within capacity", func(t *testing.T) {
		prop, err := NewShuffle(7).Allocate(snapshotOf(t, build), prob)
		require.NoError(t, err)
		require.Empty(t, prop.Unplaced)

		placed := 0
		for _, g := range prop.Groups {
			r := resourceCapacity(t, g.Resource)
			require.LessOrEqual(t, len(g.Members), r)
			require.True(t, g.HasMember(g.Admin))
			require.NotEmpty(t, g.JoinCode)
			placed += len(g.Members)
		}
		require.Equal(t, 5, placed)
	})

	t.Run("reports infeasible overflow", func(t *testing.T) {
		snap := snapshotOf(t, func(m *constraint.Model) {
			require.NoError(t, m.AddResource(types.Resource{ID: "room-a", Capacity: 1}))
			require.NoError(t, m.AddParticipant(types.Participant{ID: "p1", Capacity: 1}))
			require.NoError(t, m.AddParticipant(types.Participant{ID: "p2", Capacity: 1}))
		})

		prop, err := NewShuffle(7).Allocate(snap, prob)
		require.NoError(t, err)
		require.Len(t, prop.Unplaced, 1)
		require.ErrorIs(t, prop.Unplaced[0].Reason, types.ErrInfeasible)
	})
}

func resourceCapacity(t *testing.T, id types.ResourceID) int {
	t.Helper()

	switch id {
	case "room-a":
		return 2
	case "room-b":
		return 3
	}
	t.Fatalf("unexpected resource %s", id)

	return 0
}
