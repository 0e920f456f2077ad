package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupState_String(t *testing.T) {
	require.Equal(t, "Stable", GroupStable.String())
	require.Equal(t, "Dirty", GroupDirty.String())
	require.Equal(t, "Resolving", GroupResolving.String())
	require.Equal(t, "Dissolved", GroupDissolved.String())
	require.Equal(t, "Unknown", GroupState(42).String())
}

func TestGroup_Clone(t *testing.T) {
	g := Group{
		ID:       "g1",
		Resource: "room-a",
		Members:  []ParticipantID{"p1", "p2"},
		Admin:    "p1",
	}

	c := g.Clone()
	c.Members[0] = "p9"

	require.Equal(t, ParticipantID("p1"), g.Members[0])
	require.True(t, g.HasMember("p2"))
	require.False(t, g.HasMember("p9"))
}

func TestParticipant_EligibleAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("zero deadline means always eligible", func(t *testing.T) {
		p := Participant{ID: "p1", Capacity: 1}
		require.True(t, p.EligibleAt(now))
	})

	t.Run("before deadline", func(t *testing.T) {
		p := Participant{ID: "p1", Capacity: 1, Deadline: now.Add(time.Hour)}
		require.True(t, p.EligibleAt(now))
	})

	t.Run("at or after deadline", func(t *testing.T) {
		p := Participant{ID: "p1", Capacity: 1, Deadline: now}
		require.False(t, p.EligibleAt(now))
	})
}

func TestParticipant_PrefRank(t *testing.T) {
	p := Participant{ID: "p1", Preferences: []ParticipantID{"p3", "p2"}}

	rank, ok := p.PrefRank("p3")
	require.True(t, ok)
	require.Equal(t, 0, rank)

	rank, ok = p.PrefRank("p2")
	require.True(t, ok)
	require.Equal(t, 1, rank)

	_, ok = p.PrefRank("p9")
	require.False(t, ok)
}

func TestAssignment_GroupOf(t *testing.T) {
	a := Assignment{
		Version: 3,
		Groups: []Group{
			{ID: "g1", Resource: "room-a", Members: []ParticipantID{"p1"}},
			{ID: "g2", Resource: "room-b", Members: []ParticipantID{"p2", "p3"}},
		},
		Unassigned: []ParticipantID{"p4"},
	}

	g, ok := a.GroupOf("p3")
	require.True(t, ok)
	require.Equal(t, GroupID("g2"), g.ID)

	_, ok = a.GroupOf("p4")
	require.False(t, ok)
}
