package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muenchnerfurs/roomshare/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnGroupFormed)
	require.NotNil(t, hooks.OnGroupDissolved)
	require.NotNil(t, hooks.OnParticipantPending)
	require.NotNil(t, hooks.OnAllocationStalled)
	require.NotNil(t, hooks.OnAssignmentChanged)
	require.NotNil(t, hooks.OnError)
}

func TestNopHooks_OnGroupFormed(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	group := types.Group{
		ID:       "g1",
		Resource: "room-a",
		Members:  []types.ParticipantID{"p1", "p2"},
		Admin:    "p1",
	}

	err := hooks.OnGroupFormed(ctx, group)
	require.NoError(t, err)
}

func TestNopHooks_OnAssignmentChanged(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	delta := types.Delta{
		Version: 7,
		Placements: []types.Placement{
			{Participant: "p1", Group: "g1", Resource: "room-a", Status: types.StatusAssigned},
			{Participant: "p2", Status: types.StatusPending},
		},
	}

	err := hooks.OnAssignmentChanged(ctx, delta)
	require.NoError(t, err)
}

func TestNopHooks_OnError(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	testErr := context.Canceled
	err := hooks.OnError(ctx, testErr)
	require.NoError(t, err)
}
