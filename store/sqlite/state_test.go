package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muenchnerfurs/roomshare/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func sampleState(namespace string) *types.PersistedState {
	deadline := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	return &types.PersistedState{
		Namespace:      namespace,
		Version:        12,
		GroupSeq:       4,
		ParticipantSeq: 5,
		Participants: []types.Participant{
			{
				ID:            "p1",
				Preferences:   []types.ParticipantID{"p2", "p3"},
				Capacity:      1,
				RegisteredSeq: 1,
				Status:        types.StatusAssigned,
			},
			{
				ID:            "p2",
				Capacity:      2,
				RequiredTags:  []types.Tag{types.TagAccessible},
				Deadline:      deadline,
				RegisteredSeq: 2,
				Status:        types.StatusAssigned,
			},
			{
				ID:            "p3",
				Capacity:      1,
				RegisteredSeq: 3,
				Status:        types.StatusPending,
			},
		},
		Resources: []types.Resource{
			{ID: "room-101", Capacity: 2},
			{ID: "room-102", Capacity: 4, Tags: []types.Tag{types.TagAccessible}, Overcommitted: true},
		},
		Groups: []types.Group{
			{
				ID:       "g1",
				Resource: "room-101",
				Members:  []types.ParticipantID{"p1"},
				Admin:    "p1",
				JoinCode: "23ab9cf0",
				State:    types.GroupStable,
			},
			{
				ID:       "g2",
				Resource: "room-102",
				Members:  []types.ParticipantID{"p2"},
				Admin:    "p2",
				JoinCode: "7d01e4aa",
				State:    types.GroupDirty,
			},
		},
	}
}

func TestDB_SaveLoadState(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		db := openTestDB(t)
		want := sampleState("con-2026")

		require.NoError(t, db.SaveState(ctx, want))

		got, err := db.LoadState(ctx, "con-2026")
		require.NoError(t, err)
		require.Equal(t, want.Version, got.Version)
		require.Equal(t, want.GroupSeq, got.GroupSeq)
		require.Equal(t, want.ParticipantSeq, got.ParticipantSeq)
		require.Equal(t, want.Participants, got.Participants)
		require.Equal(t, want.Resources, got.Resources)
		require.Equal(t, want.Groups, got.Groups)
	})

	t.Run("missing namespace returns ErrNotFound", func(t *testing.T) {
		db := openTestDB(t)

		_, err := db.LoadState(ctx, "nope")
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("save replaces previous state", func(t *testing.T) {
		db := openTestDB(t)
		state := sampleState("con-2026")
		require.NoError(t, db.SaveState(ctx, state))

		state.Version = 13
		state.Participants = state.Participants[:1]
		state.Groups = []types.Group{state.Groups[0]}
		require.NoError(t, db.SaveState(ctx, state))

		got, err := db.LoadState(ctx, "con-2026")
		require.NoError(t, err)
		require.Equal(t, int64(13), got.Version)
		require.Len(t, got.Participants, 1)
		require.Len(t, got.Groups, 1)
	})

	t.Run("namespaces are independent", func(t *testing.T) {
		db := openTestDB(t)
		a := sampleState("con-a")
		b := sampleState("con-b")
		b.Version = 99

		require.NoError(t, db.SaveState(ctx, a))
		require.NoError(t, db.SaveState(ctx, b))

		gotA, err := db.LoadState(ctx, "con-a")
		require.NoError(t, err)
		gotB, err := db.LoadState(ctx, "con-b")
		require.NoError(t, err)

		require.Equal(t, int64(12), gotA.Version)
		require.Equal(t, int64(99), gotB.Version)
	})

	t.Run("member order is preserved", func(t *testing.T) {
		db := openTestDB(t)
		state := sampleState("con-2026")
		state.Groups[0].Members = []types.ParticipantID{"p1", "p3"}
		require.NoError(t, db.SaveState(ctx, state))

		got, err := db.LoadState(ctx, "con-2026")
		require.NoError(t, err)
		require.Equal(t, []types.ParticipantID{"p1", "p3"}, got.Groups[0].Members)
	})
}
