//go:build integration
// +build integration

package integration_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muenchnerfurs/roomshare"
	"github.com/muenchnerfurs/roomshare/allocator"
	"github.com/muenchnerfurs/roomshare/internal/logging"
	"github.com/muenchnerfurs/roomshare/source"
	"github.com/muenchnerfurs/roomshare/store/sqlite"
	"github.com/muenchnerfurs/roomshare/test/testutil"
	sharetest "github.com/muenchnerfurs/roomshare/testing"
	"github.com/muenchnerfurs/roomshare/types"
)

// TestTracker_Lifecycle runs a full registration, churn, and group
// management cycle against persistence and event publishing, verifying the
// assignment invariants after every accepted mutation.
func TestTracker_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	_, conn := sharetest.StartEmbeddedNATS(t)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "lifecycle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	resources := []roomshare.Resource{
		{ID: "room-a", Capacity: 2},
		{ID: "room-b", Capacity: 4},
		{ID: "room-c", Capacity: 2, Tags: []roomshare.Tag{roomshare.TagAccessible}},
	}

	cfg := roomshare.TestConfig()
	cfg.Namespace = "integration"

	trk, err := roomshare.NewTracker(&cfg, source.NewStatic(resources), allocator.NewGreedy(),
		roomshare.WithStore(db),
		roomshare.WithEventConn(conn),
		roomshare.WithLogger(logging.NewSlogDefault()),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, trk.Start(ctx))
	defer trk.Stop(context.Background())

	formed, err := conn.SubscribeSync("roomshare.integration.group.formed")
	require.NoError(t, err)

	participants := map[roomshare.ParticipantID]roomshare.Participant{}
	verify := func() {
		t.Helper()
		testutil.AssertAssignmentConsistent(t, trk.Assignment(), resources, participants)
	}

	register := func(p roomshare.Participant) roomshare.Result {
		t.Helper()
		if p.Capacity == 0 {
			p.Capacity = 1
		}
		result, err := trk.RegisterParticipant(ctx, p)
		require.NoError(t, err)
		participants[p.ID] = p
		verify()

		return result
	}

	// Registration wave.
	register(roomshare.Participant{ID: "alice"})
	register(roomshare.Participant{ID: "bob", Preferences: []roomshare.ParticipantID{"alice"}})
	register(roomshare.Participant{ID: "carol", Preferences: []roomshare.ParticipantID{"alice", "bob"}})
	register(roomshare.Participant{ID: "dave", Capacity: 2})
	erinResult := register(roomshare.Participant{ID: "erin", RequiredTags: []roomshare.Tag{roomshare.TagAccessible}})
	register(roomshare.Participant{ID: "frank"})

	// Alice and bob share room-a by mutual preference.
	gAlice, ok := trk.GroupOf("alice")
	require.True(t, ok)
	require.True(t, gAlice.HasMember("bob"))
	require.Equal(t, roomshare.ResourceID("room-a"), gAlice.Resource)

	// Dave took the only accessible room, so erin is reported unplaceable
	// but nothing else is disturbed.
	require.Len(t, erinResult.Unplaced, 1)
	require.ErrorIs(t, erinResult.Unplaced[0].Reason, types.ErrInvalidConstraint)
	require.Contains(t, trk.Assignment().Unassigned, roomshare.ParticipantID("erin"))

	// Capacity churn: growing room-c and dave keeps everything consistent.
	_, err = trk.UpdateResourceCapacity(ctx, "room-c", 4)
	require.NoError(t, err)
	verify()

	_, err = trk.UpdateParticipantCapacity(ctx, "dave", 4)
	require.NoError(t, err)
	p := participants["dave"]
	p.Capacity = 4
	participants["dave"] = p
	verify()

	_, err = trk.UpdateParticipantCapacity(ctx, "dave", 1)
	require.NoError(t, err)
	p.Capacity = 1
	participants["dave"] = p
	verify()

	// Withdrawing dave frees the accessible room; erin is re-placed once a
	// mutation of hers runs.
	_, err = trk.WithdrawParticipant(ctx, "dave")
	require.NoError(t, err)
	delete(participants, "dave")
	verify()

	_, err = trk.UpdatePreferences(ctx, "erin", []roomshare.ParticipantID{"alice"})
	require.NoError(t, err)
	verify()

	gErin, ok := trk.GroupOf("erin")
	require.True(t, ok)
	require.Equal(t, roomshare.ResourceID("room-c"), gErin.Resource)

	// Group management: frank leaves his allocation and joins alice's group
	// explicitly after bob withdraws.
	_, err = trk.WithdrawParticipant(ctx, "bob")
	require.NoError(t, err)
	delete(participants, "bob")
	verify()

	_, err = trk.LeaveGroup(ctx, "frank")
	require.NoError(t, err)
	verify()

	gAlice, ok = trk.GroupOf("alice")
	require.True(t, ok)
	_, err = trk.JoinGroup(ctx, "frank", gAlice.ID, gAlice.JoinCode)
	require.NoError(t, err)
	verify()

	gFrank, ok := trk.GroupOf("frank")
	require.True(t, ok)
	require.Equal(t, gAlice.ID, gFrank.ID)

	// Every accepted mutation bumped the version exactly once.
	require.Equal(t, int64(14), trk.Version())

	// At least the initial group formations reached the event subject.
	seen := 0
	for {
		if _, err := formed.NextMsg(500 * time.Millisecond); err != nil {
			break
		}
		seen++
	}
	require.GreaterOrEqual(t, seen, 3)
}
