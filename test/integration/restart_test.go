//go:build integration
// +build integration

package integration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muenchnerfurs/roomshare"
	"github.com/muenchnerfurs/roomshare/allocator"
	"github.com/muenchnerfurs/roomshare/source"
	"github.com/muenchnerfurs/roomshare/store/sqlite"
	"github.com/muenchnerfurs/roomshare/test/testutil"
	sharetest "github.com/muenchnerfurs/roomshare/testing"
)

// TestTracker_RestartRestoresNamespace verifies that a tracker restarted on
// the same store continues exactly where the previous one stopped: same
// groups, same join codes, same version, and fresh sequence numbers for new
// groups.
func TestTracker_RestartRestoresNamespace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "restart.db")
	resources := []roomshare.Resource{
		{ID: "room-a", Capacity: 2},
		{ID: "room-b", Capacity: 3},
	}
	cfg := roomshare.TestConfig()
	cfg.Namespace = "restart"
	ctx := context.Background()

	participants := map[roomshare.ParticipantID]roomshare.Participant{
		"alice": {ID: "alice", Capacity: 1},
		"bob":   {ID: "bob", Capacity: 1, Preferences: []roomshare.ParticipantID{"alice"}},
		"carol": {ID: "carol", Capacity: 1},
	}

	var saved roomshare.Assignment
	{
		db, err := sqlite.Open(dbPath)
		require.NoError(t, err)

		trk, err := roomshare.NewTracker(&cfg, source.NewStatic(resources), allocator.NewGreedy(),
			roomshare.WithStore(db),
			roomshare.WithLogger(sharetest.NewTestLogger(t)),
		)
		require.NoError(t, err)
		require.NoError(t, trk.Start(ctx))

		for _, id := range []roomshare.ParticipantID{"alice", "bob", "carol"} {
			_, err := trk.RegisterParticipant(ctx, participants[id])
			require.NoError(t, err)
		}

		saved = trk.Assignment()
		testutil.AssertAssignmentConsistent(t, saved, resources, participants)

		require.NoError(t, trk.Stop(ctx))
		require.NoError(t, db.Close())
	}

	db, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// The restored tracker never consults the resource source.
	trk, err := roomshare.NewTracker(&cfg, source.NewStatic(nil), allocator.NewGreedy(),
		roomshare.WithStore(db),
	)
	require.NoError(t, err)
	require.NoError(t, trk.Start(ctx))
	defer trk.Stop(context.Background())

	restored := trk.Assignment()
	require.Equal(t, saved, restored)
	testutil.AssertAssignmentConsistent(t, restored, resources, participants)

	// New mutations continue the version and sequence streams.
	_, err = trk.RegisterParticipant(ctx, roomshare.Participant{ID: "dave", Capacity: 1})
	require.NoError(t, err)
	participants["dave"] = roomshare.Participant{ID: "dave", Capacity: 1}

	require.Equal(t, saved.Version+1, trk.Version())
	testutil.AssertAssignmentConsistent(t, trk.Assignment(), resources, participants)

	if g, ok := trk.GroupOf("dave"); ok {
		for _, prev := range saved.Groups {
			if prev.ID == g.ID {
				require.Contains(t, g.Members, roomshare.ParticipantID("dave"))
			}
		}
	}
}
