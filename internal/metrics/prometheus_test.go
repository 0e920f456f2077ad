package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/muenchnerfurs/roomshare/types"
)

func TestPrometheusCollector(t *testing.T) {
	t.Run("records counters and gauges", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := NewPrometheus(reg, "roomshare")

		c.RecordMutation("register", true)
		c.RecordMutation("register", true)
		c.RecordMutation("register", false)
		c.RecordGroupCount(4)
		c.RecordPendingParticipants(2)
		c.RecordGroupStateChange(types.GroupStable, types.GroupDirty)
		c.RecordResolveAttempt("delta", true)
		c.RecordSwapImprovements(3)
		c.RecordAllocationStalled(5)
		c.RecordStoreOperation("save", 0.01, true)
		c.RecordEventPublished("group.formed")
		c.RecordEventDropped("group.formed")

		require.Equal(t, 2.0, testutil.ToFloat64(c.mutations.WithLabelValues("register", "accepted")))
		require.Equal(t, 1.0, testutil.ToFloat64(c.mutations.WithLabelValues("register", "rejected")))
		require.Equal(t, 4.0, testutil.ToFloat64(c.groupCount))
		require.Equal(t, 2.0, testutil.ToFloat64(c.pendingParticipants))
		require.Equal(t, 1.0, testutil.ToFloat64(c.groupStateChanges.WithLabelValues("Stable", "Dirty")))
		require.Equal(t, 1.0, testutil.ToFloat64(c.resolveAttempts.WithLabelValues("delta", "accepted")))
		require.Equal(t, 3.0, testutil.ToFloat64(c.swapImprovements))
		require.Equal(t, 1.0, testutil.ToFloat64(c.stalled))
		require.Equal(t, 1.0, testutil.ToFloat64(c.storeOperations.WithLabelValues("save", "success")))
		require.Equal(t, 1.0, testutil.ToFloat64(c.eventsPublished.WithLabelValues("group.formed")))
		require.Equal(t, 1.0, testutil.ToFloat64(c.eventsDropped.WithLabelValues("group.formed")))
	})

	t.Run("defaults registry and namespace", func(t *testing.T) {
		c := NewPrometheus(nil, "")
		require.Equal(t, "roomshare", c.namespace)
	})

	t.Run("registration is lazy and idempotent", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := NewPrometheus(reg, "roomshare")

		// No metrics exist before the first observation.
		families, err := reg.Gather()
		require.NoError(t, err)
		require.Empty(t, families)

		require.NotPanics(t, func() {
			c.RecordGroupCount(1)
			c.RecordGroupCount(2)
		})

		families, err = reg.Gather()
		require.NoError(t, err)
		require.NotEmpty(t, families)
	})
}
