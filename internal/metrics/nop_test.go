package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muenchnerfurs/roomshare/types"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_RecordMutation(t *testing.T) {
	metrics := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		metrics.RecordMutation("register", true)
		metrics.RecordMutation("withdraw", false)
		metrics.RecordMutation("", true)
	})
}

func TestNopMetrics_RecordResolveAttempt(t *testing.T) {
	metrics := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		metrics.RecordResolveAttempt("delta", true)
		metrics.RecordResolveAttempt("full", false)
		metrics.RecordResolveAttempt("", false)
	})
}

func TestNopMetrics_RecordGroupStateChange(t *testing.T) {
	metrics := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		metrics.RecordGroupStateChange(types.GroupStable, types.GroupDirty)
		metrics.RecordGroupStateChange(0, 0)
		metrics.RecordGroupStateChange(types.GroupState(999), types.GroupState(1000))
	})
}

func TestNopMetrics_RecordStoreOperation(t *testing.T) {
	metrics := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		metrics.RecordStoreOperation("save", 0.5, true)
		metrics.RecordStoreOperation("load", 0, false)
		metrics.RecordStoreOperation("", -1, true)
	})
}

func BenchmarkNopMetrics_RecordMutation(b *testing.B) {
	metrics := NewNop()
	for b.Loop() {
		metrics.RecordMutation("register", true)
	}
}

func BenchmarkNopMetrics_RecordResolveAttempt(b *testing.B) {
	metrics := NewNop()
	for b.Loop() {
		metrics.RecordResolveAttempt("delta", true)
	}
}
