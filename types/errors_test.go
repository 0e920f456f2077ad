package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsStructural(t *testing.T) {
	t.Run("returns true for structural input errors", func(t *testing.T) {
		require.True(t, IsStructural(ErrNotFound))
		require.True(t, IsStructural(ErrDuplicateID))
		require.True(t, IsStructural(ErrInvalidPreference))
	})

	t.Run("returns true for wrapped structural errors", func(t *testing.T) {
		err := fmt.Errorf("participant p1: %w", ErrNotFound)
		require.True(t, IsStructural(err))
	})

	t.Run("returns false for allocation outcomes", func(t *testing.T) {
		require.False(t, IsStructural(ErrInfeasible))
		require.False(t, IsStructural(ErrInvalidConstraint))
		require.False(t, IsStructural(ErrAllocationStalled))
	})

	t.Run("returns false for nil", func(t *testing.T) {
		require.False(t, IsStructural(nil))
	})
}
