package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muenchnerfurs/roomshare/types"
)

func TestStatic_ListResources(t *testing.T) {
	t.Run("returns all resources", func(t *testing.T) {
		resources := []types.Resource{
			{ID: "room-101", Capacity: 2},
			{ID: "room-102", Capacity: 4, Tags: []types.Tag{types.TagAccessible}},
			{ID: "room-201", Capacity: 6, Tags: []types.Tag{types.TagQuiet}},
		}
		src := NewStatic(resources)

		result, err := src.ListResources(context.Background())

		require.NoError(t, err)
		require.Len(t, result, 3)
		require.Equal(t, resources, result)
	})

	t.Run("returns empty list when no resources", func(t *testing.T) {
		src := NewStatic([]types.Resource{})

		result, err := src.ListResources(context.Background())

		require.NoError(t, err)
		require.Empty(t, result)
	})

	t.Run("does not modify original slice", func(t *testing.T) {
		resources := []types.Resource{
			{ID: "room-101", Capacity: 2},
		}
		src := NewStatic(resources)

		result, err := src.ListResources(context.Background())
		require.NoError(t, err)

		// Modify returned slice
		result[0].Capacity = 999

		// Original should be unchanged
		result2, _ := src.ListResources(context.Background())
		require.Equal(t, 2, result2[0].Capacity)
	})

	t.Run("update replaces the catalog", func(t *testing.T) {
		src := NewStatic([]types.Resource{{ID: "room-101", Capacity: 2}})

		src.Update([]types.Resource{
			{ID: "room-101", Capacity: 3},
			{ID: "room-102", Capacity: 4},
		})

		result, err := src.ListResources(context.Background())
		require.NoError(t, err)
		require.Len(t, result, 2)
		require.Equal(t, 3, result[0].Capacity)
	})
}
