package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTag_RoundTrip(t *testing.T) {
	tags := []Tag{TagStandard, TagAccessible, TagQuiet, TagFamily, TagPremium}

	for _, tag := range tags {
		parsed, err := ParseTag(tag.String())
		require.NoError(t, err)
		require.Equal(t, tag, parsed)
	}
}

func TestParseTag_Unknown(t *testing.T) {
	_, err := ParseTag("penthouse")
	require.ErrorIs(t, err, ErrUnknownTag)
}

func TestCompatible(t *testing.T) {
	t.Run("empty requirements match any resource", func(t *testing.T) {
		require.True(t, Compatible(nil, nil))
		require.True(t, Compatible(nil, []Tag{TagStandard}))
	})

	t.Run("every required tag must be offered", func(t *testing.T) {
		offered := []Tag{TagStandard, TagAccessible}

		require.True(t, Compatible([]Tag{TagAccessible}, offered))
		require.True(t, Compatible([]Tag{TagStandard, TagAccessible}, offered))
		require.False(t, Compatible([]Tag{TagQuiet}, offered))
		require.False(t, Compatible([]Tag{TagAccessible, TagQuiet}, offered))
	})

	t.Run("requirements against empty resource", func(t *testing.T) {
		require.False(t, Compatible([]Tag{TagStandard}, nil))
	})
}

func TestResource_HasTag(t *testing.T) {
	r := Resource{ID: "room-a", Capacity: 4, Tags: []Tag{TagQuiet}}

	require.True(t, r.HasTag(TagQuiet))
	require.False(t, r.HasTag(TagPremium))
}
