package types

import "slices"

// ResourceID uniquely identifies a shareable resource within an event
// namespace.
type ResourceID string

// Tag classifies a resource for eligibility filtering.
//
// The tag set is closed by design: eligibility checks are exhaustive and
// statically checkable, and the compatibility predicate below is the single
// place where tag semantics live.
type Tag uint8

const (
	// TagStandard marks a regular shared room.
	TagStandard Tag = iota

	// TagAccessible marks a wheelchair-accessible room.
	TagAccessible

	// TagQuiet marks a room in a designated quiet area.
	TagQuiet

	// TagFamily marks a room reserved for families with children.
	TagFamily

	// TagPremium marks an upgraded room category.
	TagPremium
)

// tagNames maps every tag to its canonical wire name.
var tagNames = map[Tag]string{
	TagStandard:   "standard",
	TagAccessible: "accessible",
	TagQuiet:      "quiet",
	TagFamily:     "family",
	TagPremium:    "premium",
}

// String returns the canonical name of the tag.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}

	return "unknown"
}

// ParseTag converts a canonical tag name back into a Tag.
//
// Parameters:
//   - name: Canonical tag name (e.g., "accessible")
//
// Returns:
//   - Tag: The matching tag
//   - error: ErrUnknownTag if the name is outside the closed tag set
func ParseTag(name string) (Tag, error) {
	for tag, n := range tagNames {
		if n == name {
			return tag, nil
		}
	}

	return 0, ErrUnknownTag
}

// Compatible reports whether a resource offering the given tags satisfies
// every required tag.
//
// This is the single eligibility predicate used by the constraint model,
// the allocation engine, and the conflict resolver.
//
// Parameters:
//   - required: Tags a participant requires (empty means any resource)
//   - offered: Tags the resource carries
//
// Returns:
//   - bool: true if every required tag is offered
func Compatible(required, offered []Tag) bool {
	for _, r := range required {
		if !slices.Contains(offered, r) {
			return false
		}
	}

	return true
}

// Resource is a capacity-bounded shareable asset (room, table, slot).
//
// Resources are created at configuration time. Capacity may shrink below
// current usage, in which case the resource is flagged overcommitted and
// the groups occupying it are handed to the conflict resolver.
type Resource struct {
	// ID uniquely identifies the resource.
	ID ResourceID `json:"id"`

	// Capacity is the total number of units (e.g., beds) the resource
	// offers.
	Capacity int `json:"capacity"`

	// Tags classify the resource for eligibility filtering.
	Tags []Tag `json:"tags,omitempty"`

	// Overcommitted is set when capacity was reduced below the usage of the
	// groups currently assigned to this resource. Cleared once the conflict
	// resolver restores the capacity invariant.
	Overcommitted bool `json:"overcommitted,omitempty"`
}

// HasTag reports whether the resource carries the given tag.
func (r Resource) HasTag(t Tag) bool {
	return slices.Contains(r.Tags, t)
}
