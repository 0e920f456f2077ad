package roomshare

import "github.com/muenchnerfurs/roomshare/types"

// Re-export types from the internal types package.
//
// This file provides a stable, backward-compatible public API for the library's
// core types and interfaces. It uses type aliases to re-export definitions
// from the `types` subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal packages
// to depend on `types` without depending on the root `roomshare` package,
// while still providing a convenient `roomshare.Group`, `roomshare.Logger`,
// etc. for users.
type (
	ParticipantID     = types.ParticipantID
	ParticipantStatus = types.ParticipantStatus
	Participant       = types.Participant
	ResourceID        = types.ResourceID
	Resource          = types.Resource
	Tag               = types.Tag
	GroupID           = types.GroupID
	GroupState        = types.GroupState
	Group             = types.Group
	Assignment        = types.Assignment
	Placement         = types.Placement
	Delta             = types.Delta
	Result            = types.Result
	ResultKind        = types.ResultKind
	Unplaced          = types.Unplaced
	Event             = types.Event
	EventKind         = types.EventKind
	PersistedState    = types.PersistedState
)

// Re-export interfaces from the internal types package for convenience.
type (
	Allocator        = types.Allocator
	ResourceSource   = types.ResourceSource
	Store            = types.Store
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export participant status constants.
const (
	StatusUnassigned = types.StatusUnassigned
	StatusAssigned   = types.StatusAssigned
	StatusPending    = types.StatusPending
)

// Re-export group state constants.
const (
	GroupStable    = types.GroupStable
	GroupDirty     = types.GroupDirty
	GroupResolving = types.GroupResolving
	GroupDissolved = types.GroupDissolved
)

// Re-export resource tag constants.
const (
	TagStandard   = types.TagStandard
	TagAccessible = types.TagAccessible
	TagQuiet      = types.TagQuiet
	TagFamily     = types.TagFamily
	TagPremium    = types.TagPremium
)

// Re-export mutation result kinds.
const (
	ResultAccepted       = types.ResultAccepted
	ResultRequiresReview = types.ResultRequiresReview
)

// Re-export event kinds.
const (
	EventGroupFormed        = types.EventGroupFormed
	EventGroupDissolved     = types.EventGroupDissolved
	EventParticipantPending = types.EventParticipantPending
	EventAllocationStalled  = types.EventAllocationStalled
)
