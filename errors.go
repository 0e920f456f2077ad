package roomshare

import (
	"errors"

	"github.com/muenchnerfurs/roomshare/types"
)

// Sentinel errors returned by the Tracker.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrResourceSourceRequired is returned when the resource source is nil.
	ErrResourceSourceRequired = errors.New("resource source is required")

	// ErrAllocatorRequired is returned when the allocation engine is nil.
	ErrAllocatorRequired = errors.New("allocation engine is required")

	// ErrAlreadyStarted is returned when Start is called on an already running tracker.
	ErrAlreadyStarted = errors.New("tracker already started")

	// ErrNotStarted is returned when an operation requires a started tracker.
	ErrNotStarted = errors.New("tracker not started")
)

// Re-export the shared error taxonomy so callers matching with errors.Is do
// not need to import the types subpackage.
var (
	ErrNotFound          = types.ErrNotFound
	ErrDuplicateID       = types.ErrDuplicateID
	ErrInvalidPreference = types.ErrInvalidPreference
	ErrInfeasible        = types.ErrInfeasible
	ErrInvalidConstraint = types.ErrInvalidConstraint
	ErrAllocationStalled = types.ErrAllocationStalled
	ErrInvalidJoinCode   = types.ErrInvalidJoinCode
	ErrGroupFull         = types.ErrGroupFull
)
