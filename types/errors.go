package types

import "errors"

// Sentinel errors for the roomshare library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). All components should use these sentinel errors for known
// error conditions and wrap external errors with context using
// fmt.Errorf("%s: %w", msg, err).

// Structural input errors - rejected synchronously at the mutation call.
// They never enter the live assignment.
var (
	// ErrNotFound is returned when an unknown participant, resource, or
	// group id is referenced.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when registering a participant or resource
	// whose id already exists. Re-adding a withdrawn participant under the
	// same id is also rejected with this error.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidPreference is returned when a preference list is malformed:
	// it references the participant itself, an unknown participant, or the
	// same participant more than once.
	ErrInvalidPreference = errors.New("invalid preference list")
)

// Allocation errors - attached to individual participants by the allocation
// engine. They leave the specific participant unassigned but never fail the
// whole run.
var (
	// ErrInfeasible indicates no resource has any remaining capacity for
	// the participant.
	ErrInfeasible = errors.New("no resource with remaining capacity")

	// ErrInvalidConstraint indicates the eligibility graph rejects every
	// candidate resource for the participant.
	ErrInvalidConstraint = errors.New("eligibility constraints exclude all candidates")
)

// Resolution errors - surfaced by the consistency tracker.
var (
	// ErrAllocationStalled is returned when the conflict resolver exhausts
	// its retry budget. Affected participants remain in their last
	// known-valid state, flagged pending, until the host intervenes.
	ErrAllocationStalled = errors.New("allocation stalled: resolve retry budget exhausted")
)

// Group membership errors - returned by the explicit join/leave operations.
var (
	// ErrInvalidJoinCode is returned when joining a group with a wrong
	// join code.
	ErrInvalidJoinCode = errors.New("invalid join code")

	// ErrGroupFull is returned when a join would exceed the capacity of the
	// group's resource.
	ErrGroupFull = errors.New("group resource capacity exhausted")
)

// Catalog errors.
var (
	// ErrUnknownTag is returned when parsing a tag name outside the closed
	// tag set.
	ErrUnknownTag = errors.New("unknown resource tag")
)

// IsStructural reports whether err is one of the structural input errors
// (ErrNotFound, ErrDuplicateID, ErrInvalidPreference).
//
// Structural errors are rejected synchronously and never trigger a
// re-solve, so callers can use this to distinguish bad input from
// allocation outcomes.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is a structural input error
func IsStructural(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrInvalidPreference)
}
