package types

import "context"

// ResourceSource provides the resource catalog for an event namespace.
//
// The consistency tracker queries the source once at startup; subsequent
// capacity changes flow through the UpdateResourceCapacity mutation, never
// through polling. Implementations must be safe for concurrent use.
type ResourceSource interface {
	// ListResources returns the configured resources.
	//
	// Parameters:
	//   - ctx: Context for cancellation and deadline
	//
	// Returns:
	//   - []Resource: The configured resources
	//   - error: Discovery failure
	ListResources(ctx context.Context) ([]Resource, error)
}
