package hooks

import (
	"context"

	"github.com/muenchnerfurs/roomshare/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.Group) error           = (*NopHooks)(nil).OnGroupFormed
	_ func(context.Context, types.Group) error           = (*NopHooks)(nil).OnGroupDissolved
	_ func(context.Context, types.ParticipantID) error   = (*NopHooks)(nil).OnParticipantPending
	_ func(context.Context, []types.ParticipantID) error = (*NopHooks)(nil).OnAllocationStalled
	_ func(context.Context, types.Delta) error           = (*NopHooks)(nil).OnAssignmentChanged
	_ func(context.Context, error) error                 = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnGroupFormed:        h.OnGroupFormed,
		OnGroupDissolved:     h.OnGroupDissolved,
		OnParticipantPending: h.OnParticipantPending,
		OnAllocationStalled:  h.OnAllocationStalled,
		OnAssignmentChanged:  h.OnAssignmentChanged,
		OnError:              h.OnError,
	}
}

// OnGroupFormed is a no-op implementation.
func (h *NopHooks) OnGroupFormed(ctx context.Context, group types.Group) error {
	return nil
}

// OnGroupDissolved is a no-op implementation.
func (h *NopHooks) OnGroupDissolved(ctx context.Context, group types.Group) error {
	return nil
}

// OnParticipantPending is a no-op implementation.
func (h *NopHooks) OnParticipantPending(ctx context.Context, id types.ParticipantID) error {
	return nil
}

// OnAllocationStalled is a no-op implementation.
func (h *NopHooks) OnAllocationStalled(ctx context.Context, ids []types.ParticipantID) error {
	return nil
}

// OnAssignmentChanged is a no-op implementation.
func (h *NopHooks) OnAssignmentChanged(ctx context.Context, delta types.Delta) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
