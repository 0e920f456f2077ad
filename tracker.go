package roomshare

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/muenchnerfurs/roomshare/constraint"
	"github.com/muenchnerfurs/roomshare/internal/eventbus"
	"github.com/muenchnerfurs/roomshare/internal/hooks"
	"github.com/muenchnerfurs/roomshare/internal/logger"
	"github.com/muenchnerfurs/roomshare/internal/metrics"
	"github.com/muenchnerfurs/roomshare/internal/resolve"
	"github.com/muenchnerfurs/roomshare/types"
)

// Tracker maintains a continuously consistent mapping of participants to
// shared resources for one event namespace.
//
// Tracker is the main entry point of the roomshare library. It handles:
//   - Registration, withdrawal, and preference edits of participants
//   - Incremental (delta) and full re-solves through the allocation engine
//   - Proposal verification before any change becomes visible
//   - Explicit group joins via join codes and group admin promotion
//   - State persistence and outbound event publishing
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Mutations are serialized; reads never block mutations for long
//   - GroupOf lookups go through a lock-free live view
//
// Lifecycle:
//   - Create with NewTracker()
//   - Call Start() to restore persisted state or seed the resource catalog
//   - Use hooks to react to group changes
//   - Call Stop() for graceful shutdown
type Tracker struct {
	cfg    Config
	source ResourceSource
	engine Allocator

	// Optional dependencies
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
	store     Store
	publisher *eventbus.Publisher
	clock     func() time.Time

	resolver *resolve.Resolver
	model    *constraint.Model

	// memberOf is the lock-free live participant-to-group view used by
	// read paths.
	memberOf *xsync.Map[ParticipantID, GroupID]

	mu       sync.RWMutex
	started  bool
	version  int64
	groupSeq int64
	groups   map[GroupID]Group
	status   map[ParticipantID]ParticipantStatus

	wg sync.WaitGroup
}

// NewTracker creates a new Tracker instance with the provided configuration.
//
// Returns a concrete *Tracker struct following the "accept interfaces,
// return structs" principle. Consumers can define their own interfaces for
// testing if needed.
//
// Parameters:
//   - cfg: Runtime configuration with parsed durations
//   - source: Resource source for discovering the shareable catalog
//   - engine: Allocation engine (recommended: allocator.NewGreedy())
//   - opts: Optional configuration (hooks, metrics, logger, store, events)
//
// Returns:
//   - *Tracker: Initialized tracker instance
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	cfg := roomshare.Config{Namespace: "con-2026"}
//	src := source.NewStatic(resources)
//	trk, err := roomshare.NewTracker(&cfg, src, allocator.NewGreedy())
func NewTracker(cfg *Config, source ResourceSource, engine Allocator, opts ...Option) (*Tracker, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if source == nil {
		return nil, ErrResourceSourceRequired
	}
	if engine == nil {
		return nil, ErrAllocatorRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Apply options
	options := &trackerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	hooksInstance := options.hooks
	if hooksInstance == nil {
		nopHooks := hooks.NewNop()
		hooksInstance = &nopHooks
	}

	clock := options.clock
	if clock == nil {
		clock = time.Now
	}

	t := &Tracker{
		cfg:      *cfg,
		source:   source,
		engine:   engine,
		hooks:    hooksInstance,
		metrics:  metricsCollector,
		logger:   loggerInstance,
		store:    options.store,
		clock:    clock,
		resolver: resolve.New(),
		model:    constraint.NewModel(),
		memberOf: xsync.NewMap[ParticipantID, GroupID](),
		groups:   make(map[GroupID]Group),
		status:   make(map[ParticipantID]ParticipantStatus),
		groupSeq: 1,
	}

	if options.eventConn != nil {
		t.publisher = eventbus.New(options.eventConn, cfg.EventSubjectPrefix, cfg.Namespace, metricsCollector, loggerInstance)
	}

	return t, nil
}

// Start initializes the tracker.
//
// With a store configured, the persisted namespace state is restored; when
// no state exists (or no store is configured) the resource catalog is
// seeded from the resource source.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//
// Returns:
//   - error: Startup error or context cancellation
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return ErrAlreadyStarted
	}

	opCtx, cancel := context.WithTimeout(ctx, t.cfg.OperationTimeout)
	defer cancel()

	if t.store != nil {
		start := time.Now()
		state, err := t.store.LoadState(opCtx, t.cfg.Namespace)
		t.metrics.RecordStoreOperation("load", time.Since(start).Seconds(), err == nil || errors.Is(err, types.ErrNotFound))

		switch {
		case err == nil:
			t.restoreLocked(state)
			t.logger.Info("restored persisted state",
				"namespace", t.cfg.Namespace,
				"version", t.version,
				"participants", len(state.Participants),
				"groups", len(state.Groups),
			)
			t.started = true

			return nil
		case !errors.Is(err, types.ErrNotFound):
			return fmt.Errorf("failed to load persisted state: %w", err)
		}
	}

	resources, err := t.source.ListResources(opCtx)
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}
	for _, r := range resources {
		if err := t.model.AddResource(r); err != nil {
			return fmt.Errorf("failed to seed resource %s: %w", r.ID, err)
		}
	}

	t.logger.Info("seeded resource catalog", "namespace", t.cfg.Namespace, "resources", len(resources))
	t.started = true

	return nil
}

// Stop gracefully shuts down the tracker, waiting for in-flight hook
// dispatches to finish.
//
// Parameters:
//   - ctx: Context for shutdown timeout
//
// Returns:
//   - error: ErrNotStarted if the tracker never started, or ctx.Err() on
//     timeout
func (t *Tracker) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()

		return ErrNotStarted
	}
	t.started = false
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// restoreLocked loads a persisted state into the tracker.
func (t *Tracker) restoreLocked(state *PersistedState) {
	t.model.Restore(state.Participants, state.Resources, state.ParticipantSeq)
	t.version = state.Version
	t.groupSeq = state.GroupSeq

	for _, p := range state.Participants {
		t.status[p.ID] = p.Status
	}
	for _, g := range state.Groups {
		t.groups[g.ID] = g.Clone()
		for _, m := range g.Members {
			t.memberOf.Store(m, g.ID)
		}
	}
}

// RegisterParticipant registers a participant and attempts to place them.
//
// The participant is placed with preference-aware allocation; participants
// flagged pending from earlier conflicts are retried in the same run.
//
// Parameters:
//   - ctx: Context for cancellation
//   - p: Participant to register (RegisteredSeq and Status are assigned by
//     the tracker)
//
// Returns:
//   - Result: Placement outcome including per-participant failures
//   - error: ErrDuplicateID, ErrInvalidPreference, or ErrNotStarted
func (t *Tracker) RegisterParticipant(ctx context.Context, p Participant) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return Result{}, ErrNotStarted
	}

	if err := t.model.AddParticipant(p); err != nil {
		t.metrics.RecordMutation("register", false)
		return Result{}, err
	}
	t.status[p.ID] = StatusUnassigned

	return t.resolveLocked(ctx, "register", []ParticipantID{p.ID}, nil, nil)
}

// WithdrawParticipant removes a participant entirely.
//
// The participant leaves their group (with admin promotion or dissolution
// as needed) and the freed capacity is offered to pending participants.
//
// Returns:
//   - Result: Resulting assignment changes
//   - error: ErrNotFound for an unknown participant, or ErrNotStarted
func (t *Tracker) WithdrawParticipant(ctx context.Context, id ParticipantID) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return Result{}, ErrNotStarted
	}

	if err := t.model.RemoveParticipant(id); err != nil {
		t.metrics.RecordMutation("withdraw", false)
		return Result{}, err
	}
	delete(t.status, id)

	pre := &commitInfo{}
	if gid, ok := t.memberOf.Load(id); ok {
		t.removeMemberLocked(gid, id, pre)
	}

	return t.resolveLocked(ctx, "withdraw", nil, nil, pre)
}

// UpdatePreferences rewrites a participant's preference list.
//
// Re-submitting an identical list is an accepted no-op: no version bump, no
// re-solve. A real change marks the participant's group dirty and re-places
// its members.
//
// Returns:
//   - Result: Resulting assignment changes
//   - error: ErrNotFound, ErrInvalidPreference, or ErrNotStarted
func (t *Tracker) UpdatePreferences(ctx context.Context, id ParticipantID, prefs []ParticipantID) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return Result{}, ErrNotStarted
	}

	changed, err := t.model.SetPreferences(id, prefs)
	if err != nil {
		t.metrics.RecordMutation("preferences", false)
		return Result{}, err
	}
	if !changed {
		t.metrics.RecordMutation("preferences", true)
		return Result{Kind: ResultAccepted, Delta: Delta{Version: t.version}}, nil
	}

	dirty := t.dirtyGroupsOfLocked(id)

	return t.resolveLocked(ctx, "preferences", []ParticipantID{id}, dirty, nil)
}

// UpdateParticipantCapacity changes the units a participant occupies.
//
// Growing a placed participant's demand can overcommit their group, which
// marks the group dirty and re-places its members.
//
// Returns:
//   - Result: Resulting assignment changes
//   - error: ErrNotFound or ErrNotStarted
func (t *Tracker) UpdateParticipantCapacity(ctx context.Context, id ParticipantID, capacity int) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return Result{}, ErrNotStarted
	}

	changed, err := t.model.SetParticipantCapacity(id, capacity)
	if err != nil {
		t.metrics.RecordMutation("participant_capacity", false)
		return Result{}, err
	}
	if !changed {
		t.metrics.RecordMutation("participant_capacity", true)
		return Result{Kind: ResultAccepted, Delta: Delta{Version: t.version}}, nil
	}

	dirty := t.dirtyGroupsOfLocked(id)

	return t.resolveLocked(ctx, "participant_capacity", []ParticipantID{id}, dirty, nil)
}

// UpdateResourceCapacity changes a resource's total capacity.
//
// A reduction below current usage overcommits the occupying group: the
// group is marked dirty and its members are re-placed. A change that keeps
// the occupying group within capacity touches nothing else; an increase
// additionally retries pending participants.
//
// Returns:
//   - Result: Resulting assignment changes
//   - error: ErrNotFound or ErrNotStarted
func (t *Tracker) UpdateResourceCapacity(ctx context.Context, id ResourceID, capacity int) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return Result{}, ErrNotStarted
	}

	usage := 0
	var occupant *Group
	for gid := range t.groups {
		g := t.groups[gid]
		if g.Resource == id {
			usage = t.groupUsageLocked(g)
			occupant = &g

			break
		}
	}

	overcommitted, err := t.model.UpdateCapacity(id, capacity, usage)
	if err != nil {
		t.metrics.RecordMutation("resource_capacity", false)
		return Result{}, err
	}

	if overcommitted && occupant != nil {
		dirty := map[GroupID]struct{}{occupant.ID: {}}
		return t.resolveLocked(ctx, "resource_capacity", nil, dirty, nil)
	}

	// Within capacity: nothing is displaced. Pending participants get a
	// retry since the capacity may have grown.
	return t.resolveLocked(ctx, "resource_capacity", nil, nil, nil)
}

// JoinGroup places a participant into a specific group using its join code.
//
// The join bypasses preference-based allocation but never the invariants:
// the group's resource must offer the participant's required tags and have
// room for their capacity. A participant already in another group leaves it
// first.
//
// Returns:
//   - Result: Resulting assignment changes
//   - error: ErrNotFound, ErrInvalidJoinCode, ErrGroupFull,
//     ErrInvalidConstraint, or ErrNotStarted
func (t *Tracker) JoinGroup(ctx context.Context, id ParticipantID, gid GroupID, joinCode string) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return Result{}, ErrNotStarted
	}

	reject := func(err error) (Result, error) {
		t.metrics.RecordMutation("join", false)
		return Result{}, err
	}

	p, ok := t.model.Participant(id)
	if !ok {
		return reject(fmt.Errorf("participant %s: %w", id, ErrNotFound))
	}
	g, ok := t.groups[gid]
	if !ok {
		return reject(fmt.Errorf("group %s: %w", gid, ErrNotFound))
	}
	if g.JoinCode != joinCode {
		return reject(fmt.Errorf("group %s: %w", gid, ErrInvalidJoinCode))
	}
	if g.HasMember(id) {
		t.metrics.RecordMutation("join", true)
		return Result{Kind: ResultAccepted, Delta: Delta{Version: t.version}}, nil
	}

	r, ok := t.model.Resource(g.Resource)
	if !ok {
		return reject(fmt.Errorf("resource %s: %w", g.Resource, ErrNotFound))
	}
	if !types.Compatible(p.RequiredTags, r.Tags) {
		return reject(fmt.Errorf("group %s on %s: %w", gid, g.Resource, ErrInvalidConstraint))
	}
	if t.groupUsageLocked(g)+p.Capacity > r.Capacity {
		return reject(fmt.Errorf("group %s: %w", gid, ErrGroupFull))
	}

	pre := &commitInfo{}
	if prev, ok := t.memberOf.Load(id); ok {
		t.removeMemberLocked(prev, id, pre)
	}

	g = t.groups[gid] // reload: the leave above may have touched it
	g.Members = append(slices.Clone(g.Members), id)
	slices.Sort(g.Members)
	t.groups[gid] = g
	t.memberOf.Store(id, gid)
	t.status[id] = StatusAssigned
	pre.placements = append(pre.placements, Placement{
		Participant: id,
		Group:       gid,
		Resource:    g.Resource,
		Status:      StatusAssigned,
	})

	return t.finishLocked(ctx, "join", pre, ResultAccepted, nil), nil
}

// LeaveGroup removes a participant from their group without withdrawing
// them.
//
// The participant stays registered and unassigned. A departing admin is
// replaced by the lowest-id remaining member; an emptied group dissolves.
// Freed capacity is offered to pending participants.
//
// Returns:
//   - Result: Resulting assignment changes
//   - error: ErrNotFound when the participant is unknown or in no group,
//     or ErrNotStarted
func (t *Tracker) LeaveGroup(ctx context.Context, id ParticipantID) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return Result{}, ErrNotStarted
	}

	gid, ok := t.memberOf.Load(id)
	if !ok {
		t.metrics.RecordMutation("leave", false)
		return Result{}, fmt.Errorf("participant %s is in no group: %w", id, ErrNotFound)
	}

	pre := &commitInfo{}
	t.removeMemberLocked(gid, id, pre)
	t.status[id] = StatusUnassigned
	pre.placements = append(pre.placements, Placement{Participant: id, Status: StatusUnassigned})

	return t.resolveLocked(ctx, "leave", nil, nil, pre)
}

// Assignment returns a deep copy of the current assignment.
func (t *Tracker) Assignment() Assignment {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.assignmentLocked()
}

func (t *Tracker) assignmentLocked() Assignment {
	a := Assignment{Version: t.version}

	a.Groups = make([]Group, 0, len(t.groups))
	for _, g := range t.groups {
		a.Groups = append(a.Groups, g.Clone())
	}
	slices.SortFunc(a.Groups, func(x, y Group) int {
		return cmp.Compare(x.ID, y.ID)
	})

	for id, st := range t.status {
		if _, placed := t.memberOf.Load(id); placed {
			continue
		}
		a.Unassigned = append(a.Unassigned, id)
		if st == StatusPending {
			a.Pending = append(a.Pending, id)
		}
	}
	slices.Sort(a.Unassigned)
	slices.Sort(a.Pending)

	return a
}

// GroupOf returns the group currently containing the participant.
//
// The lookup goes through a lock-free live view, so it stays cheap under
// mutation load.
//
// Returns:
//   - Group: The containing group (deep copy)
//   - bool: true if the participant is placed
func (t *Tracker) GroupOf(id ParticipantID) (Group, bool) {
	gid, ok := t.memberOf.Load(id)
	if !ok {
		return Group{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	g, ok := t.groups[gid]
	if !ok {
		return Group{}, false
	}

	return g.Clone(), true
}

// Groups returns all live groups sorted by id.
func (t *Tracker) Groups() []Group {
	return t.Assignment().Groups
}

// Pending returns the participants currently flagged pending, sorted by id.
func (t *Tracker) Pending() []ParticipantID {
	return t.Assignment().Pending
}

// Version returns the current assignment version.
func (t *Tracker) Version() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.version
}

// commitInfo accumulates the side effects of one mutation until commit.
type commitInfo struct {
	formed     []Group
	dissolved  []Group
	placements []Placement
	pendingIDs []ParticipantID
	unplaced   []Unplaced
	swaps      int
}

// dirtyGroupsOfLocked returns the dirty set for a participant mutation: the
// participant's current group, if any.
func (t *Tracker) dirtyGroupsOfLocked(id ParticipantID) map[GroupID]struct{} {
	gid, ok := t.memberOf.Load(id)
	if !ok {
		return nil
	}

	return map[GroupID]struct{}{gid: {}}
}

// groupUsageLocked sums the capacity demands of the group's members.
func (t *Tracker) groupUsageLocked(g Group) int {
	usage := 0
	for _, m := range g.Members {
		if p, ok := t.model.Participant(m); ok {
			usage += p.Capacity
		}
	}

	return usage
}

// removeMemberLocked takes a participant out of a group, promoting a new
// admin or dissolving the group as needed. Dissolutions are recorded on the
// commit info.
func (t *Tracker) removeMemberLocked(gid GroupID, id ParticipantID, pre *commitInfo) {
	g, ok := t.groups[gid]
	if !ok {
		return
	}

	members := make([]ParticipantID, 0, len(g.Members))
	for _, m := range g.Members {
		if m != id {
			members = append(members, m)
		}
	}
	t.memberOf.Delete(id)

	if len(members) == 0 {
		delete(t.groups, gid)
		g.State = GroupDissolved
		t.metrics.RecordGroupStateChange(GroupStable, GroupDissolved)
		pre.dissolved = append(pre.dissolved, g)

		return
	}

	g.Members = members
	if g.Admin == id {
		g.Admin = members[0] // members are sorted, lowest id wins
	}
	t.groups[gid] = g
}

// resolveLocked runs the allocation engine for the mutation and commits the
// accepted proposal.
//
// Targets are the participants to (re)place: the explicit targets of the
// mutation, all members of dirty groups, and every pending participant. An
// empty target set commits the structural change without invoking the
// engine, which keeps unrelated mutations from touching stable groups.
func (t *Tracker) resolveLocked(ctx context.Context, op string, targets []ParticipantID, dirty map[GroupID]struct{}, pre *commitInfo) (Result, error) {
	if pre == nil {
		pre = &commitInfo{}
	}

	targetSet := make(map[ParticipantID]struct{}, len(targets))
	for _, id := range targets {
		targetSet[id] = struct{}{}
	}
	for gid := range dirty {
		for _, m := range t.groups[gid].Members {
			targetSet[m] = struct{}{}
		}
	}
	for id, st := range t.status {
		if st == StatusPending {
			targetSet[id] = struct{}{}
		}
	}

	t.metrics.RecordDirtyGroups(len(dirty))

	if len(targetSet) == 0 {
		return t.finishLocked(ctx, op, pre, ResultAccepted, nil), nil
	}

	scope := "delta"
	full := false
	if len(t.groups) > 0 && len(dirty) > 0 && float64(len(dirty)) > t.cfg.FullResolveThreshold*float64(len(t.groups)) {
		scope, full = "full", true
		for id := range t.status {
			targetSet[id] = struct{}{}
		}
	}

	// Placed participants past their deadline keep their seats: re-solves
	// skip them, so they stay pinned in their current groups instead of
	// being re-placed (or silently dropped).
	now := t.clock()
	for id := range targetSet {
		if _, placed := t.memberOf.Load(id); !placed {
			continue
		}
		if p, ok := t.model.Participant(id); ok && !p.EligibleAt(now) {
			delete(targetSet, id)
		}
	}
	if len(targetSet) == 0 {
		return t.finishLocked(ctx, op, pre, ResultAccepted, nil), nil
	}

	for gid := range dirty {
		if g, ok := t.groups[gid]; ok {
			t.metrics.RecordGroupStateChange(g.State, GroupResolving)
			g.State = GroupResolving
			t.groups[gid] = g
		}
	}

	sortedTargets := make([]ParticipantID, 0, len(targetSet))
	for id := range targetSet {
		sortedTargets = append(sortedTargets, id)
	}
	slices.Sort(sortedTargets)

	started := time.Now()
	var (
		proposal *types.Proposal
		accepted *types.Snapshot
	)
	for attempt := 1; attempt <= t.cfg.MaxResolveRetries; attempt++ {
		snap := t.model.Snapshot(t.clock())

		prob := types.Problem{
			Current:      t.currentMinusLocked(targetSet),
			Targets:      sortedTargets,
			Full:         full,
			NextGroupSeq: t.groupSeq,
		}

		prop, err := t.engine.Allocate(snap, prob)
		if err != nil {
			t.metrics.RecordResolveAttempt(scope, false)
			t.metrics.RecordMutation(op, false)

			return Result{}, fmt.Errorf("allocation failed: %w", err)
		}

		if err := t.resolver.Verify(snap, prop); err != nil {
			t.metrics.RecordResolveAttempt(scope, false)
			t.logger.Warn("proposal rejected",
				"op", op,
				"scope", scope,
				"attempt", attempt,
				"error", err,
			)

			continue
		}

		t.metrics.RecordResolveAttempt(scope, true)
		proposal, accepted = prop, snap

		break
	}
	t.metrics.RecordResolveDuration(scope, time.Since(started).Seconds())

	if proposal == nil {
		return t.stallLocked(ctx, op, sortedTargets, dirty, pre), nil
	}

	return t.applyProposalLocked(ctx, op, proposal, accepted, pre), nil
}

// currentMinusLocked returns the live groups with the target participants
// stripped out, dropping groups that become empty. This is the base state a
// delta re-solve extends.
func (t *Tracker) currentMinusLocked(targets map[ParticipantID]struct{}) []Group {
	current := make([]Group, 0, len(t.groups))
	for _, g := range t.groups {
		kept := make([]ParticipantID, 0, len(g.Members))
		for _, m := range g.Members {
			if _, stripped := targets[m]; !stripped {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			continue
		}

		c := g.Clone()
		c.Members = kept
		if !c.HasMember(c.Admin) {
			c.Admin = kept[0]
		}
		current = append(current, c)
	}

	return current
}

// applyProposalLocked replaces the live groups with the verified proposal
// and derives the placement delta.
func (t *Tracker) applyProposalLocked(ctx context.Context, op string, prop *types.Proposal, snap *types.Snapshot, pre *commitInfo) Result {
	oldGroups := t.groups

	newGroups := make(map[GroupID]Group, len(prop.Groups))
	newMemberOf := make(map[ParticipantID]GroupID)
	for _, g := range prop.Groups {
		newGroups[g.ID] = g.Clone()
		for _, m := range g.Members {
			newMemberOf[m] = g.ID
		}
	}

	// Formed and dissolved groups.
	for gid, g := range newGroups {
		if _, existed := oldGroups[gid]; !existed {
			t.metrics.RecordGroupStateChange(GroupDirty, GroupStable)
			pre.formed = append(pre.formed, g.Clone())
		}
	}
	for gid, g := range oldGroups {
		if _, kept := newGroups[gid]; !kept {
			dissolved := g.Clone()
			dissolved.State = GroupDissolved
			t.metrics.RecordGroupStateChange(g.State, GroupDissolved)
			pre.dissolved = append(pre.dissolved, dissolved)
		}
	}

	// Placement delta over every participant whose group changed.
	affected := make(map[ParticipantID]struct{})
	for _, g := range oldGroups {
		for _, m := range g.Members {
			affected[m] = struct{}{}
		}
	}
	for m := range newMemberOf {
		affected[m] = struct{}{}
	}

	reported := make(map[ParticipantID]struct{}, len(prop.Unplaced))
	for _, u := range prop.Unplaced {
		reported[u.Participant] = struct{}{}
	}

	kind := ResultAccepted
	for m := range affected {
		var oldGID GroupID
		if gid, ok := t.memberOf.Load(m); ok {
			oldGID = gid
		}
		newGID, placed := newMemberOf[m]
		if oldGID == newGID {
			continue
		}
		if _, known := t.status[m]; !known {
			continue // withdrawn participant
		}

		if placed {
			t.status[m] = StatusAssigned
			pre.placements = append(pre.placements, Placement{
				Participant: m,
				Group:       newGID,
				Resource:    newGroups[newGID].Resource,
				Status:      StatusAssigned,
			})
		} else if _, ok := reported[m]; !ok {
			// The proposal dropped a placed participant without an
			// unplaced entry. Flag the eviction instead of letting the
			// stale placement linger.
			t.status[m] = StatusPending
			pre.pendingIDs = append(pre.pendingIDs, m)
			pre.placements = append(pre.placements, Placement{Participant: m, Status: StatusPending})
			kind = ResultRequiresReview
		}
	}

	// Unplaced participants: a displaced participant becomes pending, one
	// that never held a placement stays unassigned with the reason
	// reported on the result.
	for _, u := range prop.Unplaced {
		_, wasPlaced := t.memberOf.Load(u.Participant)
		if wasPlaced {
			t.status[u.Participant] = StatusPending
			pre.pendingIDs = append(pre.pendingIDs, u.Participant)
			pre.placements = append(pre.placements, Placement{Participant: u.Participant, Status: StatusPending})
			kind = ResultRequiresReview
		} else if t.status[u.Participant] == StatusPending {
			// Still no capacity for an already-pending participant.
			kind = ResultRequiresReview
		} else {
			t.status[u.Participant] = StatusUnassigned
		}
		pre.unplaced = append(pre.unplaced, u)
	}

	// Swap in the new state and rebuild the live view.
	t.groups = newGroups
	t.groupSeq = prop.NextGroupSeq
	pre.swaps = prop.SwapImprovements
	for m := range affected {
		if gid, ok := newMemberOf[m]; ok {
			t.memberOf.Store(m, gid)
		} else {
			t.memberOf.Delete(m)
		}
	}

	// The accepted proposal restored the capacity invariant; clear the
	// overcommit flags that capacity shrinks left behind.
	usage := make(map[ResourceID]int, len(newGroups))
	for _, g := range newGroups {
		usage[g.Resource] += t.groupUsageLocked(g)
	}
	for _, r := range snap.Resources {
		if r.Overcommitted && usage[r.ID] <= r.Capacity {
			if err := t.model.MarkOvercommitted(r.ID, false); err != nil {
				t.logger.Warn("clearing overcommit flag failed", "resource", r.ID, "error", err)
			}
		}
	}

	return t.finishLocked(ctx, op, pre, kind, nil)
}

// stallLocked handles an exhausted retry budget: nothing is committed, the
// affected unplaced participants are flagged pending, and dirty groups stay
// dirty for host intervention.
func (t *Tracker) stallLocked(ctx context.Context, op string, targets []ParticipantID, dirty map[GroupID]struct{}, pre *commitInfo) Result {
	for gid := range dirty {
		if g, ok := t.groups[gid]; ok {
			t.metrics.RecordGroupStateChange(GroupResolving, GroupDirty)
			g.State = GroupDirty
			t.groups[gid] = g
		}
	}

	for _, id := range targets {
		if _, placed := t.memberOf.Load(id); placed {
			continue
		}
		if _, known := t.status[id]; !known {
			continue
		}
		if t.status[id] != StatusPending {
			t.status[id] = StatusPending
			pre.placements = append(pre.placements, Placement{Participant: id, Status: StatusPending})
		}
		pre.pendingIDs = append(pre.pendingIDs, id)
		pre.unplaced = append(pre.unplaced, Unplaced{Participant: id, Reason: ErrAllocationStalled})
	}

	t.logger.Error("allocation stalled",
		"op", op,
		"namespace", t.cfg.Namespace,
		"retries", t.cfg.MaxResolveRetries,
		"pending", len(pre.pendingIDs),
	)
	t.metrics.RecordAllocationStalled(len(pre.pendingIDs))

	result := t.finishLocked(ctx, op, pre, ResultRequiresReview, pre.pendingIDs)

	return result
}

// finishLocked commits an accepted mutation: version bump, persistence,
// events, hooks, and gauges.
func (t *Tracker) finishLocked(ctx context.Context, op string, pre *commitInfo, kind ResultKind, stalled []ParticipantID) Result {
	t.version++

	slices.SortFunc(pre.placements, func(a, b Placement) int {
		return cmp.Compare(a.Participant, b.Participant)
	})
	delta := Delta{Version: t.version, Placements: pre.placements}

	t.metrics.RecordMutation(op, true)
	t.metrics.RecordGroupCount(len(t.groups))
	t.metrics.RecordPendingParticipants(t.pendingCountLocked())
	if pre.swaps > 0 {
		t.metrics.RecordSwapImprovements(pre.swaps)
	}

	t.saveLocked(ctx)
	t.publishLocked(pre, stalled)
	t.dispatchHooksLocked(pre, delta, stalled)

	return Result{Kind: kind, Delta: delta, Unplaced: pre.unplaced}
}

func (t *Tracker) pendingCountLocked() int {
	n := 0
	for _, st := range t.status {
		if st == StatusPending {
			n++
		}
	}

	return n
}

// saveLocked persists the namespace state after an accepted mutation.
// Persistence failures never fail the mutation; they are logged and
// reported through the error hook.
func (t *Tracker) saveLocked(ctx context.Context) {
	if t.store == nil {
		return
	}

	snap := t.model.Snapshot(t.clock())
	state := &PersistedState{
		Namespace:      t.cfg.Namespace,
		Version:        t.version,
		GroupSeq:       t.groupSeq,
		ParticipantSeq: t.model.NextSeq(),
		Participants:   make([]Participant, 0, len(snap.Participants)),
		Resources:      snap.Resources,
		Groups:         make([]Group, 0, len(t.groups)),
	}
	for _, p := range snap.Participants {
		p.Status = t.status[p.ID]
		state.Participants = append(state.Participants, p)
	}
	for _, g := range t.groups {
		state.Groups = append(state.Groups, g.Clone())
	}
	slices.SortFunc(state.Groups, func(a, b Group) int {
		return cmp.Compare(a.ID, b.ID)
	})

	opCtx, cancel := context.WithTimeout(ctx, t.cfg.OperationTimeout)
	defer cancel()

	start := time.Now()
	err := t.store.SaveState(opCtx, state)
	t.metrics.RecordStoreOperation("save", time.Since(start).Seconds(), err == nil)
	if err != nil {
		t.logger.Error("failed to persist state", "namespace", t.cfg.Namespace, "error", err)
		t.dispatchHook("OnError", func(hctx context.Context) error {
			if t.hooks.OnError == nil {
				return nil
			}
			return t.hooks.OnError(hctx, err)
		})
	}
}

// publishLocked emits the mutation's events. Publishing is best-effort.
func (t *Tracker) publishLocked(pre *commitInfo, stalled []ParticipantID) {
	if t.publisher == nil {
		return
	}

	publish := func(e Event) {
		if err := t.publisher.Publish(e); err != nil {
			t.logger.Warn("failed to publish event", "kind", e.Kind, "error", err)
		}
	}

	for i := range pre.formed {
		publish(Event{Kind: EventGroupFormed, Version: t.version, Group: &pre.formed[i]})
	}
	for i := range pre.dissolved {
		publish(Event{Kind: EventGroupDissolved, Version: t.version, Group: &pre.dissolved[i]})
	}
	if len(pre.pendingIDs) > 0 {
		publish(Event{Kind: EventParticipantPending, Version: t.version, Participants: pre.pendingIDs})
	}
	if len(stalled) > 0 {
		publish(Event{Kind: EventAllocationStalled, Version: t.version, Participants: stalled})
	}
}

// dispatchHooksLocked fires the mutation's hooks asynchronously.
func (t *Tracker) dispatchHooksLocked(pre *commitInfo, delta Delta, stalled []ParticipantID) {
	for _, g := range pre.formed {
		group := g
		if t.hooks.OnGroupFormed != nil {
			t.dispatchHook("OnGroupFormed", func(ctx context.Context) error {
				return t.hooks.OnGroupFormed(ctx, group)
			})
		}
	}
	for _, g := range pre.dissolved {
		group := g
		if t.hooks.OnGroupDissolved != nil {
			t.dispatchHook("OnGroupDissolved", func(ctx context.Context) error {
				return t.hooks.OnGroupDissolved(ctx, group)
			})
		}
	}
	for _, id := range pre.pendingIDs {
		pid := id
		if t.hooks.OnParticipantPending != nil {
			t.dispatchHook("OnParticipantPending", func(ctx context.Context) error {
				return t.hooks.OnParticipantPending(ctx, pid)
			})
		}
	}
	if len(stalled) > 0 && t.hooks.OnAllocationStalled != nil {
		ids := slices.Clone(stalled)
		t.dispatchHook("OnAllocationStalled", func(ctx context.Context) error {
			return t.hooks.OnAllocationStalled(ctx, ids)
		})
	}
	if len(delta.Placements) > 0 && t.hooks.OnAssignmentChanged != nil {
		t.dispatchHook("OnAssignmentChanged", func(ctx context.Context) error {
			return t.hooks.OnAssignmentChanged(ctx, delta)
		})
	}
}

// dispatchHook runs a hook callback in a background goroutine with a
// bounded context. Hook errors are logged, never propagated.
func (t *Tracker) dispatchHook(name string, fn func(context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), t.cfg.OperationTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			t.logger.Warn("hook failed", "hook", name, "error", err)
		}
	}()
}
