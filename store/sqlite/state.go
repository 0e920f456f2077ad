package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/muenchnerfurs/roomshare/types"
)

// Compile-time assertion that DB implements Store.
var _ types.Store = (*DB)(nil)

// SaveState durably replaces the state of the namespace.
//
// The previous rows of the namespace are deleted and the new rows inserted
// in one transaction, so readers never observe a partially saved state.
func (s *DB) SaveState(ctx context.Context, state *types.PersistedState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	// Upsert meta first so the namespace exists for the cascade FKs.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO state_meta (namespace, version, group_seq, participant_seq, saved_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace) DO UPDATE SET
			version = excluded.version,
			group_seq = excluded.group_seq,
			participant_seq = excluded.participant_seq,
			saved_at = CURRENT_TIMESTAMP`,
		state.Namespace, state.Version, state.GroupSeq, state.ParticipantSeq)
	if err != nil {
		return fmt.Errorf("failed to save state meta: %w", err)
	}

	for _, table := range []string{"group_members", "groups", "participants", "resources"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE namespace = ?", state.Namespace); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range state.Participants {
		prefs, err := json.Marshal(p.Preferences)
		if err != nil {
			return fmt.Errorf("failed to encode preferences of %s: %w", p.ID, err)
		}
		tags, err := json.Marshal(p.RequiredTags)
		if err != nil {
			return fmt.Errorf("failed to encode required tags of %s: %w", p.ID, err)
		}

		deadline := ""
		if !p.Deadline.IsZero() {
			deadline = p.Deadline.UTC().Format(time.RFC3339Nano)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO participants (namespace, id, preferences, capacity, required_tags, deadline, registered_seq, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			state.Namespace, string(p.ID), string(prefs), p.Capacity, string(tags),
			deadline, p.RegisteredSeq, int(p.Status))
		if err != nil {
			return fmt.Errorf("failed to save participant %s: %w", p.ID, err)
		}
	}

	for _, r := range state.Resources {
		tags, err := json.Marshal(r.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags of %s: %w", r.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO resources (namespace, id, capacity, tags, overcommitted)
			VALUES (?, ?, ?, ?, ?)`,
			state.Namespace, string(r.ID), r.Capacity, string(tags), boolToInt(r.Overcommitted))
		if err != nil {
			return fmt.Errorf("failed to save resource %s: %w", r.ID, err)
		}
	}

	for _, g := range state.Groups {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO groups (namespace, id, resource, admin, join_code, state)
			VALUES (?, ?, ?, ?, ?, ?)`,
			state.Namespace, string(g.ID), string(g.Resource), string(g.Admin), g.JoinCode, int(g.State))
		if err != nil {
			return fmt.Errorf("failed to save group %s: %w", g.ID, err)
		}

		for pos, m := range g.Members {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO group_members (namespace, group_id, participant_id, position)
				VALUES (?, ?, ?, ?)`,
				state.Namespace, string(g.ID), string(m), pos)
			if err != nil {
				return fmt.Errorf("failed to save member %s of group %s: %w", m, g.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}

	return nil
}

// LoadState loads the state of the namespace.
//
// Returns:
//   - *types.PersistedState: The stored state
//   - error: types.ErrNotFound when the namespace has no stored state
func (s *DB) LoadState(ctx context.Context, namespace string) (*types.PersistedState, error) {
	state := &types.PersistedState{Namespace: namespace}

	err := s.db.QueryRowContext(ctx,
		"SELECT version, group_seq, participant_seq FROM state_meta WHERE namespace = ?", namespace).
		Scan(&state.Version, &state.GroupSeq, &state.ParticipantSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("namespace %s: %w", namespace, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state meta: %w", err)
	}

	if state.Participants, err = s.loadParticipants(ctx, namespace); err != nil {
		return nil, err
	}
	if state.Resources, err = s.loadResources(ctx, namespace); err != nil {
		return nil, err
	}
	if state.Groups, err = s.loadGroups(ctx, namespace); err != nil {
		return nil, err
	}

	return state, nil
}

func (s *DB) loadParticipants(ctx context.Context, namespace string) ([]types.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, preferences, capacity, required_tags, deadline, registered_seq, status
		FROM participants WHERE namespace = ? ORDER BY id`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	var participants []types.Participant
	for rows.Next() {
		var (
			p           types.Participant
			id          string
			prefs, tags string
			deadline    string
			status      int
		)
		if err := rows.Scan(&id, &prefs, &p.Capacity, &tags, &deadline, &p.RegisteredSeq, &status); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}

		p.ID = types.ParticipantID(id)
		p.Status = types.ParticipantStatus(status)
		if err := json.Unmarshal([]byte(prefs), &p.Preferences); err != nil {
			return nil, fmt.Errorf("failed to decode preferences of %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(tags), &p.RequiredTags); err != nil {
			return nil, fmt.Errorf("failed to decode required tags of %s: %w", id, err)
		}
		if deadline != "" {
			p.Deadline, err = time.Parse(time.RFC3339Nano, deadline)
			if err != nil {
				return nil, fmt.Errorf("failed to parse deadline of %s: %w", id, err)
			}
		}

		participants = append(participants, p)
	}

	return participants, rows.Err()
}

func (s *DB) loadResources(ctx context.Context, namespace string) ([]types.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, capacity, tags, overcommitted
		FROM resources WHERE namespace = ? ORDER BY id`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}
	defer rows.Close()

	var resources []types.Resource
	for rows.Next() {
		var (
			r             types.Resource
			id, tags      string
			overcommitted int
		)
		if err := rows.Scan(&id, &r.Capacity, &tags, &overcommitted); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}

		r.ID = types.ResourceID(id)
		r.Overcommitted = overcommitted != 0
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags of %s: %w", id, err)
		}

		resources = append(resources, r)
	}

	return resources, rows.Err()
}

func (s *DB) loadGroups(ctx context.Context, namespace string) ([]types.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resource, admin, join_code, state
		FROM groups WHERE namespace = ? ORDER BY id`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	defer rows.Close()

	var groups []types.Group
	byID := make(map[types.GroupID]int)
	for rows.Next() {
		var (
			g                   types.Group
			id, resource, admin string
			state               int
		)
		if err := rows.Scan(&id, &resource, &admin, &g.JoinCode, &state); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}

		g.ID = types.GroupID(id)
		g.Resource = types.ResourceID(resource)
		g.Admin = types.ParticipantID(admin)
		g.State = types.GroupState(state)

		byID[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := s.db.QueryContext(ctx, `
		SELECT group_id, participant_id
		FROM group_members WHERE namespace = ? ORDER BY group_id, position`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var groupID, participantID string
		if err := memberRows.Scan(&groupID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}

		idx, ok := byID[types.GroupID(groupID)]
		if !ok {
			return nil, fmt.Errorf("member row references unknown group %s", groupID)
		}
		groups[idx].Members = append(groups[idx].Members, types.ParticipantID(participantID))
	}

	return groups, memberRows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
