// Package export renders assignments into spreadsheet-friendly formats for
// event hosts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/muenchnerfurs/roomshare/types"
)

var csvHeader = []string{
	"Group Id", "Resource", "Join Code", "Participant", "Is Admin", "Status",
}

// WriteAssignmentCSV writes the assignment as a room list: one row per
// group member, admins first, followed by one row per unassigned
// participant with empty group columns.
//
// Groups and member lists in an Assignment are sorted, so the output is
// deterministic for a given assignment.
//
// Parameters:
//   - w: Destination writer
//   - a: Assignment to export
//
// Returns:
//   - error: Write failure
func WriteAssignmentCSV(w io.Writer, a types.Assignment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, g := range a.Groups {
		// Admin first, remaining members in sorted order.
		if err := writeMember(cw, g, g.Admin); err != nil {
			return err
		}
		for _, m := range g.Members {
			if m == g.Admin {
				continue
			}
			if err := writeMember(cw, g, m); err != nil {
				return err
			}
		}
	}

	pending := make(map[types.ParticipantID]struct{}, len(a.Pending))
	for _, id := range a.Pending {
		pending[id] = struct{}{}
	}
	for _, id := range a.Unassigned {
		status := types.StatusUnassigned
		if _, ok := pending[id]; ok {
			status = types.StatusPending
		}
		if err := cw.Write([]string{"", "", "", string(id), "", status.String()}); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", id, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func writeMember(cw *csv.Writer, g types.Group, id types.ParticipantID) error {
	row := []string{
		string(g.ID),
		string(g.Resource),
		g.JoinCode,
		string(id),
		strconv.FormatBool(id == g.Admin),
		types.StatusAssigned.String(),
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("failed to write row for %s: %w", id, err)
	}

	return nil
}
