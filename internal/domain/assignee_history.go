package domain

import (
	"fmt"
	"time"
)

// AssigneeHistory records that a user held a role against an application
// between TimestampAssigned and TimestampUnassigned. A nil
// TimestampUnassigned means the assignment is still active.
type AssigneeHistory struct {
	ID                  string
	ApplicationID       string
	AssignedUserID      string
	Role                AssignedUserRole
	TimestampAssigned   time.Time
	TimestampUnassigned *time.Time
}

// IsActive returns true while the assignment has not been closed.
func (a AssigneeHistory) IsActive() bool {
	return a.TimestampUnassigned == nil
}

// Close ends an active assignment at the given time.
func (a *AssigneeHistory) Close(at time.Time) error {
	if !a.IsActive() {
		return fmt.Errorf("assignment %s for role %s is already closed", a.ID, a.Role)
	}
	if at.Before(a.TimestampAssigned) {
		return fmt.Errorf("unassignment time %s precedes assignment time %s",
			at.Format(time.RFC3339), a.TimestampAssigned.Format(time.RFC3339))
	}
	a.TimestampUnassigned = &at
	return nil
}

// ActiveAssignees filters histories down to active entries.
func ActiveAssignees(histories []AssigneeHistory) []AssigneeHistory {
	var active []AssigneeHistory
	for _, h := range histories {
		if h.IsActive() {
			active = append(active, h)
		}
	}
	return active
}

// ActiveAssigneeForRole returns the active entry for role, if any.
func ActiveAssigneeForRole(histories []AssigneeHistory, role AssignedUserRole) (AssigneeHistory, bool) {
	for _, h := range histories {
		if h.IsActive() && h.Role == role {
			return h, true
		}
	}
	return AssigneeHistory{}, false
}

// IsActiveAssignee reports whether userID currently holds any of roles.
func IsActiveAssignee(histories []AssigneeHistory, userID string, roles ...AssignedUserRole) bool {
	for _, h := range histories {
		if !h.IsActive() || h.AssignedUserID != userID {
			continue
		}
		for _, r := range roles {
			if h.Role == r {
				return true
			}
		}
	}
	return false
}

// ExcludeRoles returns active entries whose role is not in excluded.
func ExcludeRoles(histories []AssigneeHistory, excluded []AssignedUserRole) []AssigneeHistory {
	skip := make(map[AssignedUserRole]bool, len(excluded))
	for _, r := range excluded {
		skip[r] = true
	}
	var out []AssigneeHistory
	for _, h := range ActiveAssignees(histories) {
		if !skip[h.Role] {
			out = append(out, h)
		}
	}
	return out
}

// WithRoles returns active entries whose role is in roles.
func WithRoles(histories []AssigneeHistory, roles []AssignedUserRole) []AssigneeHistory {
	want := make(map[AssignedUserRole]bool, len(roles))
	for _, r := range roles {
		want[r] = true
	}
	var out []AssigneeHistory
	for _, h := range ActiveAssignees(histories) {
		if want[h.Role] {
			out = append(out, h)
		}
	}
	return out
}

// UserIDs projects the assigned user ids, preserving order and dropping duplicates.
func UserIDs(histories []AssigneeHistory) []string {
	seen := make(map[string]bool, len(histories))
	var ids []string
	for _, h := range histories {
		if seen[h.AssignedUserID] {
			continue
		}
		seen[h.AssignedUserID] = true
		ids = append(ids, h.AssignedUserID)
	}
	return ids
}
