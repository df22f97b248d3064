package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignee(id, userID string, role AssignedUserRole, closed bool) AssigneeHistory {
	h := AssigneeHistory{
		ID:                id,
		ApplicationID:     "app-1",
		AssignedUserID:    userID,
		Role:              role,
		TimestampAssigned: daysAgo(5),
	}
	if closed {
		at := daysAgo(1)
		h.TimestampUnassigned = &at
	}
	return h
}

func TestAssigneeHistory_Close(t *testing.T) {
	h := assignee("a1", "u1", RoleWoodlandOfficer, false)
	require.True(t, h.IsActive())

	require.NoError(t, h.Close(testNow))
	assert.False(t, h.IsActive())
	assert.Equal(t, testNow, *h.TimestampUnassigned)

	err := h.Close(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
}

func TestAssigneeHistory_CloseBeforeAssigned(t *testing.T) {
	h := assignee("a1", "u1", RoleWoodlandOfficer, false)
	err := h.Close(daysAgo(10))
	require.Error(t, err)
	assert.True(t, h.IsActive())
}

func TestActiveAssigneeFilters(t *testing.T) {
	histories := []AssigneeHistory{
		assignee("a1", "admin", RoleAdminOfficer, false),
		assignee("a2", "old-wo", RoleWoodlandOfficer, true),
		assignee("a3", "wo", RoleWoodlandOfficer, false),
		assignee("a4", "fm", RoleFieldManager, false),
		assignee("a5", "owner", RoleApplicant, false),
		assignee("a6", "owner", RoleAuthor, false),
	}

	assert.Len(t, ActiveAssignees(histories), 5)

	wo, ok := ActiveAssigneeForRole(histories, RoleWoodlandOfficer)
	require.True(t, ok)
	assert.Equal(t, "wo", wo.AssignedUserID)

	_, ok = ActiveAssigneeForRole(histories, RoleApprovingOfficer)
	assert.False(t, ok)

	internal := ExcludeRoles(histories, ExternalRoles)
	assert.Equal(t, []string{"admin", "wo", "fm"}, UserIDs(internal))

	external := WithRoles(histories, ExternalRoles)
	assert.Equal(t, []string{"owner"}, UserIDs(external), "duplicate users collapse")
}

func TestIsActiveAssignee(t *testing.T) {
	closedAt := testNow.Add(-time.Hour)
	histories := []AssigneeHistory{
		assignee("a1", "wo", RoleWoodlandOfficer, false),
		{ID: "a2", AssignedUserID: "fm", Role: RoleFieldManager, TimestampAssigned: daysAgo(3), TimestampUnassigned: &closedAt},
	}

	assert.True(t, IsActiveAssignee(histories, "wo", AmendEligibleRoles...))
	assert.False(t, IsActiveAssignee(histories, "fm", AmendEligibleRoles...), "closed entry does not count")
	assert.False(t, IsActiveAssignee(histories, "wo", RoleAdminOfficer))
}

func TestAssignedUserRole_IsExternal(t *testing.T) {
	assert.True(t, RoleApplicant.IsExternal())
	assert.True(t, RoleAuthor.IsExternal())
	assert.False(t, RoleWoodlandOfficer.IsExternal())
	assert.False(t, RoleApprovingOfficer.IsExternal())
}
