package app

import (
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

type AssignRequest struct {
	ApplicationID   string
	UserID          string
	Role            domain.AssignedUserRole
	Timestamp       time.Time
	ReplaceExisting bool
}

type AssignResult struct {
	Assignment domain.AssigneeHistory
	// Replaced is the entry closed to make way for Assignment.
	Replaced *domain.AssigneeHistory
	// Unchanged is true when the user already held the role.
	Unchanged bool
}

type UnassignRequest struct {
	ApplicationID string
	UserID        string
	Role          domain.AssignedUserRole
	Timestamp     time.Time
}
