package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

// SQLiteAssigneeHistoryRepo implements AssigneeHistoryRepo. The one active
// entry per role rule is enforced by the assignment service, not here.
type SQLiteAssigneeHistoryRepo struct {
	db db.DBTX
}

func NewSQLiteAssigneeHistoryRepo(conn db.DBTX) *SQLiteAssigneeHistoryRepo {
	return &SQLiteAssigneeHistoryRepo{db: conn}
}

func (r *SQLiteAssigneeHistoryRepo) Create(ctx context.Context, h *domain.AssigneeHistory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assignee_histories (id, application_id, assigned_user_id, role, timestamp_assigned, timestamp_unassigned)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.ApplicationID, h.AssignedUserID, string(h.Role),
		formatTime(h.TimestampAssigned), nullableTimeToString(h.TimestampUnassigned),
	)
	if err != nil {
		return fmt.Errorf("inserting assignee history: %w", err)
	}
	return nil
}

func (r *SQLiteAssigneeHistoryRepo) Update(ctx context.Context, h *domain.AssigneeHistory) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assignee_histories SET assigned_user_id = ?, role = ?, timestamp_assigned = ?, timestamp_unassigned = ?
		WHERE id = ?`,
		h.AssignedUserID, string(h.Role), formatTime(h.TimestampAssigned),
		nullableTimeToString(h.TimestampUnassigned), h.ID,
	)
	if err != nil {
		return fmt.Errorf("updating assignee history: %w", err)
	}
	return requireAffected(res, "assignee history "+h.ID)
}

func (r *SQLiteAssigneeHistoryRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.AssigneeHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, application_id, assigned_user_id, role, timestamp_assigned, timestamp_unassigned
		FROM assignee_histories WHERE application_id = ? ORDER BY timestamp_assigned, id`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing assignee histories: %w", err)
	}
	defer rows.Close()

	var histories []domain.AssigneeHistory
	for rows.Next() {
		var h domain.AssigneeHistory
		var role, assigned string
		var unassigned sql.NullString
		if err := rows.Scan(&h.ID, &h.ApplicationID, &h.AssignedUserID, &role, &assigned, &unassigned); err != nil {
			return nil, fmt.Errorf("scanning assignee history row: %w", err)
		}
		h.Role = domain.AssignedUserRole(role)
		h.TimestampUnassigned = parseNullableTime(unassigned)
		if h.TimestampAssigned, err = parseTime(assigned, "timestamp_assigned"); err != nil {
			return nil, err
		}
		histories = append(histories, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignee histories: %w", err)
	}
	return histories, nil
}
