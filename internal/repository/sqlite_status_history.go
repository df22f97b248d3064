package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

// SQLiteStatusHistoryRepo implements StatusHistoryRepo. Entries are never
// updated or deleted.
type SQLiteStatusHistoryRepo struct {
	db db.DBTX
}

func NewSQLiteStatusHistoryRepo(conn db.DBTX) *SQLiteStatusHistoryRepo {
	return &SQLiteStatusHistoryRepo{db: conn}
}

func (r *SQLiteStatusHistoryRepo) Append(ctx context.Context, h *domain.StatusHistory) error {
	var seq int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM status_histories WHERE application_id = ?`,
		h.ApplicationID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("allocating status history seq: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO status_histories (id, application_id, status, created, created_by_id, seq)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.ApplicationID, string(h.Status), formatTime(h.Created), ptrValue(h.CreatedByID), seq,
	)
	if err != nil {
		return fmt.Errorf("inserting status history: %w", err)
	}
	h.Seq = seq
	return nil
}

func (r *SQLiteStatusHistoryRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.StatusHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, application_id, status, created, created_by_id, seq
		FROM status_histories WHERE application_id = ? ORDER BY created, seq`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing status histories: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusHistory
	for rows.Next() {
		var h domain.StatusHistory
		var status, created string
		var createdBy sql.NullString
		if err := rows.Scan(&h.ID, &h.ApplicationID, &status, &created, &createdBy, &h.Seq); err != nil {
			return nil, fmt.Errorf("scanning status history row: %w", err)
		}
		h.Status = domain.FellingLicenceStatus(status)
		h.CreatedByID = nullableString(createdBy)
		if h.Created, err = parseTime(created, "created"); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status histories: %w", err)
	}
	return entries, nil
}
