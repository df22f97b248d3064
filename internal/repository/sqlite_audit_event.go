package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

// SQLiteAuditEventRepo implements AuditEventRepo. Detail is stored as JSON.
type SQLiteAuditEventRepo struct {
	db db.DBTX
}

func NewSQLiteAuditEventRepo(conn db.DBTX) *SQLiteAuditEventRepo {
	return &SQLiteAuditEventRepo{db: conn}
}

func (r *SQLiteAuditEventRepo) Create(ctx context.Context, e *domain.AuditEvent) error {
	detail := e.Detail
	if detail == nil {
		detail = map[string]string{}
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encoding audit detail: %w", err)
	}

	var applicationID, actorID any
	if e.ApplicationID != "" {
		applicationID = e.ApplicationID
	}
	if e.ActorID != "" {
		actorID = e.ActorID
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, application_id, actor_id, name, source, occurred_at, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, applicationID, actorID, string(e.Name), string(e.Source), formatTime(e.OccurredAt), string(raw),
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}
	return nil
}

func (r *SQLiteAuditEventRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, application_id, actor_id, name, source, occurred_at, detail
		FROM audit_events WHERE application_id = ? ORDER BY occurred_at, rowid`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var appID, actorID sql.NullString
		var name, source, occurredAt, raw string
		if err := rows.Scan(&e.ID, &appID, &actorID, &name, &source, &occurredAt, &raw); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		e.ApplicationID = appID.String
		e.ActorID = actorID.String
		e.Name = domain.AuditEventName(name)
		e.Source = domain.AuditSource(source)
		if e.OccurredAt, err = parseTime(occurredAt, "occurred_at"); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &e.Detail); err != nil {
			return nil, fmt.Errorf("decoding audit detail: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}
	return events, nil
}
