package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

const applicationColumns = `id, application_reference, woodland_owner_id, created_by_id,
		final_action_date, final_action_date_extended, extension_length_seconds,
		created_at, updated_at`

// SQLiteApplicationRepo implements ApplicationRepo using a SQLite database.
type SQLiteApplicationRepo struct {
	db db.DBTX
}

// NewSQLiteApplicationRepo creates a new SQLiteApplicationRepo.
func NewSQLiteApplicationRepo(conn db.DBTX) *SQLiteApplicationRepo {
	return &SQLiteApplicationRepo{db: conn}
}

func (r *SQLiteApplicationRepo) Create(ctx context.Context, a *domain.FellingLicenceApplication) error {
	query := `INSERT INTO felling_licence_applications (` + applicationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ApplicationReference,
		a.WoodlandOwnerID,
		a.CreatedByID,
		nullableTimeToString(a.FinalActionDate),
		boolToInt(a.FinalActionDateExtended),
		extensionSeconds(a.ExtensionLength),
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting application: %w", err)
	}
	return nil
}

func (r *SQLiteApplicationRepo) GetByID(ctx context.Context, id string) (*domain.FellingLicenceApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM felling_licence_applications WHERE id = ?`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (r *SQLiteApplicationRepo) Update(ctx context.Context, a *domain.FellingLicenceApplication) error {
	query := `UPDATE felling_licence_applications SET
		application_reference = ?, woodland_owner_id = ?, final_action_date = ?,
		final_action_date_extended = ?, extension_length_seconds = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.ApplicationReference,
		a.WoodlandOwnerID,
		nullableTimeToString(a.FinalActionDate),
		boolToInt(a.FinalActionDateExtended),
		extensionSeconds(a.ExtensionLength),
		formatTime(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating application: %w", err)
	}
	return requireAffected(res, "application "+a.ID)
}

func (r *SQLiteApplicationRepo) ListByFinalActionDateBetween(ctx context.Context, from, to time.Time) ([]*domain.FellingLicenceApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM felling_licence_applications
		WHERE final_action_date IS NOT NULL AND final_action_date >= ? AND final_action_date <= ?
		ORDER BY final_action_date, id`
	rows, err := r.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("listing applications by final action date: %w", err)
	}
	defer rows.Close()

	var apps []*domain.FellingLicenceApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating applications: %w", err)
	}
	return apps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.FellingLicenceApplication, error) {
	var a domain.FellingLicenceApplication
	var finalActionDate sql.NullString
	var extended int
	var extensionSecs sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(
		&a.ID, &a.ApplicationReference, &a.WoodlandOwnerID, &a.CreatedByID,
		&finalActionDate, &extended, &extensionSecs, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning application: %w", err)
	}

	a.FinalActionDate = parseNullableTime(finalActionDate)
	a.FinalActionDateExtended = intToBool(extended)
	if extensionSecs.Valid {
		d := time.Duration(extensionSecs.Int64) * time.Second
		a.ExtensionLength = &d
	}
	if a.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &a, nil
}

func extensionSeconds(d *time.Duration) any {
	if d == nil {
		return nil
	}
	return int64(*d / time.Second)
}

// requireAffected turns an UPDATE that matched nothing into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
