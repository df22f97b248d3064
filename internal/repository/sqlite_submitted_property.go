package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

type SQLiteSubmittedPropertyRepo struct {
	db db.DBTX
}

func NewSQLiteSubmittedPropertyRepo(conn db.DBTX) *SQLiteSubmittedPropertyRepo {
	return &SQLiteSubmittedPropertyRepo{db: conn}
}

func (r *SQLiteSubmittedPropertyRepo) Create(ctx context.Context, p *domain.SubmittedPropertyProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submitted_property_profiles (id, application_id) VALUES (?, ?)`,
		p.ID, p.ApplicationID,
	)
	if err != nil {
		return fmt.Errorf("inserting submitted property profile: %w", err)
	}
	for _, c := range p.Compartments {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO submitted_compartments (id, submitted_property_profile_id, compartment_id,
				compartment_number, sub_compartment_name, total_hectares)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, p.ID, c.CompartmentID, c.CompartmentNumber, ptrValue(c.SubCompartmentName), ptrValue(c.TotalHectares),
		)
		if err != nil {
			return fmt.Errorf("inserting submitted compartment: %w", err)
		}
	}
	return nil
}

func (r *SQLiteSubmittedPropertyRepo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.SubmittedPropertyProfile, error) {
	var p domain.SubmittedPropertyProfile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, application_id FROM submitted_property_profiles WHERE application_id = ?`,
		applicationID,
	).Scan(&p.ID, &p.ApplicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submitted property profile for application %s: %w", applicationID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning submitted property profile: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, submitted_property_profile_id, compartment_id, compartment_number, sub_compartment_name, total_hectares
		FROM submitted_compartments WHERE submitted_property_profile_id = ? ORDER BY compartment_number, id`,
		p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing submitted compartments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.SubmittedCompartment
		var subName sql.NullString
		var hectares sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.SubmittedPropertyProfileID, &c.CompartmentID, &c.CompartmentNumber, &subName, &hectares); err != nil {
			return nil, fmt.Errorf("scanning submitted compartment: %w", err)
		}
		c.SubCompartmentName = nullableString(subName)
		c.TotalHectares = nullableFloat(hectares)
		p.Compartments = append(p.Compartments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submitted compartments: %w", err)
	}
	return &p, nil
}
