package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

// SQLiteProposedFellingRepo implements ProposedFellingRepo. The linked
// property profile and everything under it is written once at submission.
type SQLiteProposedFellingRepo struct {
	db db.DBTX
}

func NewSQLiteProposedFellingRepo(conn db.DBTX) *SQLiteProposedFellingRepo {
	return &SQLiteProposedFellingRepo{db: conn}
}

func (r *SQLiteProposedFellingRepo) Create(ctx context.Context, l *domain.LinkedPropertyProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO linked_property_profiles (id, application_id, property_profile_id) VALUES (?, ?, ?)`,
		l.ID, l.ApplicationID, l.PropertyProfileID,
	)
	if err != nil {
		return fmt.Errorf("inserting linked property profile: %w", err)
	}

	for i, d := range l.ProposedFellingDetails {
		if err := r.createFelling(ctx, l.ID, i, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteProposedFellingRepo) createFelling(ctx context.Context, profileID string, ordinal int, d domain.ProposedFellingDetail) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO proposed_felling_details (id, linked_property_profile_id, property_profile_compartment_id,
			operation_type, area_to_be_felled, number_of_trees, tree_marking, is_part_of_tree_preservation_order,
			tree_preservation_order_reference, is_within_conservation_area, conservation_area_reference,
			estimated_total_felling_volume, is_restocking, no_restocking_reason, ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, profileID, d.PropertyProfileCompartmentID,
		string(d.OperationType), d.AreaToBeFelled, ptrValue(d.NumberOfTrees), ptrValue(d.TreeMarking),
		boolToInt(d.IsPartOfTreePreservationOrder), ptrValue(d.TreePreservationOrderReference),
		boolToInt(d.IsWithinConservationArea), ptrValue(d.ConservationAreaReference),
		d.EstimatedTotalFellingVolume, nullableBoolToValue(d.IsRestocking), ptrValue(d.NoRestockingReason), ordinal,
	)
	if err != nil {
		return fmt.Errorf("inserting proposed felling detail: %w", err)
	}

	for i, s := range d.FellingSpecies {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO felling_species (id, proposed_felling_detail_id, species, ordinal) VALUES (?, ?, ?, ?)`,
			s.ID, d.ID, s.Species, i,
		)
		if err != nil {
			return fmt.Errorf("inserting felling species: %w", err)
		}
	}

	for i, rd := range d.ProposedRestockingDetails {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO proposed_restocking_details (id, proposed_felling_detail_id, property_profile_compartment_id,
				restocking_proposal, area, percentage_of_restock_area, restocking_density, number_of_trees, ordinal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rd.ID, d.ID, rd.PropertyProfileCompartmentID, string(rd.RestockingProposal), rd.Area,
			ptrValue(rd.PercentageOfRestockArea), ptrValue(rd.RestockingDensity), ptrValue(rd.NumberOfTrees), i,
		)
		if err != nil {
			return fmt.Errorf("inserting proposed restocking detail: %w", err)
		}
		for j, s := range rd.RestockingSpecies {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO restocking_species (id, proposed_restocking_detail_id, species, percentage, ordinal)
				VALUES (?, ?, ?, ?, ?)`,
				s.ID, rd.ID, s.Species, s.Percentage, j,
			)
			if err != nil {
				return fmt.Errorf("inserting restocking species: %w", err)
			}
		}
	}
	return nil
}

func (r *SQLiteProposedFellingRepo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.LinkedPropertyProfile, error) {
	var l domain.LinkedPropertyProfile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, application_id, property_profile_id FROM linked_property_profiles WHERE application_id = ?`,
		applicationID,
	).Scan(&l.ID, &l.ApplicationID, &l.PropertyProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("linked property profile for application %s: %w", applicationID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning linked property profile: %w", err)
	}

	l.ProposedFellingDetails, err = r.listFelling(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	for i := range l.ProposedFellingDetails {
		d := &l.ProposedFellingDetails[i]
		if d.FellingSpecies, err = r.listFellingSpecies(ctx, d.ID); err != nil {
			return nil, err
		}
		if d.ProposedRestockingDetails, err = r.listRestocking(ctx, d.ID); err != nil {
			return nil, err
		}
	}
	return &l, nil
}

func (r *SQLiteProposedFellingRepo) listFelling(ctx context.Context, profileID string) ([]domain.ProposedFellingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, linked_property_profile_id, property_profile_compartment_id, operation_type,
			area_to_be_felled, number_of_trees, tree_marking, is_part_of_tree_preservation_order,
			tree_preservation_order_reference, is_within_conservation_area, conservation_area_reference,
			estimated_total_felling_volume, is_restocking, no_restocking_reason
		FROM proposed_felling_details WHERE linked_property_profile_id = ? ORDER BY ordinal, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing proposed felling details: %w", err)
	}
	defer rows.Close()

	var details []domain.ProposedFellingDetail
	for rows.Next() {
		var d domain.ProposedFellingDetail
		var op string
		var trees, restocking sql.NullInt64
		var marking, tpoRef, caRef, noRestockReason sql.NullString
		var tpo, ca int
		err := rows.Scan(&d.ID, &d.LinkedPropertyProfileID, &d.PropertyProfileCompartmentID, &op,
			&d.AreaToBeFelled, &trees, &marking, &tpo, &tpoRef, &ca, &caRef,
			&d.EstimatedTotalFellingVolume, &restocking, &noRestockReason)
		if err != nil {
			return nil, fmt.Errorf("scanning proposed felling detail: %w", err)
		}
		d.OperationType = domain.FellingOperationType(op)
		d.NumberOfTrees = nullableInt(trees)
		d.TreeMarking = nullableString(marking)
		d.IsPartOfTreePreservationOrder = intToBool(tpo)
		d.TreePreservationOrderReference = nullableString(tpoRef)
		d.IsWithinConservationArea = intToBool(ca)
		d.ConservationAreaReference = nullableString(caRef)
		d.IsRestocking = nullableBool(restocking)
		d.NoRestockingReason = nullableString(noRestockReason)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proposed felling details: %w", err)
	}
	return details, nil
}

func (r *SQLiteProposedFellingRepo) listFellingSpecies(ctx context.Context, fellingID string) ([]domain.FellingSpecies, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, species FROM felling_species WHERE proposed_felling_detail_id = ? ORDER BY ordinal, id`,
		fellingID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing felling species: %w", err)
	}
	defer rows.Close()

	var species []domain.FellingSpecies
	for rows.Next() {
		var s domain.FellingSpecies
		if err := rows.Scan(&s.ID, &s.Species); err != nil {
			return nil, fmt.Errorf("scanning felling species: %w", err)
		}
		species = append(species, s)
	}
	return species, rows.Err()
}

func (r *SQLiteProposedFellingRepo) listRestocking(ctx context.Context, fellingID string) ([]domain.ProposedRestockingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, proposed_felling_detail_id, property_profile_compartment_id, restocking_proposal,
			area, percentage_of_restock_area, restocking_density, number_of_trees
		FROM proposed_restocking_details WHERE proposed_felling_detail_id = ? ORDER BY ordinal, id`,
		fellingID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing proposed restocking details: %w", err)
	}

	var details []domain.ProposedRestockingDetail
	for rows.Next() {
		var d domain.ProposedRestockingDetail
		var proposal string
		var pct, density sql.NullFloat64
		var trees sql.NullInt64
		if err := rows.Scan(&d.ID, &d.ProposedFellingDetailID, &d.PropertyProfileCompartmentID, &proposal,
			&d.Area, &pct, &density, &trees); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning proposed restocking detail: %w", err)
		}
		d.RestockingProposal = domain.RestockingProposalType(proposal)
		d.PercentageOfRestockArea = nullableFloat(pct)
		d.RestockingDensity = nullableFloat(density)
		d.NumberOfTrees = nullableInt(trees)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating proposed restocking details: %w", err)
	}
	rows.Close()

	for i := range details {
		if details[i].RestockingSpecies, err = r.listRestockingSpecies(ctx, details[i].ID); err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (r *SQLiteProposedFellingRepo) listRestockingSpecies(ctx context.Context, restockingID string) ([]domain.RestockingSpecies, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, species, percentage FROM restocking_species
		WHERE proposed_restocking_detail_id = ? ORDER BY ordinal, id`,
		restockingID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing restocking species: %w", err)
	}
	defer rows.Close()

	var species []domain.RestockingSpecies
	for rows.Next() {
		var s domain.RestockingSpecies
		if err := rows.Scan(&s.ID, &s.Species, &s.Percentage); err != nil {
			return nil, fmt.Errorf("scanning restocking species: %w", err)
		}
		species = append(species, s)
	}
	return species, rows.Err()
}
