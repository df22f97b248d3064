package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

const confirmedFellingColumns = `cf.id, cf.submitted_compartment_id, cf.proposed_felling_detail_id,
		cf.operation_type, cf.area_to_be_felled, cf.number_of_trees, cf.tree_marking,
		cf.is_part_of_tree_preservation_order, cf.tree_preservation_order_reference,
		cf.is_within_conservation_area, cf.conservation_area_reference,
		cf.estimated_total_felling_volume, cf.is_restocking, cf.no_restocking_reason`

// confirmedByApplication scopes confirmed felling rows to one application
// through the submitted compartment tree.
const confirmedByApplication = `FROM confirmed_felling_details cf
		JOIN submitted_compartments sc ON sc.id = cf.submitted_compartment_id
		JOIN submitted_property_profiles sp ON sp.id = sc.submitted_property_profile_id
		WHERE sp.application_id = ?`

// SQLiteConfirmedFellingRepo implements ConfirmedFellingRepo.
type SQLiteConfirmedFellingRepo struct {
	db db.DBTX
}

func NewSQLiteConfirmedFellingRepo(conn db.DBTX) *SQLiteConfirmedFellingRepo {
	return &SQLiteConfirmedFellingRepo{db: conn}
}

// Create inserts d with the ordinal of its originating proposal, or after the
// compartment's existing records when it has none.
func (r *SQLiteConfirmedFellingRepo) Create(ctx context.Context, d *domain.ConfirmedFellingDetail) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO confirmed_felling_details (id, submitted_compartment_id, proposed_felling_detail_id,
			operation_type, area_to_be_felled, number_of_trees, tree_marking, is_part_of_tree_preservation_order,
			tree_preservation_order_reference, is_within_conservation_area, conservation_area_reference,
			estimated_total_felling_volume, is_restocking, no_restocking_reason, ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE(
				(SELECT ordinal FROM proposed_felling_details WHERE id = ?),
				(SELECT COALESCE(MAX(ordinal) + 1, 0) FROM confirmed_felling_details WHERE submitted_compartment_id = ?)))`,
		d.ID, d.SubmittedCompartmentID, ptrValue(d.ProposedFellingDetailID),
		string(d.OperationType), d.AreaToBeFelled, ptrValue(d.NumberOfTrees), ptrValue(d.TreeMarking),
		boolToInt(d.IsPartOfTreePreservationOrder), ptrValue(d.TreePreservationOrderReference),
		boolToInt(d.IsWithinConservationArea), ptrValue(d.ConservationAreaReference),
		d.EstimatedTotalFellingVolume, nullableBoolToValue(d.IsRestocking), ptrValue(d.NoRestockingReason),
		ptrValue(d.ProposedFellingDetailID), d.SubmittedCompartmentID,
	)
	if err != nil {
		return fmt.Errorf("inserting confirmed felling detail: %w", err)
	}
	return r.createChildren(ctx, d)
}

func (r *SQLiteConfirmedFellingRepo) Replace(ctx context.Context, d *domain.ConfirmedFellingDetail) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE confirmed_felling_details SET submitted_compartment_id = ?, proposed_felling_detail_id = ?,
			operation_type = ?, area_to_be_felled = ?, number_of_trees = ?, tree_marking = ?,
			is_part_of_tree_preservation_order = ?, tree_preservation_order_reference = ?,
			is_within_conservation_area = ?, conservation_area_reference = ?,
			estimated_total_felling_volume = ?, is_restocking = ?, no_restocking_reason = ?
		WHERE id = ?`,
		d.SubmittedCompartmentID, ptrValue(d.ProposedFellingDetailID),
		string(d.OperationType), d.AreaToBeFelled, ptrValue(d.NumberOfTrees), ptrValue(d.TreeMarking),
		boolToInt(d.IsPartOfTreePreservationOrder), ptrValue(d.TreePreservationOrderReference),
		boolToInt(d.IsWithinConservationArea), ptrValue(d.ConservationAreaReference),
		d.EstimatedTotalFellingVolume, nullableBoolToValue(d.IsRestocking), ptrValue(d.NoRestockingReason),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating confirmed felling detail: %w", err)
	}
	if err := requireAffected(res, "confirmed felling detail "+d.ID); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM confirmed_felling_species WHERE confirmed_felling_detail_id = ?`, d.ID); err != nil {
		return fmt.Errorf("clearing confirmed felling species: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM confirmed_restocking_details WHERE confirmed_felling_detail_id = ?`, d.ID); err != nil {
		return fmt.Errorf("clearing confirmed restocking details: %w", err)
	}
	return r.createChildren(ctx, d)
}

func (r *SQLiteConfirmedFellingRepo) createChildren(ctx context.Context, d *domain.ConfirmedFellingDetail) error {
	for i, s := range d.ConfirmedFellingSpecies {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO confirmed_felling_species (id, confirmed_felling_detail_id, species, ordinal) VALUES (?, ?, ?, ?)`,
			s.ID, d.ID, s.Species, i,
		)
		if err != nil {
			return fmt.Errorf("inserting confirmed felling species: %w", err)
		}
	}
	for i, rd := range d.ConfirmedRestockingDetails {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO confirmed_restocking_details (id, confirmed_felling_detail_id, submitted_compartment_id,
				proposed_restocking_detail_id, restocking_proposal, area, percentage_of_restock_area,
				restocking_density, number_of_trees, ordinal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rd.ID, d.ID, rd.SubmittedCompartmentID, ptrValue(rd.ProposedRestockingDetailID),
			string(rd.RestockingProposal), rd.Area, ptrValue(rd.PercentageOfRestockArea),
			ptrValue(rd.RestockingDensity), ptrValue(rd.NumberOfTrees), i,
		)
		if err != nil {
			return fmt.Errorf("inserting confirmed restocking detail: %w", err)
		}
		for j, s := range rd.ConfirmedRestockingSpecies {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO confirmed_restocking_species (id, confirmed_restocking_detail_id, species, percentage, ordinal)
				VALUES (?, ?, ?, ?, ?)`,
				s.ID, rd.ID, s.Species, s.Percentage, j,
			)
			if err != nil {
				return fmt.Errorf("inserting confirmed restocking species: %w", err)
			}
		}
	}
	return nil
}

func (r *SQLiteConfirmedFellingRepo) GetByID(ctx context.Context, id string) (*domain.ConfirmedFellingDetail, error) {
	details, err := r.list(ctx, `SELECT `+confirmedFellingColumns+` FROM confirmed_felling_details cf WHERE cf.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("confirmed felling detail %s: %w", id, ErrNotFound)
	}
	return &details[0], nil
}

func (r *SQLiteConfirmedFellingRepo) GetByProposedFellingDetailID(ctx context.Context, applicationID, proposedFellingDetailID string) (*domain.ConfirmedFellingDetail, error) {
	details, err := r.list(ctx,
		`SELECT `+confirmedFellingColumns+` `+confirmedByApplication+` AND cf.proposed_felling_detail_id = ?
		ORDER BY cf.ordinal, cf.id LIMIT 1`,
		applicationID, proposedFellingDetailID,
	)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("confirmed felling detail for proposed %s: %w", proposedFellingDetailID, ErrNotFound)
	}
	return &details[0], nil
}

func (r *SQLiteConfirmedFellingRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.ConfirmedFellingDetail, error) {
	return r.list(ctx,
		`SELECT `+confirmedFellingColumns+` `+confirmedByApplication+` ORDER BY sc.compartment_number, cf.ordinal, cf.id`,
		applicationID,
	)
}

func (r *SQLiteConfirmedFellingRepo) DeleteByApplication(ctx context.Context, applicationID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM confirmed_felling_details WHERE submitted_compartment_id IN (
			SELECT sc.id FROM submitted_compartments sc
			JOIN submitted_property_profiles sp ON sp.id = sc.submitted_property_profile_id
			WHERE sp.application_id = ?)`,
		applicationID,
	)
	if err != nil {
		return fmt.Errorf("deleting confirmed felling details: %w", err)
	}
	return nil
}

// list runs query and then loads the children of each row. Rows are fully
// read before child queries run.
func (r *SQLiteConfirmedFellingRepo) list(ctx context.Context, query string, args ...any) ([]domain.ConfirmedFellingDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing confirmed felling details: %w", err)
	}

	var details []domain.ConfirmedFellingDetail
	for rows.Next() {
		d, err := scanConfirmedFelling(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating confirmed felling details: %w", err)
	}
	rows.Close()

	for i := range details {
		if err := r.loadChildren(ctx, &details[i]); err != nil {
			return nil, err
		}
	}
	return details, nil
}

func scanConfirmedFelling(row rowScanner) (domain.ConfirmedFellingDetail, error) {
	var d domain.ConfirmedFellingDetail
	var op string
	var proposedID, marking, tpoRef, caRef, noRestockReason sql.NullString
	var trees, restocking sql.NullInt64
	var tpo, ca int
	err := row.Scan(&d.ID, &d.SubmittedCompartmentID, &proposedID, &op,
		&d.AreaToBeFelled, &trees, &marking, &tpo, &tpoRef, &ca, &caRef,
		&d.EstimatedTotalFellingVolume, &restocking, &noRestockReason)
	if err != nil {
		return d, fmt.Errorf("scanning confirmed felling detail: %w", err)
	}
	d.ProposedFellingDetailID = nullableString(proposedID)
	d.OperationType = domain.FellingOperationType(op)
	d.NumberOfTrees = nullableInt(trees)
	d.TreeMarking = nullableString(marking)
	d.IsPartOfTreePreservationOrder = intToBool(tpo)
	d.TreePreservationOrderReference = nullableString(tpoRef)
	d.IsWithinConservationArea = intToBool(ca)
	d.ConservationAreaReference = nullableString(caRef)
	d.IsRestocking = nullableBool(restocking)
	d.NoRestockingReason = nullableString(noRestockReason)
	return d, nil
}

func (r *SQLiteConfirmedFellingRepo) loadChildren(ctx context.Context, d *domain.ConfirmedFellingDetail) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, species FROM confirmed_felling_species WHERE confirmed_felling_detail_id = ? ORDER BY ordinal, id`,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("listing confirmed felling species: %w", err)
	}
	d.ConfirmedFellingSpecies = nil
	for rows.Next() {
		var s domain.ConfirmedFellingSpecies
		if err := rows.Scan(&s.ID, &s.Species); err != nil {
			rows.Close()
			return fmt.Errorf("scanning confirmed felling species: %w", err)
		}
		d.ConfirmedFellingSpecies = append(d.ConfirmedFellingSpecies, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating confirmed felling species: %w", err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT id, confirmed_felling_detail_id, submitted_compartment_id, proposed_restocking_detail_id,
			restocking_proposal, area, percentage_of_restock_area, restocking_density, number_of_trees
		FROM confirmed_restocking_details WHERE confirmed_felling_detail_id = ? ORDER BY ordinal, id`,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("listing confirmed restocking details: %w", err)
	}
	d.ConfirmedRestockingDetails = nil
	for rows.Next() {
		var rd domain.ConfirmedRestockingDetail
		var proposedID sql.NullString
		var proposal string
		var pct, density sql.NullFloat64
		var trees sql.NullInt64
		if err := rows.Scan(&rd.ID, &rd.ConfirmedFellingDetailID, &rd.SubmittedCompartmentID, &proposedID,
			&proposal, &rd.Area, &pct, &density, &trees); err != nil {
			rows.Close()
			return fmt.Errorf("scanning confirmed restocking detail: %w", err)
		}
		rd.ProposedRestockingDetailID = nullableString(proposedID)
		rd.RestockingProposal = domain.RestockingProposalType(proposal)
		rd.PercentageOfRestockArea = nullableFloat(pct)
		rd.RestockingDensity = nullableFloat(density)
		rd.NumberOfTrees = nullableInt(trees)
		d.ConfirmedRestockingDetails = append(d.ConfirmedRestockingDetails, rd)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating confirmed restocking details: %w", err)
	}

	for i := range d.ConfirmedRestockingDetails {
		rd := &d.ConfirmedRestockingDetails[i]
		species, err := r.listRestockingSpecies(ctx, rd.ID)
		if err != nil {
			return err
		}
		rd.ConfirmedRestockingSpecies = species
	}
	return nil
}

func (r *SQLiteConfirmedFellingRepo) listRestockingSpecies(ctx context.Context, restockingID string) ([]domain.ConfirmedRestockingSpecies, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, species, percentage FROM confirmed_restocking_species
		WHERE confirmed_restocking_detail_id = ? ORDER BY ordinal, id`,
		restockingID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing confirmed restocking species: %w", err)
	}
	defer rows.Close()

	var species []domain.ConfirmedRestockingSpecies
	for rows.Next() {
		var s domain.ConfirmedRestockingSpecies
		if err := rows.Scan(&s.ID, &s.Species, &s.Percentage); err != nil {
			return nil, fmt.Errorf("scanning confirmed restocking species: %w", err)
		}
		species = append(species, s)
	}
	return species, rows.Err()
}
