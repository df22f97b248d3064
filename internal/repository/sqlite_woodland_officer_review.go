package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

// SQLiteWoodlandOfficerReviewRepo implements WoodlandOfficerReviewRepo.
type SQLiteWoodlandOfficerReviewRepo struct {
	db         db.DBTX
	amendments *SQLiteAmendmentReviewRepo
}

func NewSQLiteWoodlandOfficerReviewRepo(conn db.DBTX) *SQLiteWoodlandOfficerReviewRepo {
	return &SQLiteWoodlandOfficerReviewRepo{db: conn, amendments: NewSQLiteAmendmentReviewRepo(conn)}
}

func (r *SQLiteWoodlandOfficerReviewRepo) Create(ctx context.Context, w *domain.WoodlandOfficerReview) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO woodland_officer_reviews (id, application_id, confirmed_felling_and_restocking_complete,
			site_visit_complete, conditions_complete, last_updated_by_id, last_updated_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.ApplicationID,
		boolToInt(w.ConfirmedFellingAndRestockingComplete),
		boolToInt(w.SiteVisitComplete),
		boolToInt(w.ConditionsComplete),
		w.LastUpdatedByID, formatTime(w.LastUpdatedDate),
	)
	if err != nil {
		return fmt.Errorf("inserting woodland officer review: %w", err)
	}
	return nil
}

func (r *SQLiteWoodlandOfficerReviewRepo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.WoodlandOfficerReview, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, application_id, confirmed_felling_and_restocking_complete, site_visit_complete,
			conditions_complete, last_updated_by_id, last_updated_date
		FROM woodland_officer_reviews WHERE application_id = ?`,
		applicationID,
	)

	var w domain.WoodlandOfficerReview
	var confirmed, siteVisit, conditions int
	var lastUpdated string
	err := row.Scan(&w.ID, &w.ApplicationID, &confirmed, &siteVisit, &conditions, &w.LastUpdatedByID, &lastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("woodland officer review for application %s: %w", applicationID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning woodland officer review: %w", err)
	}
	w.ConfirmedFellingAndRestockingComplete = intToBool(confirmed)
	w.SiteVisitComplete = intToBool(siteVisit)
	w.ConditionsComplete = intToBool(conditions)
	if w.LastUpdatedDate, err = parseTime(lastUpdated, "last_updated_date"); err != nil {
		return nil, err
	}

	w.AmendmentReviews, err = r.amendments.ListByReview(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *SQLiteWoodlandOfficerReviewRepo) Update(ctx context.Context, w *domain.WoodlandOfficerReview) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE woodland_officer_reviews SET confirmed_felling_and_restocking_complete = ?,
			site_visit_complete = ?, conditions_complete = ?, last_updated_by_id = ?, last_updated_date = ?
		WHERE id = ?`,
		boolToInt(w.ConfirmedFellingAndRestockingComplete),
		boolToInt(w.SiteVisitComplete),
		boolToInt(w.ConditionsComplete),
		w.LastUpdatedByID, formatTime(w.LastUpdatedDate), w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating woodland officer review: %w", err)
	}
	return requireAffected(res, "woodland officer review "+w.ID)
}
