package repository

import (
	"context"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

// ApplicationRepo persists the scalar fields of the application aggregate.
// Child collections are loaded through their own repositories.
type ApplicationRepo interface {
	Create(ctx context.Context, a *domain.FellingLicenceApplication) error
	GetByID(ctx context.Context, id string) (*domain.FellingLicenceApplication, error)
	Update(ctx context.Context, a *domain.FellingLicenceApplication) error
	// ListByFinalActionDateBetween returns applications whose final action
	// date falls in [from, to], regardless of extension state.
	ListByFinalActionDateBetween(ctx context.Context, from, to time.Time) ([]*domain.FellingLicenceApplication, error)
}

type StatusHistoryRepo interface {
	// Append stores h and assigns its Seq.
	Append(ctx context.Context, h *domain.StatusHistory) error
	ListByApplication(ctx context.Context, applicationID string) ([]domain.StatusHistory, error)
}

type AssigneeHistoryRepo interface {
	Create(ctx context.Context, h *domain.AssigneeHistory) error
	Update(ctx context.Context, h *domain.AssigneeHistory) error
	ListByApplication(ctx context.Context, applicationID string) ([]domain.AssigneeHistory, error)
}

type WoodlandOfficerReviewRepo interface {
	Create(ctx context.Context, r *domain.WoodlandOfficerReview) error
	// GetByApplicationID loads the review with its amendment reviews.
	GetByApplicationID(ctx context.Context, applicationID string) (*domain.WoodlandOfficerReview, error)
	Update(ctx context.Context, r *domain.WoodlandOfficerReview) error
}

type AmendmentReviewRepo interface {
	Create(ctx context.Context, r *domain.FellingAndRestockingAmendmentReview) error
	GetByID(ctx context.Context, id string) (*domain.FellingAndRestockingAmendmentReview, error)
	Update(ctx context.Context, r *domain.FellingAndRestockingAmendmentReview) error
	ListByReview(ctx context.Context, woodlandOfficerReviewID string) ([]domain.FellingAndRestockingAmendmentReview, error)
	// ListDueForReminder returns reviews with a deadline in [now, now+window]
	// that are not completed and have had no reminder.
	ListDueForReminder(ctx context.Context, now time.Time, window time.Duration) ([]domain.AmendmentCandidate, error)
	// ListPastDeadline returns reviews whose deadline is before now and that
	// are not completed.
	ListPastDeadline(ctx context.Context, now time.Time) ([]domain.AmendmentCandidate, error)
}

// ProposedFellingRepo stores the applicant's linked property profile tree.
type ProposedFellingRepo interface {
	Create(ctx context.Context, l *domain.LinkedPropertyProfile) error
	GetByApplicationID(ctx context.Context, applicationID string) (*domain.LinkedPropertyProfile, error)
}

type SubmittedPropertyRepo interface {
	Create(ctx context.Context, p *domain.SubmittedPropertyProfile) error
	GetByApplicationID(ctx context.Context, applicationID string) (*domain.SubmittedPropertyProfile, error)
}

// ConfirmedFellingRepo stores confirmed felling records with their species
// and nested restocking records as one unit.
type ConfirmedFellingRepo interface {
	Create(ctx context.Context, d *domain.ConfirmedFellingDetail) error
	GetByID(ctx context.Context, id string) (*domain.ConfirmedFellingDetail, error)
	GetByProposedFellingDetailID(ctx context.Context, applicationID, proposedFellingDetailID string) (*domain.ConfirmedFellingDetail, error)
	ListByApplication(ctx context.Context, applicationID string) ([]domain.ConfirmedFellingDetail, error)
	// Replace overwrites the record with the same id, replacing its species
	// and restocking records wholesale.
	Replace(ctx context.Context, d *domain.ConfirmedFellingDetail) error
	DeleteByApplication(ctx context.Context, applicationID string) error
}

type AuditEventRepo interface {
	Create(ctx context.Context, e *domain.AuditEvent) error
	ListByApplication(ctx context.Context, applicationID string) ([]domain.AuditEvent, error)
}
