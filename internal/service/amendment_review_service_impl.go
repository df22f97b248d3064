package service

import (
	"context"
	"strings"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
	"github.com/google/uuid"
)

type amendmentReviewService struct {
	deps
}

func NewAmendmentReviewService(repos repository.Set, uow db.UnitOfWork, opts ...Option) AmendmentReviewService {
	return &amendmentReviewService{deps: newDeps(repos, uow, opts)}
}

func (s *amendmentReviewService) Create(ctx context.Context, req app.CreateAmendmentReviewRequest) (review *domain.FellingAndRestockingAmendmentReview, err error) {
	fields := map[string]any{"application_id": req.ApplicationID, "bypass_status_check": req.BypassStatusCheck}
	defer finishUseCase(ctx, s.observer, UseCaseCreateAmendmentReview, time.Now(), fields, &err)

	now := s.clock.Now()
	if req.OfficerID == "" {
		return nil, app.Errorf(app.ErrValidation, "officer id is required")
	}
	if !req.ResponseDeadline.After(now) {
		return nil, app.Errorf(app.ErrValidation, "response deadline must be in the future")
	}

	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		if _, err := loadApplication(ctx, repos.Applications, req.ApplicationID); err != nil {
			return err
		}
		if !req.BypassStatusCheck {
			histories, err := repos.StatusHistories.ListByApplication(ctx, req.ApplicationID)
			if err != nil {
				return err
			}
			if err := requireLatestStatus(histories, domain.StatusWoodlandOfficerReview); err != nil {
				return err
			}
		}

		assignees, err := repos.AssigneeHistories.ListByApplication(ctx, req.ApplicationID)
		if err != nil {
			return err
		}
		if !domain.IsActiveAssignee(assignees, req.OfficerID, domain.RoleWoodlandOfficer) {
			return app.Errorf(app.ErrUnauthorized, "user %s is not the assigned woodland officer", req.OfficerID)
		}

		wor, err := s.reviewFor(ctx, repos, req.ApplicationID, req.OfficerID, now)
		if err != nil {
			return err
		}
		review = &domain.FellingAndRestockingAmendmentReview{
			ID:                        uuid.New().String(),
			WoodlandOfficerReviewID:   wor.ID,
			AmendingWoodlandOfficerID: req.OfficerID,
			AmendmentsSentDate:        now,
			AmendmentsReason:          req.Reason,
			ResponseDeadline:          req.ResponseDeadline,
		}
		return repos.AmendmentReviews.Create(ctx, review)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.AuditEvent{
		ApplicationID: req.ApplicationID,
		ActorID:       req.OfficerID,
		Name:          domain.AuditAmendmentReviewCreated,
		Source:        domain.SourceInternalUser,
		OccurredAt:    now,
		Detail: map[string]string{
			"amendment_review_id": review.ID,
			"response_deadline":   review.ResponseDeadline.Format(time.RFC3339),
		},
	})
	return review, nil
}

// reviewFor returns the application's woodland officer review, creating it
// when the officer has not started one.
func (s *amendmentReviewService) reviewFor(ctx context.Context, repos repository.Set, applicationID, officerID string, now time.Time) (*domain.WoodlandOfficerReview, error) {
	wor, err := repos.WoodlandOfficerReviews.GetByApplicationID(ctx, applicationID)
	if err == nil {
		wor.LastUpdatedByID = officerID
		wor.LastUpdatedDate = now
		return wor, repos.WoodlandOfficerReviews.Update(ctx, wor)
	}
	if !isNotFound(err) {
		return nil, err
	}
	wor = &domain.WoodlandOfficerReview{
		ID:              uuid.New().String(),
		ApplicationID:   applicationID,
		LastUpdatedByID: officerID,
		LastUpdatedDate: now,
	}
	return wor, repos.WoodlandOfficerReviews.Create(ctx, wor)
}

func (s *amendmentReviewService) RespondToAmendment(ctx context.Context, user domain.UserAccessModel, req app.ApplicantResponseRequest) (review *domain.FellingAndRestockingAmendmentReview, err error) {
	fields := map[string]any{"application_id": req.ApplicationID, "agreed": req.Agreed}
	defer finishUseCase(ctx, s.observer, UseCaseRespondToAmendment, time.Now(), fields, &err)

	if !req.Agreed && (req.DisagreementReason == nil || strings.TrimSpace(*req.DisagreementReason) == "") {
		return nil, app.Errorf(app.ErrValidation, "a reason is required when disagreeing with amendments")
	}

	now := s.clock.Now()
	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		a, err := loadApplication(ctx, repos.Applications, req.ApplicationID)
		if err != nil {
			return err
		}
		if err := requireOwnerAccess(user, a); err != nil {
			return err
		}
		histories, err := repos.StatusHistories.ListByApplication(ctx, req.ApplicationID)
		if err != nil {
			return err
		}
		if err := requireLatestStatus(histories, domain.StatusWoodlandOfficerReview); err != nil {
			return err
		}

		wor, err := repos.WoodlandOfficerReviews.GetByApplicationID(ctx, req.ApplicationID)
		if isNotFound(err) {
			return app.NewError(app.ErrNotFound, "no amendment review for application "+req.ApplicationID, err)
		}
		if err != nil {
			return err
		}
		current, ok := domain.CurrentAmendmentReview(wor.AmendmentReviews)
		if !ok {
			return app.Errorf(app.ErrNotFound, "no amendment review for application %s", req.ApplicationID)
		}
		if current.IsCompleted() {
			return app.Errorf(app.ErrInvalidState, "amendment review %s is already completed", current.ID)
		}
		if err := current.RecordResponse(user.UserID, req.Agreed, req.DisagreementReason, now); err != nil {
			return app.NewError(app.ErrValidation, "recording amendment response", err)
		}
		review = &current
		return repos.AmendmentReviews.Update(ctx, review)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.AuditEvent{
		ApplicationID: req.ApplicationID,
		ActorID:       user.UserID,
		Name:          domain.AuditAmendmentResponseReceived,
		Source:        domain.SourceFor(user),
		OccurredAt:    now,
		Detail: map[string]string{
			"amendment_review_id": review.ID,
			"agreed":              formatYesNo(req.Agreed),
		},
	})
	return review, nil
}

func (s *amendmentReviewService) Complete(ctx context.Context, amendmentReviewID string) (err error) {
	fields := map[string]any{"amendment_review_id": amendmentReviewID}
	defer finishUseCase(ctx, s.observer, UseCaseCompleteAmendmentReview, time.Now(), fields, &err)

	var changed bool
	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		review, err := repos.AmendmentReviews.GetByID(ctx, amendmentReviewID)
		if err != nil {
			return err
		}
		if changed = review.MarkCompleted(); !changed {
			return nil
		}
		return repos.AmendmentReviews.Update(ctx, review)
	})
	fields["changed"] = changed
	return err
}

func (s *amendmentReviewService) GetForReminder(ctx context.Context, window time.Duration) (selected []domain.AmendmentCandidate, err error) {
	fields := map[string]any{"window": window.String()}
	defer finishUseCase(ctx, s.observer, UseCaseGetAmendmentsForReminder, time.Now(), fields, &err)

	if window < 0 {
		return nil, app.Errorf(app.ErrValidation, "reminder window must not be negative")
	}
	now := s.clock.Now()
	candidates, err := s.repos.AmendmentReviews.ListDueForReminder(ctx, now, window)
	if err != nil {
		return nil, err
	}
	selected = domain.SelectForReminder(candidates, now, window)
	fields["selected"] = len(selected)
	return selected, nil
}

func (s *amendmentReviewService) GetForWithdrawal(ctx context.Context) (selected []domain.AmendmentCandidate, err error) {
	fields := map[string]any{}
	defer finishUseCase(ctx, s.observer, UseCaseGetAmendmentsForWithdraw, time.Now(), fields, &err)

	now := s.clock.Now()
	candidates, err := s.repos.AmendmentReviews.ListPastDeadline(ctx, now)
	if err != nil {
		return nil, err
	}
	selected = domain.SelectForWithdrawal(candidates, now)
	fields["selected"] = len(selected)
	return selected, nil
}

func (s *amendmentReviewService) SetReminderNotificationTimestamp(ctx context.Context, amendmentReviewID string) (err error) {
	fields := map[string]any{"amendment_review_id": amendmentReviewID}
	defer finishUseCase(ctx, s.observer, UseCaseSetReminderNotificationAt, time.Now(), fields, &err)

	now := s.clock.Now()
	var changed bool
	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		review, err := repos.AmendmentReviews.GetByID(ctx, amendmentReviewID)
		if err != nil {
			return err
		}
		if changed = review.MarkReminderSent(now); !changed {
			return nil
		}
		return repos.AmendmentReviews.Update(ctx, review)
	})
	fields["changed"] = changed
	return err
}

func formatYesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
