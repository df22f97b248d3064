package service

import (
	"context"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/notify"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
	"github.com/google/uuid"
)

type lateAmendmentJobService struct {
	deps
	amendments AmendmentReviewService
}

// NewLateAmendmentJobService builds the reminder and withdrawal passes on
// top of the amendment review selection rules.
func NewLateAmendmentJobService(repos repository.Set, uow db.UnitOfWork, amendments AmendmentReviewService, opts ...Option) LateAmendmentJobService {
	return &lateAmendmentJobService{deps: newDeps(repos, uow, opts), amendments: amendments}
}

func (s *lateAmendmentJobService) SendAmendmentReminders(ctx context.Context, window time.Duration) (result *app.JobResult, err error) {
	fields := map[string]any{"window": window.String()}
	defer finishUseCase(ctx, s.observer, UseCaseSendAmendmentReminders, time.Now(), fields, &err)

	candidates, err := s.amendments.GetForReminder(ctx, window)
	if err != nil {
		return nil, err
	}

	result = &app.JobResult{}
	for _, c := range candidates {
		if err := s.remind(ctx, c); err != nil {
			s.itemFailed(ctx, UseCaseSendAmendmentReminders, c, err)
			result.Failed = append(result.Failed, c.ApplicationID)
			continue
		}
		result.Processed = append(result.Processed, c.ApplicationID)
	}
	fields["processed"] = len(result.Processed)
	fields["failed"] = len(result.Failed)
	return result, nil
}

func (s *lateAmendmentJobService) remind(ctx context.Context, c domain.AmendmentCandidate) error {
	recipients, err := s.applicantRecipients(ctx, c.ApplicationID)
	if err != nil {
		return err
	}
	err = s.notifier.Notify(ctx, notify.Message{
		Kind:                 notify.KindAmendmentReminder,
		ApplicationID:        c.ApplicationID,
		ApplicationReference: c.ApplicationReference,
		RecipientIDs:         recipients,
		Detail:               map[string]string{"response_deadline": c.Review.ResponseDeadline.Format(time.RFC3339)},
	})
	if err != nil {
		return err
	}
	if err := s.amendments.SetReminderNotificationTimestamp(ctx, c.Review.ID); err != nil {
		return err
	}
	s.publish(ctx, domain.AuditEvent{
		ApplicationID: c.ApplicationID,
		Name:          domain.AuditAmendmentReminderSent,
		Source:        domain.SourceSystem,
		OccurredAt:    s.clock.Now(),
		Detail:        map[string]string{"amendment_review_id": c.Review.ID},
	})
	return nil
}

// applicantRecipients returns the active applicant-side assignees, falling
// back to the user who created the application.
func (s *lateAmendmentJobService) applicantRecipients(ctx context.Context, applicationID string) ([]string, error) {
	assignees, err := s.repos.AssigneeHistories.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if ids := domain.UserIDs(domain.WithRoles(assignees, domain.ExternalRoles)); len(ids) > 0 {
		return ids, nil
	}
	a, err := loadApplication(ctx, s.repos.Applications, applicationID)
	if err != nil {
		return nil, err
	}
	if a.CreatedByID == "" {
		return nil, app.Errorf(app.ErrInvalidState, "application %s has no applicant to notify", applicationID)
	}
	return []string{a.CreatedByID}, nil
}

func (s *lateAmendmentJobService) WithdrawLateAmendments(ctx context.Context) (result *app.JobResult, err error) {
	fields := map[string]any{}
	defer finishUseCase(ctx, s.observer, UseCaseWithdrawLateAmendments, time.Now(), fields, &err)

	candidates, err := s.amendments.GetForWithdrawal(ctx)
	if err != nil {
		return nil, err
	}

	result = &app.JobResult{}
	for _, c := range candidates {
		if err := s.withdraw(ctx, c); err != nil {
			s.itemFailed(ctx, UseCaseWithdrawLateAmendments, c, err)
			result.Failed = append(result.Failed, c.ApplicationID)
			continue
		}
		result.Processed = append(result.Processed, c.ApplicationID)
	}
	fields["processed"] = len(result.Processed)
	fields["failed"] = len(result.Failed)
	return result, nil
}

func (s *lateAmendmentJobService) withdraw(ctx context.Context, c domain.AmendmentCandidate) error {
	now := s.clock.Now()
	var statusAdded bool
	err := s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		a, err := loadApplication(ctx, repos.Applications, c.ApplicationID)
		if err != nil {
			return err
		}
		histories, err := repos.StatusHistories.ListByApplication(ctx, c.ApplicationID)
		if err != nil {
			return err
		}
		a.StatusHistories = histories
		if !a.CurrentStatus().IsFinal() {
			entry := &domain.StatusHistory{
				ID:            uuid.New().String(),
				ApplicationID: c.ApplicationID,
				Status:        domain.StatusWithdrawn,
				Created:       now,
			}
			if err := repos.StatusHistories.Append(ctx, entry); err != nil {
				return err
			}
			statusAdded = true
		}

		review, err := repos.AmendmentReviews.GetByID(ctx, c.Review.ID)
		if err != nil {
			return err
		}
		if review.MarkCompleted() {
			if err := repos.AmendmentReviews.Update(ctx, review); err != nil {
				return err
			}
		}
		a.UpdatedAt = now
		return repos.Applications.Update(ctx, a)
	})
	if err != nil {
		return err
	}

	assignees, err := s.repos.AssigneeHistories.ListByApplication(ctx, c.ApplicationID)
	if err == nil {
		if recipients := domain.UserIDs(domain.ExcludeRoles(assignees, domain.ExternalRoles)); len(recipients) > 0 {
			err = s.notifier.Notify(ctx, notify.Message{
				Kind:                 notify.KindLateAmendmentWithdrawn,
				ApplicationID:        c.ApplicationID,
				ApplicationReference: c.ApplicationReference,
				RecipientIDs:         recipients,
			})
		}
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "withdrawal_notification_failed", "application_id", c.ApplicationID, "error", err.Error())
	}

	s.publish(ctx, domain.AuditEvent{
		ApplicationID: c.ApplicationID,
		Name:          domain.AuditLateAmendmentWithdrawn,
		Source:        domain.SourceSystem,
		OccurredAt:    now,
		Detail: map[string]string{
			"amendment_review_id": c.Review.ID,
			"status_added":        formatYesNo(statusAdded),
		},
	})
	return nil
}

func (s *lateAmendmentJobService) itemFailed(ctx context.Context, useCase string, c domain.AmendmentCandidate, err error) {
	s.logger.ErrorContext(ctx, "job_item_failed",
		"use_case", useCase,
		"application_id", c.ApplicationID,
		"amendment_review_id", c.Review.ID,
		"error", classify(err).Error(),
	)
}
