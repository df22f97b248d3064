package service

import (
	"context"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/notify"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
)

type extensionService struct {
	deps
	policy domain.ReextensionPolicy
}

// NewExtensionService builds the final-action-date scheduler. policy decides
// whether already-extended applications are extended again.
func NewExtensionService(repos repository.Set, uow db.UnitOfWork, policy domain.ReextensionPolicy, opts ...Option) ExtensionService {
	return &extensionService{deps: newDeps(repos, uow, opts), policy: policy}
}

func (s *extensionService) ExtendApplicationFinalActionDates(ctx context.Context, req app.ExtensionRequest) (result *app.ExtensionResult, err error) {
	fields := map[string]any{
		"extension_length": req.ExtensionLength.String(),
		"threshold":        req.Threshold.String(),
		"policy":           string(s.policy),
	}
	defer finishUseCase(ctx, s.observer, UseCaseExtendFinalActionDates, time.Now(), fields, &err)

	if req.ExtensionLength <= 0 {
		return nil, app.Errorf(app.ErrValidation, "extension length must be positive")
	}
	if req.Threshold < 0 {
		return nil, app.Errorf(app.ErrValidation, "threshold must not be negative")
	}
	if !domain.ValidReextensionPolicies[s.policy] {
		return nil, app.Errorf(app.ErrValidation, "unknown re-extension policy %q", s.policy)
	}

	now := s.clock.Now()
	var extended []*domain.FellingLicenceApplication
	var skipped []string
	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		due, err := repos.Applications.ListByFinalActionDateBetween(ctx, now.Add(-req.Threshold), now.Add(req.Threshold))
		if err != nil {
			return err
		}
		for _, a := range due {
			if !a.ExtendFinalActionDate(req.ExtensionLength, s.policy, now) {
				skipped = append(skipped, a.ID)
				continue
			}
			if err := repos.Applications.Update(ctx, a); err != nil {
				return err
			}
			extended = append(extended, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &app.ExtensionResult{Skipped: skipped}
	for _, a := range extended {
		result.Extended = append(result.Extended, app.ExtendedApplication{
			ApplicationID:        a.ID,
			ApplicationReference: a.ApplicationReference,
			FinalActionDate:      *a.FinalActionDate,
		})
		if err := s.notifyExtension(ctx, a); err != nil {
			s.logger.ErrorContext(ctx, "extension_notification_failed", "application_id", a.ID, "error", err.Error())
			result.NotifyFailed = append(result.NotifyFailed, a.ID)
		}
		s.publish(ctx, domain.AuditEvent{
			ApplicationID: a.ID,
			Name:          domain.AuditFinalActionDateExtended,
			Source:        domain.SourceSystem,
			OccurredAt:    now,
			Detail: map[string]string{
				"final_action_date": a.FinalActionDate.Format(time.DateOnly),
				"extension_length":  req.ExtensionLength.String(),
			},
		})
	}
	fields["extended"] = len(result.Extended)
	fields["skipped"] = len(skipped)
	return result, nil
}

func (s *extensionService) notifyExtension(ctx context.Context, a *domain.FellingLicenceApplication) error {
	assignees, err := s.repos.AssigneeHistories.ListByApplication(ctx, a.ID)
	if err != nil {
		return err
	}
	recipients := domain.UserIDs(domain.ExcludeRoles(assignees, domain.ExternalRoles))
	if len(recipients) == 0 {
		return nil
	}
	return s.notifier.Notify(ctx, notify.Message{
		Kind:                 notify.KindFinalActionDateExtended,
		ApplicationID:        a.ID,
		ApplicationReference: a.ApplicationReference,
		RecipientIDs:         recipients,
		Detail:               map[string]string{"final_action_date": a.FinalActionDate.Format(time.DateOnly)},
	})
}
