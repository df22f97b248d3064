package service

import (
	"context"
	"errors"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
	"github.com/google/uuid"
)

type statusHistoryService struct {
	deps
}

func NewStatusHistoryService(repos repository.Set, uow db.UnitOfWork, opts ...Option) StatusHistoryService {
	return &statusHistoryService{deps: newDeps(repos, uow, opts)}
}

func (s *statusHistoryService) GetStatusDurations(ctx context.Context, applicationID string) (resp *app.StatusDurationsResponse, err error) {
	fields := map[string]any{"application_id": applicationID}
	defer finishUseCase(ctx, s.observer, UseCaseGetStatusDurations, time.Now(), fields, &err)

	if _, err = loadApplication(ctx, s.repos.Applications, applicationID); err != nil {
		return nil, err
	}
	histories, err := s.repos.StatusHistories.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	durations, err := domain.CalculateStatusDurations(histories, now)
	if errors.Is(err, domain.ErrNoStatusHistory) {
		return nil, app.NewError(app.ErrInvalidState, "application "+applicationID+" has no status history", err)
	}
	if err != nil {
		return nil, err
	}
	latest, _ := domain.LatestStatus(histories)
	fields["statuses"] = len(durations)

	return &app.StatusDurationsResponse{
		ApplicationID: applicationID,
		CurrentStatus: latest.Status,
		Durations:     durations,
		CalculatedAt:  now,
	}, nil
}

func (s *statusHistoryService) AddStatus(ctx context.Context, req app.AddStatusRequest) (entry *domain.StatusHistory, err error) {
	fields := map[string]any{"application_id": req.ApplicationID, "status": string(req.Status)}
	defer finishUseCase(ctx, s.observer, UseCaseAddStatus, time.Now(), fields, &err)

	if !domain.ValidStatuses[req.Status] {
		return nil, app.Errorf(app.ErrValidation, "invalid status %q", req.Status)
	}

	now := s.clock.Now()
	entry = &domain.StatusHistory{
		ID:            uuid.New().String(),
		ApplicationID: req.ApplicationID,
		Status:        req.Status,
		Created:       now,
		CreatedByID:   req.ActorID,
	}
	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		a, err := loadApplication(ctx, repos.Applications, req.ApplicationID)
		if err != nil {
			return err
		}
		if err := repos.StatusHistories.Append(ctx, entry); err != nil {
			return err
		}
		a.UpdatedAt = now
		return repos.Applications.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	event := domain.AuditEvent{
		ApplicationID: req.ApplicationID,
		Name:          domain.AuditStatusAdded,
		Source:        domain.SourceSystem,
		OccurredAt:    now,
		Detail:        map[string]string{"status": string(req.Status)},
	}
	if req.ActorID != nil {
		event.ActorID = *req.ActorID
		event.Source = domain.SourceInternalUser
	}
	s.publish(ctx, event)
	return entry, nil
}

func (s *statusHistoryService) GetCurrentStatus(ctx context.Context, applicationID string) (status domain.FellingLicenceStatus, err error) {
	defer finishUseCase(ctx, s.observer, UseCaseGetCurrentStatus, time.Now(), map[string]any{"application_id": applicationID}, &err)

	a, err := loadApplication(ctx, s.repos.Applications, applicationID)
	if err != nil {
		return "", err
	}
	a.StatusHistories, err = s.repos.StatusHistories.ListByApplication(ctx, applicationID)
	if err != nil {
		return "", err
	}
	return a.CurrentStatus(), nil
}
