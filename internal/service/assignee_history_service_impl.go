package service

import (
	"context"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
	"github.com/google/uuid"
)

type assigneeHistoryService struct {
	deps
}

func NewAssigneeHistoryService(repos repository.Set, uow db.UnitOfWork, opts ...Option) AssigneeHistoryService {
	return &assigneeHistoryService{deps: newDeps(repos, uow, opts)}
}

func (s *assigneeHistoryService) Assign(ctx context.Context, req app.AssignRequest) (result *app.AssignResult, err error) {
	fields := map[string]any{"application_id": req.ApplicationID, "role": string(req.Role), "replace": req.ReplaceExisting}
	defer finishUseCase(ctx, s.observer, UseCaseAssign, time.Now(), fields, &err)

	if req.UserID == "" {
		return nil, app.Errorf(app.ErrValidation, "user id is required")
	}
	if !domain.ValidRoles[req.Role] {
		return nil, app.Errorf(app.ErrValidation, "invalid role %q", req.Role)
	}
	at := req.Timestamp
	if at.IsZero() {
		at = s.clock.Now()
	}

	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		if _, err := loadApplication(ctx, repos.Applications, req.ApplicationID); err != nil {
			return err
		}
		histories, err := repos.AssigneeHistories.ListByApplication(ctx, req.ApplicationID)
		if err != nil {
			return err
		}

		result = &app.AssignResult{}
		if current, ok := domain.ActiveAssigneeForRole(histories, req.Role); ok {
			if current.AssignedUserID == req.UserID {
				result.Assignment = current
				result.Unchanged = true
				return nil
			}
			if !req.ReplaceExisting {
				return app.Errorf(app.ErrInvalidState, "role %s is already held by %s", req.Role, current.AssignedUserID)
			}
			if err := current.Close(at); err != nil {
				return app.NewError(app.ErrValidation, "closing existing assignment", err)
			}
			if err := repos.AssigneeHistories.Update(ctx, &current); err != nil {
				return err
			}
			result.Replaced = &current
		}

		result.Assignment = domain.AssigneeHistory{
			ID:                uuid.New().String(),
			ApplicationID:     req.ApplicationID,
			AssignedUserID:    req.UserID,
			Role:              req.Role,
			TimestampAssigned: at,
		}
		return repos.AssigneeHistories.Create(ctx, &result.Assignment)
	})
	if err != nil {
		return nil, err
	}
	fields["unchanged"] = result.Unchanged
	return result, nil
}

func (s *assigneeHistoryService) Unassign(ctx context.Context, req app.UnassignRequest) (err error) {
	fields := map[string]any{"application_id": req.ApplicationID, "role": string(req.Role)}
	defer finishUseCase(ctx, s.observer, UseCaseUnassign, time.Now(), fields, &err)

	at := req.Timestamp
	if at.IsZero() {
		at = s.clock.Now()
	}
	return s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		histories, err := repos.AssigneeHistories.ListByApplication(ctx, req.ApplicationID)
		if err != nil {
			return err
		}
		for _, h := range domain.ActiveAssignees(histories) {
			if h.AssignedUserID != req.UserID || h.Role != req.Role {
				continue
			}
			if err := h.Close(at); err != nil {
				return app.NewError(app.ErrValidation, "closing assignment", err)
			}
			return repos.AssigneeHistories.Update(ctx, &h)
		}
		return app.Errorf(app.ErrNotFound, "no active %s assignment for user %s", req.Role, req.UserID)
	})
}

func (s *assigneeHistoryService) GetActiveAssignees(ctx context.Context, applicationID string) (active []domain.AssigneeHistory, err error) {
	defer finishUseCase(ctx, s.observer, UseCaseGetActiveAssignees, time.Now(), map[string]any{"application_id": applicationID}, &err)

	histories, err := s.list(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return domain.ActiveAssignees(histories), nil
}

func (s *assigneeHistoryService) GetAssigneesExcludingRoles(ctx context.Context, applicationID string, excluded []domain.AssignedUserRole) (active []domain.AssigneeHistory, err error) {
	defer finishUseCase(ctx, s.observer, UseCaseGetAssigneesExcludingRoles, time.Now(), map[string]any{"application_id": applicationID}, &err)

	histories, err := s.list(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return domain.ExcludeRoles(histories, excluded), nil
}

func (s *assigneeHistoryService) list(ctx context.Context, applicationID string) ([]domain.AssigneeHistory, error) {
	if _, err := loadApplication(ctx, s.repos.Applications, applicationID); err != nil {
		return nil, err
	}
	return s.repos.AssigneeHistories.ListByApplication(ctx, applicationID)
}
