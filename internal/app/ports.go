package app

import (
	"context"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

type StatusDurationsUseCase interface {
	GetStatusDurations(ctx context.Context, applicationID string) (*StatusDurationsResponse, error)
}

type ActiveAssigneesUseCase interface {
	GetActiveAssignees(ctx context.Context, applicationID string) ([]domain.AssigneeHistory, error)
}

type ExtendFinalActionDatesUseCase interface {
	ExtendApplicationFinalActionDates(ctx context.Context, req ExtensionRequest) (*ExtensionResult, error)
}

type SendAmendmentRemindersUseCase interface {
	SendAmendmentReminders(ctx context.Context, window time.Duration) (*JobResult, error)
}

type WithdrawLateAmendmentsUseCase interface {
	WithdrawLateAmendments(ctx context.Context) (*JobResult, error)
}
