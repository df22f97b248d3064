package service

import (
	"context"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

// Use-case names reported to observers.
const (
	UseCaseGetStatusDurations = "status_history.get_durations"
	UseCaseAddStatus          = "status_history.add_status"
	UseCaseGetCurrentStatus   = "status_history.get_current_status"

	UseCaseAssign                     = "assignee_history.assign"
	UseCaseUnassign                   = "assignee_history.unassign"
	UseCaseGetActiveAssignees         = "assignee_history.get_active"
	UseCaseGetAssigneesExcludingRoles = "assignee_history.get_excluding_roles"

	UseCaseCreateAmendmentReview     = "amendment_review.create"
	UseCaseRespondToAmendment        = "amendment_review.respond"
	UseCaseCompleteAmendmentReview   = "amendment_review.complete"
	UseCaseGetAmendmentsForReminder  = "amendment_review.get_for_reminder"
	UseCaseGetAmendmentsForWithdraw  = "amendment_review.get_for_withdrawal"
	UseCaseSetReminderNotificationAt = "amendment_review.set_reminder_timestamp"

	UseCaseConvertProposedToConfirmed = "confirmed_felling.convert"
	UseCaseGetAmendedProperties       = "confirmed_felling.get_amended_properties"
	UseCaseRevertConfirmedFelling     = "confirmed_felling.revert"
	UseCaseUpdateConfirmedFelling     = "confirmed_felling.update"
	UseCaseListConfirmedFelling       = "confirmed_felling.list"

	UseCaseExtendFinalActionDates = "extension.extend_final_action_dates"

	UseCaseSendAmendmentReminders = "late_amendment_job.send_reminders"
	UseCaseWithdrawLateAmendments = "late_amendment_job.withdraw"
)

type StatusHistoryService interface {
	GetStatusDurations(ctx context.Context, applicationID string) (*app.StatusDurationsResponse, error)
	AddStatus(ctx context.Context, req app.AddStatusRequest) (*domain.StatusHistory, error)
	GetCurrentStatus(ctx context.Context, applicationID string) (domain.FellingLicenceStatus, error)
}

type AssigneeHistoryService interface {
	Assign(ctx context.Context, req app.AssignRequest) (*app.AssignResult, error)
	Unassign(ctx context.Context, req app.UnassignRequest) error
	GetActiveAssignees(ctx context.Context, applicationID string) ([]domain.AssigneeHistory, error)
	GetAssigneesExcludingRoles(ctx context.Context, applicationID string, excluded []domain.AssignedUserRole) ([]domain.AssigneeHistory, error)
}

type AmendmentReviewService interface {
	Create(ctx context.Context, req app.CreateAmendmentReviewRequest) (*domain.FellingAndRestockingAmendmentReview, error)
	RespondToAmendment(ctx context.Context, user domain.UserAccessModel, req app.ApplicantResponseRequest) (*domain.FellingAndRestockingAmendmentReview, error)
	Complete(ctx context.Context, amendmentReviewID string) error
	GetForReminder(ctx context.Context, window time.Duration) ([]domain.AmendmentCandidate, error)
	GetForWithdrawal(ctx context.Context) ([]domain.AmendmentCandidate, error)
	SetReminderNotificationTimestamp(ctx context.Context, amendmentReviewID string) error
}

type ConfirmedFellingAndRestockingService interface {
	ConvertProposedToConfirmed(ctx context.Context, user domain.UserAccessModel, applicationID string) ([]domain.ConfirmedFellingDetail, error)
	GetAmendedProperties(ctx context.Context, applicationID string) ([]app.AmendedProperties, error)
	RevertConfirmedFellingDetailAmendments(ctx context.Context, user domain.UserAccessModel, applicationID, proposedFellingDetailID string) (*domain.ConfirmedFellingDetail, error)
	UpdateConfirmedFellingDetail(ctx context.Context, user domain.UserAccessModel, applicationID string, detail domain.ConfirmedFellingDetail) (*app.AmendedProperties, error)
	ListConfirmed(ctx context.Context, applicationID string) ([]domain.ConfirmedFellingDetail, error)
}

type ExtensionService interface {
	ExtendApplicationFinalActionDates(ctx context.Context, req app.ExtensionRequest) (*app.ExtensionResult, error)
}

type LateAmendmentJobService interface {
	SendAmendmentReminders(ctx context.Context, window time.Duration) (*app.JobResult, error)
	WithdrawLateAmendments(ctx context.Context) (*app.JobResult, error)
}
