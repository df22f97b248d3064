package cli

import "github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"

func (a *App) statusDurationsUseCase() app.StatusDurationsUseCase {
	if a.StatusDurations != nil {
		return a.StatusDurations
	}
	return a.StatusHistory
}

func (a *App) activeAssigneesUseCase() app.ActiveAssigneesUseCase {
	if a.ActiveAssignees != nil {
		return a.ActiveAssignees
	}
	return a.Assignees
}

func (a *App) extendFinalActionDatesUseCase() app.ExtendFinalActionDatesUseCase {
	if a.ExtendFinalActionDates != nil {
		return a.ExtendFinalActionDates
	}
	return a.Extension
}

func (a *App) sendAmendmentRemindersUseCase() app.SendAmendmentRemindersUseCase {
	if a.SendAmendmentReminders != nil {
		return a.SendAmendmentReminders
	}
	return a.LateAmendments
}

func (a *App) withdrawLateAmendmentsUseCase() app.WithdrawLateAmendmentsUseCase {
	if a.WithdrawLateAmendments != nil {
		return a.WithdrawLateAmendments
	}
	return a.LateAmendments
}
