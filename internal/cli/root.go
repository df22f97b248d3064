package cli

import (
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/clock"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/config"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	StatusHistory  service.StatusHistoryService
	Assignees      service.AssigneeHistoryService
	Extension      service.ExtensionService
	LateAmendments service.LateAmendmentJobService

	Config config.Config
	Clock  clock.Clock

	// Use-case overrides. Nil falls back to the services above.
	StatusDurations        app.StatusDurationsUseCase
	ActiveAssignees        app.ActiveAssigneesUseCase
	ExtendFinalActionDates app.ExtendFinalActionDatesUseCase
	SendAmendmentReminders app.SendAmendmentRemindersUseCase
	WithdrawLateAmendments app.WithdrawLateAmendmentsUseCase
}

// NewRootCmd creates the top-level "flo" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "flo",
		Short:         "Felling licence lifecycle engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newJobsCmd(a),
		newApplicationCmd(a),
	)

	return root
}

func (a *App) now() time.Time {
	if a.Clock == nil {
		return clock.Real().Now()
	}
	return a.Clock.Now()
}
