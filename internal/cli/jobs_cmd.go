package cli

import (
	"fmt"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newJobsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run scheduled batch jobs",
	}

	cmd.AddCommand(
		newExtendFinalActionDatesCmd(a),
		newSendAmendmentRemindersCmd(a),
		newWithdrawLateAmendmentsCmd(a),
	)

	return cmd
}

func newExtendFinalActionDatesCmd(a *App) *cobra.Command {
	var length, threshold time.Duration

	cmd := &cobra.Command{
		Use:   "extend-final-action-dates",
		Short: "Extend final action dates falling close to today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.extendFinalActionDatesUseCase().ExtendApplicationFinalActionDates(cmd.Context(), app.ExtensionRequest{
				ExtensionLength: length,
				Threshold:       threshold,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExtensionResult(res, a.now()))
			return nil
		},
	}

	cmd.Flags().Var(newDurationValue(a.Config.ExtensionLength, &length), "length", "Extension added to each final action date (e.g. 90d)")
	cmd.Flags().Var(newDurationValue(a.Config.ExtensionThreshold, &threshold), "threshold", "Select dates within this distance of now (e.g. 7d)")

	return cmd
}

func newSendAmendmentRemindersCmd(a *App) *cobra.Command {
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "send-amendment-reminders",
		Short: "Remind applicants whose amendment response deadline is near",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.sendAmendmentRemindersUseCase().SendAmendmentReminders(cmd.Context(), window)
			if err != nil {
				return err
			}
			return printJobResult(cmd, "Amendment reminders", res)
		},
	}

	cmd.Flags().Var(newDurationValue(a.Config.ReminderWindow, &window), "window", "Remind when the deadline falls within this window (e.g. 7d)")

	return cmd
}

func newWithdrawLateAmendmentsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw-late-amendments",
		Short: "Withdraw applications whose amendment response deadline has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.withdrawLateAmendmentsUseCase().WithdrawLateAmendments(cmd.Context())
			if err != nil {
				return err
			}
			return printJobResult(cmd, "Late amendment withdrawals", res)
		},
	}
}

// printJobResult writes the summary and fails the command when any item failed.
func printJobResult(cmd *cobra.Command, title string, res *app.JobResult) error {
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatJobResult(title, res))
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d items failed", len(res.Failed), len(res.Failed)+len(res.Processed))
	}
	return nil
}
