package cli

import (
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/cli/formatter"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newApplicationCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "application",
		Aliases: []string{"app"},
		Short:   "Inspect a felling licence application",
	}

	cmd.AddCommand(
		newStatusDurationsCmd(a),
		newAssigneesCmd(a),
	)

	return cmd
}

func newStatusDurationsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status-durations <application-id>",
		Short: "Show whole days spent in each status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.statusDurationsUseCase().GetStatusDurations(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatusDurations(resp))
			return nil
		},
	}
}

func newAssigneesCmd(a *App) *cobra.Command {
	var internalOnly bool

	cmd := &cobra.Command{
		Use:   "assignees <application-id>",
		Short: "List users currently assigned to an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				assignees []domain.AssigneeHistory
				err       error
			)
			if internalOnly {
				assignees, err = a.Assignees.GetAssigneesExcludingRoles(cmd.Context(), args[0], domain.ExternalRoles)
			} else {
				assignees, err = a.activeAssigneesUseCase().GetActiveAssignees(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAssignees(args[0], assignees, a.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&internalOnly, "internal-only", false, "Hide applicant-side roles")

	return cmd
}
