package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var (
		maxAgeHours int
		list        bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove stale scratch directories left by interrupted runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			manager, err := ctx.workspaceManager()
			if err != nil {
				return err
			}

			if list {
				scopes, err := manager.ListScopes()
				if err != nil {
					return err
				}
				if len(scopes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scratch directories.")
					return nil
				}
				rows := make([][]string, 0, len(scopes))
				for _, scope := range scopes {
					rows = append(rows, []string{
						scope.Name,
						time.Since(scope.ModTime).Round(time.Minute).String(),
						strconv.FormatInt(scope.Size, 10),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), rowTable(
					[]string{"Name", "Age", "Bytes"},
					rows,
					"Age", "Bytes",
				))
				return nil
			}

			hours := maxAgeHours
			if hours <= 0 {
				hours = cfg.Workspace.SweepMaxAgeHours
			}
			result := manager.Sweep(cmd.Context(), time.Duration(hours)*time.Hour)
			if result.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "Another sweep is already running.")
				return nil
			}
			for _, failure := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to remove %s: %v\n", failure.Path, failure.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale directories.\n", len(result.Removed))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d directories could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age-hours", 0, "Age threshold in hours (default from config)")
	cmd.Flags().BoolVar(&list, "list", false, "List scratch directories instead of sweeping")

	return cmd
}
