package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sceneforge/internal/sceneplan"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var (
		images   []string
		audio    string
		duration float64
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the scene timeline for a set of images",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			seconds := duration
			if audio != "" {
				prober, err := ctx.prober()
				if err != nil {
					return err
				}
				result := prober.Probe(cmd.Context(), audio)
				seconds = result.Seconds
				fmt.Fprintf(cmd.OutOrStdout(), "Audio duration: %.3fs (%s)\n", result.Seconds, result.Tier)
			}
			if seconds <= 0 {
				return fmt.Errorf("provide --audio or a positive --duration")
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			plan, err := sceneplan.New(cfg.Render, sceneplan.WithLogger(logger)).Build(images, seconds)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(plan.Scenes))
			for _, scene := range plan.Scenes {
				rows = append(rows, []string{
					strconv.Itoa(scene.Index),
					scene.Image,
					strconv.FormatFloat(scene.Start, 'f', 3, 64),
					strconv.FormatFloat(scene.Duration, 'f', 3, 64),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), rowTable(
				[]string{"Scene", "Image", "Start", "Duration"},
				rows,
				"Scene", "Start", "Duration",
			))
			if plan.TransitionsEnabled {
				fmt.Fprintf(cmd.OutOrStdout(), "Transitions: %.3fs between scenes\n", plan.TransitionSeconds)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Transitions: disabled")
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Scene image (repeatable, in order)")
	cmd.Flags().StringVarP(&audio, "audio", "a", "", "Narration audio file to probe")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Audio duration in seconds (instead of probing)")

	return cmd
}
