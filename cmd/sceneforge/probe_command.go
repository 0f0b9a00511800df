package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <audio-file>",
		Short: "Resolve an audio file's duration through the detection tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prober, err := ctx.prober()
			if err != nil {
				return err
			}

			result := prober.Probe(cmd.Context(), args[0])
			fmt.Fprintln(cmd.OutOrStdout(), fieldTable([][2]string{
				{"Path", args[0]},
				{"Seconds", strconv.FormatFloat(result.Seconds, 'f', 3, 64)},
				{"Tier", string(result.Tier)},
			}))
			return nil
		},
	}
}
