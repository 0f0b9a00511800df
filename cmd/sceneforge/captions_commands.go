package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"sceneforge/internal/captions"
)

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	captionsCmd := &cobra.Command{
		Use:   "captions",
		Short: "Caption utilities",
	}

	captionsCmd.AddCommand(newCaptionsGenerateCommand(ctx))
	captionsCmd.AddCommand(newCaptionsCorrectCommand(ctx))
	captionsCmd.AddCommand(newCaptionsStylesCommand())

	return captionsCmd
}

func newCaptionsGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		script     string
		scriptFile string
		audio      string
		duration   float64
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an SRT file from script text with estimated timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if script != "" && scriptFile != "" {
				return fmt.Errorf("--script and --script-file are mutually exclusive")
			}
			if scriptFile != "" {
				data, err := os.ReadFile(scriptFile)
				if err != nil {
					return fmt.Errorf("read script file: %w", err)
				}
				script = string(data)
			}

			seconds := duration
			if audio != "" {
				prober, err := ctx.prober()
				if err != nil {
					return err
				}
				seconds = prober.Probe(cmd.Context(), audio).Seconds
			}
			if seconds <= 0 {
				return fmt.Errorf("provide --audio or a positive --duration")
			}

			segments := captions.Generate(script, seconds, cfg.Captions.WordsPerSegment)
			if len(segments) == 0 {
				return fmt.Errorf("script has no words")
			}

			return writeSRTFile(cmd, outputPath, segments)
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "Script text")
	cmd.Flags().StringVar(&scriptFile, "script-file", "", "File containing the script text")
	cmd.Flags().StringVarP(&audio, "audio", "a", "", "Narration audio file to probe")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Audio duration in seconds (instead of probing)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "SRT output path (default stdout)")

	return cmd
}

func newCaptionsCorrectCommand(ctx *commandContext) *cobra.Command {
	var (
		audio      string
		duration   float64
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "correct <srt-file>",
		Short: "Reconcile SRT timing with the true audio duration",
		Args:  cobra.ExactArgs(1),
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
				seconds = prober.Probe(cmd.Context(), audio).Seconds
			}
			if seconds <= 0 {
				return fmt.Errorf("provide --audio or a positive --duration")
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open srt: %w", err)
			}
			segments, parseErr := captions.ParseSRT(file)
			_ = file.Close()
			if parseErr != nil {
				return parseErr
			}

			corrected := captions.Correct(segments, seconds, cfg.Captions)
			return writeSRTFile(cmd, outputPath, corrected)
		},
	}

	cmd.Flags().StringVarP(&audio, "audio", "a", "", "Narration audio file to probe")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Audio duration in seconds (instead of probing)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Corrected SRT path (default stdout)")

	return cmd
}

func newCaptionsStylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "styles",
		Short:       "List burn-in caption styles",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(captions.StyleNames()))
			for _, name := range captions.StyleNames() {
				style, err := captions.LookupStyle(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					name,
					style.FontName,
					strconv.Itoa(style.FontSize),
					style.PrimaryColour,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), rowTable(
				[]string{"Name", "Font", "Size", "Colour"},
				rows,
				"Size",
			))
			return nil
		},
	}
}

func writeSRTFile(cmd *cobra.Command, outputPath string, segments []captions.Segment) error {
	if outputPath == "" {
		return captions.WriteSRT(cmd.OutOrStdout(), segments)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create srt: %w", err)
	}
	if err := captions.WriteSRT(file, segments); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
