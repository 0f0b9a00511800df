package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"sceneforge/internal/compose"
)

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var (
		images       []string
		audioPath    string
		script       string
		scriptFile   string
		captionsPath string
		style        string
		burn         bool
		catalog      bool
		outputPath   string
		batchPath    string
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Render a narrated slideshow video",
		RunE: func(cmd *cobra.Command, args []string) error {
			composer, store, err := ctx.composer()
			if err != nil {
				return err
			}
			defer store.Close()

			if batchPath != "" {
				return runBatch(cmd, ctx, composer, batchPath, workers)
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

			result, err := composer.Compose(cmd.Context(), compose.Request{
				Images:       images,
				AudioPath:    audioPath,
				Script:       script,
				CaptionsPath: captionsPath,
				Style:        style,
				Burn:         burn,
				Catalog:      catalog,
				OutputPath:   outputPath,
			})
			if err != nil {
				return err
			}

			printComposeResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Scene image (repeatable, in order)")
	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Narration audio file")
	cmd.Flags().StringVar(&script, "script", "", "Script text for estimated captions")
	cmd.Flags().StringVar(&scriptFile, "script-file", "", "File containing the script text")
	cmd.Flags().StringVar(&captionsPath, "captions", "", "Existing SRT file to correct and apply")
	cmd.Flags().StringVar(&style, "style", "", "Caption style (see 'captions styles')")
	cmd.Flags().BoolVar(&burn, "burn", false, "Burn captions into the video stream")
	cmd.Flags().BoolVar(&catalog, "catalog", false, "Record the output in the asset store")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output video path")
	cmd.Flags().StringVar(&batchPath, "batch", "", "YAML manifest of compositions to run")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers for batch runs (default from config)")

	return cmd
}

func runBatch(cmd *cobra.Command, ctx *commandContext, composer *compose.Composer, batchPath string, workers int) error {
	batch, err := compose.LoadBatch(batchPath)
	if err != nil {
		return err
	}
	if workers <= 0 {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		workers = cfg.Compose.Workers
	}

	outcomes := compose.NewPool(composer, workers).Run(cmd.Context(), batch.Requests())

	rows := make([][]string, 0, len(outcomes))
	failures := 0
	for _, outcome := range outcomes {
		status := "ok"
		detail := string(outcome.Result.Strategy)
		if outcome.Err != nil {
			failures++
			status = "failed"
			detail = outcome.Err.Error()
		}
		rows = append(rows, []string{outcome.Request.OutputPath, status, detail})
	}
	fmt.Fprintln(cmd.OutOrStdout(), rowTable([]string{"Output", "Status", "Detail"}, rows))

	if failures > 0 {
		return fmt.Errorf("%d of %d compositions failed", failures, len(outcomes))
	}
	return nil
}

func printComposeResult(cmd *cobra.Command, result compose.Result) {
	pairs := [][2]string{
		{"Output", result.OutputPath},
		{"Audio seconds", strconv.FormatFloat(result.AudioSeconds, 'f', 2, 64)},
		{"Duration tier", string(result.ProbeTier)},
		{"Strategy", string(result.Strategy)},
		{"Scenes", strconv.Itoa(result.Scenes)},
		{"Captions", strconv.Itoa(result.Captions)},
	}
	if result.AssetID != "" {
		pairs = append(pairs, [2]string{"Asset", result.AssetID})
	}
	fmt.Fprintln(cmd.OutOrStdout(), fieldTable(pairs))
}
