package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sceneforge/internal/assetstore"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Asset catalogue utilities",
	}

	storeCmd.AddCommand(newStoreImportCommand(ctx))
	storeCmd.AddCommand(newStoreListCommand(ctx))
	storeCmd.AddCommand(newStoreRemoveCommand(ctx))

	return storeCmd
}

func newStoreImportCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Copy a file into the library and catalogue it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.assetStore()
			if err != nil {
				return err
			}
			defer store.Close()

			asset, err := store.Import(cmd.Context(), args[0], kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s (%s)\n", asset.OriginalName, asset.ID, asset.Kind)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", assetstore.KindImage, "Asset kind: image, audio, video, captions")
	return cmd
}

func newStoreListCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.assetStore()
			if err != nil {
				return err
			}
			defer store.Close()

			assets, err := store.List(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if len(assets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalogue is empty.")
				return nil
			}

			rows := make([][]string, 0, len(assets))
			for _, asset := range assets {
				rows = append(rows, []string{
					asset.ID,
					asset.Kind,
					asset.OriginalName,
					strconv.FormatInt(asset.SizeBytes, 10),
					asset.CreatedAt.Local().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), rowTable(
				[]string{"ID", "Kind", "Name", "Bytes", "Created"},
				rows,
				"Bytes",
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Filter by asset kind")
	return cmd
}

func newStoreRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an asset and its library file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.assetStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
