package main

import (
	"bytes"
	"context"
	"strings"

	"github.com/spf13/cobra"
	"sfpl/pkg/sfpl"
	"sfpl/pkg/storage"
	"sfpl/pkg/ui"
)

var jacketForce bool

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Look up a catalog item by id",
}

// bookCommand creates a client for a command taking a single item id
func bookCommand(use, short string, run func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			client, err := newClient()
			if err != nil {
				return err
			}
			return run(ctx, cmd, client, args[0])
		},
	}
}

var bookShowCmd = bookCommand("show <id>", "Show an item's description and details",
	func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, id string) error {
		description, err := c.Description(ctx, id)
		if err != nil {
			return err
		}
		details, err := c.Details(ctx, id)
		if err != nil {
			return err
		}
		ui.PrintHighlight(description)
		ui.DetailTable(cmd.OutOrStdout(), details)
		return nil
	})

var bookDetailsCmd = bookCommand("details <id>", "Show an item's details",
	func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, id string) error {
		details, err := c.Details(ctx, id)
		if err != nil {
			return err
		}
		ui.DetailTable(cmd.OutOrStdout(), details)
		return nil
	})

var bookKeywordsCmd = bookCommand("keywords <id>", "Show an item's contents keywords",
	func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, id string) error {
		keywords, err := c.Keywords(ctx, id)
		if err != nil {
			return err
		}
		if len(keywords) == 0 {
			ui.PrintWarning("No keywords for " + id)
			return nil
		}
		ui.PrintInfo("Keywords", strings.Join(keywords, ", "))
		return nil
	})

var bookJacketCmd = bookCommand("jacket <id>", "Download an item's cover image",
	func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, id string) error {
		store, err := storage.NewManager(cfg.Output.JacketDirectory)
		if err != nil {
			return err
		}
		if path, ok := store.Path(id); ok && !jacketForce {
			ui.PrintInfo("Already downloaded", path)
			return nil
		}

		jacket, err := c.Jacket(ctx, id)
		if err != nil {
			return err
		}
		path, err := store.SaveJacket(bytes.NewReader(jacket.Data), id, jacket.Ext())
		if err != nil {
			return err
		}
		ui.PrintSuccess("Saved " + path)
		return nil
	})

func init() {
	rootCmd.AddCommand(bookCmd)
	bookCmd.AddCommand(bookShowCmd)
	bookCmd.AddCommand(bookDetailsCmd)
	bookCmd.AddCommand(bookKeywordsCmd)
	bookCmd.AddCommand(bookJacketCmd)
	bookJacketCmd.Flags().BoolVarP(&jacketForce, "force", "f", false, "download even if a jacket is already saved")
}
