package main

import (
	"context"

	"github.com/spf13/cobra"
	"sfpl/pkg/sfpl"
	"sfpl/pkg/ui"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Browse public patron profiles",
}

// userCommand resolves the named user before calling run
func userCommand(use, short string, nargs int, run func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, u sfpl.User, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			client, err := newClient()
			if err != nil {
				return err
			}
			user, err := client.LookupUser(ctx, args[0])
			if err != nil {
				return err
			}
			return run(ctx, cmd, client, user, args[1:])
		},
	}
}

var listCmdGroup = &cobra.Command{
	Use:   "list",
	Short: "Work with user lists",
}

func init() {
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(listCmdGroup)

	userCmd.AddCommand(userCommand("show <name>", "Resolve a user name to its profile id", 1,
		func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, u sfpl.User, args []string) error {
			ui.UserTable(cmd.OutOrStdout(), []sfpl.User{u})
			return nil
		}))

	userCmd.AddCommand(userCommand("following <name>", "List who a user follows", 1,
		func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, u sfpl.User, args []string) error {
			users, err := c.Following(ctx, u)
			if err != nil {
				return err
			}
			ui.UserTable(cmd.OutOrStdout(), users)
			return nil
		}))

	userCmd.AddCommand(userCommand("followers <name>", "List a user's followers", 1,
		func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, u sfpl.User, args []string) error {
			users, err := c.Followers(ctx, u)
			if err != nil {
				return err
			}
			ui.UserTable(cmd.OutOrStdout(), users)
			return nil
		}))

	userCmd.AddCommand(userCommand("lists <name>", "List a user's lists", 1,
		func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, u sfpl.User, args []string) error {
			lists, err := c.Lists(ctx, u)
			if err != nil {
				return err
			}
			ui.ListTable(cmd.OutOrStdout(), lists)
			return nil
		}))

	userCmd.AddCommand(userCommand("shelf <name> <for_later|in_progress|completed>", "List a user's shelf", 2,
		func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, u sfpl.User, args []string) error {
			shelf, err := sfpl.ParseShelf(args[0])
			if err != nil {
				return err
			}
			books, err := c.Shelf(ctx, u, shelf)
			if err != nil {
				return err
			}
			ui.BookTable(cmd.OutOrStdout(), books)
			return nil
		}))

	listCmdGroup.AddCommand(userCommand("books <user> <list-id>", "List the books on a user's list", 2,
		func(ctx context.Context, cmd *cobra.Command, c *sfpl.Client, u sfpl.User, args []string) error {
			list := sfpl.List{ID: args[0], Owner: sfpl.Owner{Name: u.Name, User: &u}}
			books, err := c.ListBooks(ctx, list)
			if err != nil {
				return err
			}
			ui.BookTable(cmd.OutOrStdout(), books)
			return nil
		}))
}
