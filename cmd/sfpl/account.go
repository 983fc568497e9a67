package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sfpl/pkg/sfpl"
	"sfpl/pkg/ui"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Work with your own library account",
	Long: `Commands that log in with the selected library card.

The card comes from SFPL_BARCODE/SFPL_PIN, the saved card named by
--barcode, or the most recently saved card.`,
}

// accountCommand wraps a run function with login and logout
func accountCommand(use, short string, args cobra.PositionalArgs, run func(cmd *cobra.Command, a *sfpl.Account, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			account, err := login(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = account.Logout(ctx) }()

			cmd.SetContext(ctx)
			return run(cmd, account, args)
		},
	}
}

func init() {
	rootCmd.AddCommand(accountCmd)

	accountCmd.AddCommand(accountCommand("whoami", "Show the logged in patron", cobra.NoArgs,
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			ui.PrintInfo("Name", a.Name)
			ui.PrintInfo("User ID", a.ID)
			return nil
		}))

	accountCmd.AddCommand(accountCommand("checkouts", "List checked out items with due dates", cobra.NoArgs,
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			books, err := a.Checkouts(cmd.Context())
			if err != nil {
				return err
			}
			ui.BookTable(cmd.OutOrStdout(), books)
			return nil
		}))

	accountCmd.AddCommand(accountCommand("holds", "List holds with their status", cobra.NoArgs,
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			books, err := a.Holds(cmd.Context())
			if err != nil {
				return err
			}
			ui.BookTable(cmd.OutOrStdout(), books)
			return nil
		}))

	accountCmd.AddCommand(accountCommand("shelf <for_later|in_progress|completed>", "List a shelf", cobra.ExactArgs(1),
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			shelf, err := sfpl.ParseShelf(args[0])
			if err != nil {
				return err
			}
			books, err := a.Shelf(cmd.Context(), shelf)
			if err != nil {
				return err
			}
			ui.BookTable(cmd.OutOrStdout(), books)
			return nil
		}))

	accountCmd.AddCommand(accountCommand("hold <book-id> <branch>", "Place a hold for pickup at a branch", cobra.MinimumNArgs(2),
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			branch, err := sfpl.ResolveBranch(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if err := a.Hold(cmd.Context(), sfpl.Book{ID: args[0]}, branch); err != nil {
				return err
			}
			ui.PrintSuccess(fmt.Sprintf("Hold placed on %s for pickup at %s", args[0], branch.Name))
			return nil
		}))

	accountCmd.AddCommand(accountCommand("cancel <title>", "Cancel the hold with this exact title", cobra.MinimumNArgs(1),
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			title := strings.Join(args, " ")
			if err := a.CancelHold(cmd.Context(), sfpl.Book{Title: title}); err != nil {
				return err
			}
			ui.PrintSuccess("Cancelled hold on " + title)
			return nil
		}))

	accountCmd.AddCommand(accountCommand("renew <title>", "Renew the checkout with this exact title", cobra.MinimumNArgs(1),
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			title := strings.Join(args, " ")
			if err := a.Renew(cmd.Context(), sfpl.Book{Title: title}); err != nil {
				return err
			}
			ui.PrintSuccess("Renewed " + title)
			return nil
		}))

	accountCmd.AddCommand(accountCommand("follow <user>", "Follow another patron", cobra.ExactArgs(1),
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			return setFollow(cmd, a, args[0], true)
		}))

	accountCmd.AddCommand(accountCommand("unfollow <user>", "Stop following a patron", cobra.ExactArgs(1),
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			return setFollow(cmd, a, args[0], false)
		}))

	accountCmd.AddCommand(accountCommand("status", "Check that the saved card still logs in", cobra.NoArgs,
		func(cmd *cobra.Command, a *sfpl.Account, args []string) error {
			ok, err := a.IsLoggedIn(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				ui.PrintWarning("Session expired")
				return nil
			}
			ui.PrintSuccess("Logged in as " + a.Name)
			return nil
		}))
}

func setFollow(cmd *cobra.Command, a *sfpl.Account, name string, follow bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	other, err := client.LookupUser(cmd.Context(), name)
	if err != nil {
		return err
	}

	if follow {
		err = a.Follow(cmd.Context(), other)
	} else {
		err = a.Unfollow(cmd.Context(), other)
	}
	if err != nil {
		return err
	}

	verb := "Following"
	if !follow {
		verb = "Unfollowed"
	}
	ui.PrintSuccess(fmt.Sprintf("%s %s", verb, other.Name))
	return nil
}
