package main

import (
	"strings"

	"github.com/spf13/cobra"
	"sfpl/pkg/sfpl"
	"sfpl/pkg/ui"
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Look up library branches",
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every branch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.BranchTable(cmd.OutOrStdout(), sfpl.Branches)
		return nil
	},
}

var branchFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Resolve a partial branch name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		branch, err := sfpl.ResolveBranch(strings.Join(args, " "))
		if err != nil {
			return err
		}
		ui.BranchTable(cmd.OutOrStdout(), []sfpl.Branch{branch})
		return nil
	},
}

var branchHoursCmd = &cobra.Command{
	Use:   "hours <name>",
	Short: "Show a branch's opening hours",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		branch, err := sfpl.ResolveBranch(strings.Join(args, " "))
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		client, err := newClient()
		if err != nil {
			return err
		}
		hours, err := client.Hours(ctx, branch)
		if err != nil {
			return err
		}
		ui.HoursTable(cmd.OutOrStdout(), branch, hours)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(branchCmd)
	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchFindCmd)
	branchCmd.AddCommand(branchHoursCmd)
}
