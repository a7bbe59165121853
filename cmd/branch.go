package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Create, delete and list branches",
}

var branchCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Creates a branch from --from, or from the default branch",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		_, githubGateway, _ := setup(cmd)
		if err := createBranch(context.Background(), githubGateway, cmd.OutOrStdout(), args[0], from); err != nil {
			exitWith(explain(err, "Base branch"))
		}
	},
}

var branchDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Deletes a branch",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, githubGateway, _ := setup(cmd)
		if err := deleteBranch(context.Background(), githubGateway, cmd.OutOrStdout(), args[0]); err != nil {
			exitWith(explain(err, "Branch "+args[0]))
		}
	},
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists branches",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, githubGateway, _ := setup(cmd)
		if err := listBranches(context.Background(), githubGateway, cmd.OutOrStdout()); err != nil {
			exitWith(explain(err, "Repository"))
		}
	},
}

func init() {
	rootCmd.AddCommand(branchCmd)
	branchCmd.AddCommand(branchCreateCmd, branchDeleteCmd, branchListCmd)
	branchCreateCmd.Flags().String("from", "", "Branch to start from (default: the repository's default branch)")
}
