package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nehorai4/git-project/internal/domain"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Create, close and list issues",
}

var issueCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Creates a new issue",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, githubGateway, _ := setup(cmd)
		title := strings.Join(args, " ")
		if err := createIssue(context.Background(), githubGateway, cmd.OutOrStdout(), title); err != nil {
			exitWith(explain(err, "Issue"))
		}
	},
}

var issueCloseCmd = &cobra.Command{
	Use:   "close <number>",
	Short: "Closes an open issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		number, err := parseIssueNumber(args[0])
		if err != nil {
			exitWith(explain(err, ""))
		}
		_, githubGateway, _ := setup(cmd)
		if err := closeIssue(context.Background(), githubGateway, cmd.OutOrStdout(), number); err != nil {
			exitWith(explain(err, fmt.Sprintf("Issue #%d", number)))
		}
	},
}

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists issues, filtered by state (open, closed or all)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		state, _ := cmd.Flags().GetString("state")
		if !domain.ValidIssueState(state) {
			exitWith(fmt.Sprintf("Invalid state %q: use open, closed or all", state))
		}
		_, githubGateway, _ := setup(cmd)
		if err := listIssues(context.Background(), githubGateway, cmd.OutOrStdout(), state); err != nil {
			exitWith(explain(err, "Repository"))
		}
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.AddCommand(issueCreateCmd, issueCloseCmd, issueListCmd)
	issueListCmd.Flags().StringP("state", "s", domain.IssueStateOpen, "Issue state: open, closed or all")
}

func exitWith(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
