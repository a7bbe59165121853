package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Nehorai4/git-project/internal/domain"
	"github.com/Nehorai4/git-project/internal/gateway"
)

// The operations below are shared by the one-shot subcommands and the
// interactive shell. They print their result to out and return any error
// for the caller to report through explain.

func createIssue(ctx context.Context, m gateway.IssueManager, out io.Writer, title string) error {
	if title == "" {
		return errors.New("issue title cannot be empty")
	}
	issue, err := m.CreateIssue(ctx, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Issue created successfully: #%d - %s\n", issue.Number, issue.Title)
	return nil
}

func closeIssue(ctx context.Context, m gateway.IssueManager, out io.Writer, number int) error {
	if _, err := m.CloseIssue(ctx, number); err != nil {
		return err
	}
	fmt.Fprintf(out, "Issue #%d closed successfully\n", number)
	return nil
}

func listIssues(ctx context.Context, m gateway.IssueManager, out io.Writer, state string) error {
	issues, err := m.ListIssues(ctx, state)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		fmt.Fprintf(out, "No issues found with state: %s\n", state)
		return nil
	}
	fmt.Fprintf(out, "Issues (state: %s):\n", state)
	for _, issue := range issues {
		fmt.Fprintf(out, "#%d - %s (%s)\n", issue.Number, issue.Title, issue.State)
	}
	return nil
}

func createBranch(ctx context.Context, m gateway.BranchManager, out io.Writer, name, from string) error {
	if name == "" {
		return errors.New("branch name cannot be empty")
	}
	branch, err := m.CreateBranch(ctx, name, from)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Branch %s created at %s\n", branch.Name, shortSHA(branch.SHA))
	return nil
}

func deleteBranch(ctx context.Context, m gateway.BranchManager, out io.Writer, name string) error {
	if err := m.DeleteBranch(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Branch %s deleted\n", name)
	return nil
}

func listBranches(ctx context.Context, m gateway.BranchManager, out io.Writer) error {
	branches, err := m.ListBranches(ctx)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		fmt.Fprintln(out, "No branches found")
		return nil
	}
	fmt.Fprintln(out, "Branches:")
	for _, b := range branches {
		line := fmt.Sprintf("%s (%s)", b.Name, shortSHA(b.SHA))
		if b.Protected {
			line += " [protected]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// parseIssueNumber accepts positive integers only.
func parseIssueNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("please enter a valid number")
	}
	if n <= 0 {
		return 0, errors.New("issue number must be a positive integer")
	}
	return n, nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// explain turns an operation error into the message shown to the operator.
// subject names the thing the operation was about, e.g. "Issue #4".
func explain(err error, subject string) string {
	switch {
	case errors.Is(err, domain.ErrIssueAlreadyClosed):
		return fmt.Sprintf("%s is already closed", subject)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("%s does not exist", subject)
	case errors.Is(err, domain.ErrConnectivity):
		return fmt.Sprintf("Could not reach GitHub: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
