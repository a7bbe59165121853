package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nehorai4/git-project/internal/domain"
	"github.com/Nehorai4/git-project/internal/gateway"
	"github.com/Nehorai4/git-project/internal/usecase"
	"github.com/Nehorai4/git-project/internal/watcher"
)

// repository is everything the shell can do against the remote repository.
type repository interface {
	gateway.RepositoryClient
	gateway.IssueManager
	gateway.BranchManager
}

// shell is the interactive foreground loop. Notifications, when toggled on,
// are printed by the background poller between commands.
type shell struct {
	repo       repository
	repoName   string
	controller *watcher.Controller
	aggregator *usecase.Aggregator
	out        io.Writer
}

const shellHelp = `Commands:
  toggle                      Turn new-item notifications on or off
  status                      Show notification status
  create <title>              Create a new issue
  close <number>              Close an existing issue
  issues [open|closed|all]    List issues (default: open)
  branches                    List branches
  branch <name> [from]        Create a branch
  delete-branch <name>        Delete a branch
  stats                       Show repository statistics
  help                        Show this help
  exit                        Quit`

// run reads commands from in until "exit" or end of input, then turns
// notifications off.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	defer s.controller.Disable()

	fmt.Fprintln(s.out, shellHelp)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !s.dispatch(ctx, line) {
			return nil
		}
	}
}

// dispatch runs one command line and reports whether the loop should continue.
func (s *shell) dispatch(ctx context.Context, line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var err error
	subject := "Repository " + s.repoName
	switch name {
	case "toggle":
		var status domain.PollerStatus
		status, err = s.controller.Toggle(ctx, s.repo)
		if err == nil {
			fmt.Fprintf(s.out, "Notifications %s\n", status)
		}
	case "status":
		s.printStatus()
	case "create":
		err = createIssue(ctx, s.repo, s.out, rest)
	case "close":
		var number int
		number, err = parseIssueNumber(rest)
		if err == nil {
			subject = fmt.Sprintf("Issue #%d", number)
			err = closeIssue(ctx, s.repo, s.out, number)
		}
	case "issues":
		state := rest
		if state == "" {
			state = domain.IssueStateOpen
		}
		if !domain.ValidIssueState(state) {
			fmt.Fprintln(s.out, "Invalid state, using default: open")
			state = domain.IssueStateOpen
		}
		err = listIssues(ctx, s.repo, s.out, state)
	case "branches":
		err = listBranches(ctx, s.repo, s.out)
	case "branch":
		branch, from, _ := strings.Cut(rest, " ")
		subject = "Base branch"
		err = createBranch(ctx, s.repo, s.out, branch, strings.TrimSpace(from))
	case "delete-branch":
		subject = "Branch " + rest
		if rest == "" {
			err = errors.New("branch name cannot be empty")
		} else {
			err = deleteBranch(ctx, s.repo, s.out, rest)
		}
	case "stats":
		err = s.printStats(ctx)
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "exit", "quit":
		fmt.Fprintln(s.out, "Exiting...")
		return false
	default:
		fmt.Fprintln(s.out, "Invalid choice, please try again...")
	}
	if err != nil {
		fmt.Fprintln(s.out, explain(err, subject))
	}
	return true
}

func (s *shell) printStatus() {
	r := s.controller.Report()
	fmt.Fprintf(s.out, "Notifications: %s\n", r.Status)
	if r.Cycles == 0 && r.Status == domain.Disabled {
		return
	}
	fmt.Fprintf(s.out, "Baseline: %d open issues, %d open pull requests, %d commits\n",
		r.Baseline.Issues, r.Baseline.PullRequests, r.Baseline.Commits)
	fmt.Fprintf(s.out, "Cycles: %d (%d failed), %d notifications\n", r.Cycles, r.FailedCycles, r.EventsEmitted)
	if r.Cycles > 0 {
		fmt.Fprintf(s.out, "Cycle latency: median %s, p95 %s\n", r.LatencyMedian, r.LatencyP95)
	}
	if r.LastError != "" {
		fmt.Fprintf(s.out, "Last error: %s\n", r.LastError)
	}
}

func (s *shell) printStats(ctx context.Context) error {
	stats, err := s.aggregator.Aggregate(ctx, s.repoName)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n  issues: %d open, %d closed\n  pull requests: %d open, %d closed\n  commits: %d\n",
		stats.Repository, stats.OpenIssues, stats.ClosedIssues,
		stats.OpenPullRequests, stats.ClosedPullRequests, stats.Commits)
	return nil
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Starts an interactive session with toggleable notifications",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg, githubGateway, logger := setup(cmd)
		out := &syncWriter{w: cmd.OutOrStdout()}

		login, err := githubGateway.AuthenticatedUser(ctx)
		if err != nil {
			fail("Invalid GitHub token. Please ensure it's correct and try again", err)
		}
		fmt.Fprintf(out, "Connected as %s\n", login)
		if _, err := githubGateway.CountOpenIssues(ctx); err != nil {
			exitWith(explain(err, fmt.Sprintf("Repository '%s'", cfg.Repository)))
		}
		fmt.Fprintf(out, "Successfully accessed repository: %s\n", cfg.Repository)

		sh := &shell{
			repo:       githubGateway,
			repoName:   cfg.Repository,
			controller: watcher.NewController(cfg.Watcher(), buildSink(cfg.Notify, out, logger), logger),
			aggregator: usecase.NewAggregator(githubGateway, logger),
			out:        out,
		}
		if err := sh.run(ctx, cmd.InOrStdin()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().Duration("interval", watcher.DefaultInterval, "Time between polls while notifications are on")
	shellCmd.Flags().String("webhook", "", "Also POST notifications as JSON to this URL")
}
