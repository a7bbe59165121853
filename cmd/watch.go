package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nehorai4/git-project/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Prints a notification for every new issue, pull request and commit",
	Long: `Polls the repository at a fixed interval and prints a line for every new
issue, pull request and commit until interrupted. Items that already exist
when watching starts are not reported.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, githubGateway, logger := setup(cmd)
		out := &syncWriter{w: cmd.OutOrStdout()}
		controller := watcher.NewController(cfg.Watcher(), buildSink(cfg.Notify, out, logger), logger)

		if _, err := controller.Enable(ctx, githubGateway); err != nil {
			fail("Failed to start watching", err)
		}
		fmt.Fprintf(out, "Watching %s every %s. Press Ctrl+C to stop.\n", cfg.Repository, cfg.Interval)

		<-ctx.Done()
		controller.Disable()
		waitCtx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+time.Second)
		defer cancel()
		_ = controller.Wait(waitCtx)

		report := controller.Report()
		fmt.Fprintf(out, "Stopped after %d cycles (%d failed), %d notifications.\n",
			report.Cycles, report.FailedCycles, report.EventsEmitted)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("interval", watcher.DefaultInterval, "Time between polls")
	watchCmd.Flags().String("webhook", "", "Also POST notifications as JSON to this URL")
}
