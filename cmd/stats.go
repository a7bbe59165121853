package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nehorai4/git-project/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints issue, pull request and commit counts as JSON",
	Long:  `Counts the open and closed issues, open and closed pull requests, and commits on the default branch of the repository, and outputs the result in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, githubGateway, logger := setup(cmd)

		aggregator := usecase.NewAggregator(githubGateway, logger)
		results, err := aggregator.Aggregate(ctx, cfg.Repository)
		if err != nil {
			fail("Failed to aggregate stats", err)
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			fail("Failed to marshal results to JSON", err)
		}

		// Print the final JSON to standard output.
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
