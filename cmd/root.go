// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nehorai4/git-project/internal/config"
	"github.com/Nehorai4/git-project/internal/gateway"
)

var rootCmd = &cobra.Command{
	Use:   "git-project",
	Short: "Manage a GitHub repository and get notified about new activity.",
	Long: `git-project manages the issues and branches of a single GitHub repository
and can watch it in the background, printing a notification for every new
issue, pull request and commit.

The token is read from the GITHUB_TOKEN environment variable.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringP("repo", "r", "", "Target repository as owner/name")
}

// newLogger discards everything unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}
	return logger
}

// loadConfig merges the config file, the environment and the flags of cmd,
// then validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
		cfg.Repository = repo
	}
	if f := cmd.Flags().Lookup("interval"); f != nil && f.Changed {
		cfg.Interval, _ = cmd.Flags().GetDuration("interval")
	}
	if f := cmd.Flags().Lookup("webhook"); f != nil && f.Changed {
		cfg.Notify.WebhookURL, _ = cmd.Flags().GetString("webhook")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setup is the common prologue of every command that talks to GitHub.
// It exits the process on failure, like the rest of the commands do.
func setup(cmd *cobra.Command) (config.Config, *gateway.GitHubGateway, *log.Logger) {
	logger := newLogger(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	githubGateway, err := gateway.NewGitHubGateway(cfg.Repository, cfg.Token, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
		os.Exit(1)
	}
	return cfg, githubGateway, logger
}

// fail prints err to standard error and exits with status 1.
func fail(format string, err error) {
	fmt.Fprintf(os.Stderr, format+": %v\n", err)
	os.Exit(1)
}
