// Package config loads the CLI configuration from an optional YAML file and
// the environment. Command-line flags are applied on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Nehorai4/git-project/internal/gateway"
	"github.com/Nehorai4/git-project/internal/watcher"
)

// TokenEnv is the environment variable holding the GitHub token.
const TokenEnv = "GITHUB_TOKEN"

type Config struct {
	Repository string `yaml:"repository"`
	// Token is normally supplied through GITHUB_TOKEN rather than the file.
	Token        string        `yaml:"token"`
	Interval     time.Duration `yaml:"interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Notify       NotifyConfig  `yaml:"notify"`
}

type NotifyConfig struct {
	Console    bool    `yaml:"console"`
	WebhookURL string  `yaml:"webhook_url"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	Burst      int     `yaml:"burst"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Interval:     watcher.DefaultInterval,
		FetchTimeout: watcher.DefaultFetchTimeout,
		Notify: NotifyConfig{
			Console:    true,
			RatePerSec: 1,
			Burst:      5,
		},
	}
}

// Load reads path over the defaults (an empty path skips the file) and then
// applies the token from the environment when it is set.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Token = token
	}
	return cfg, nil
}

// Validate checks the fields every command needs.
func (c Config) Validate() error {
	var errs []error
	if c.Token == "" {
		errs = append(errs, fmt.Errorf("%s environment variable is not set", TokenEnv))
	}
	if c.Repository == "" {
		errs = append(errs, errors.New("repository is not set"))
	} else if _, _, err := gateway.SplitRepository(c.Repository); err != nil {
		errs = append(errs, err)
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.Notify.RatePerSec < 0 {
		errs = append(errs, fmt.Errorf("notify.rate_per_sec must not be negative, got %v", c.Notify.RatePerSec))
	}
	return errors.Join(errs...)
}

// Watcher returns the poller settings.
func (c Config) Watcher() watcher.Config {
	return watcher.Config{
		Repository:   c.Repository,
		Interval:     c.Interval,
		FetchTimeout: c.FetchTimeout,
	}
}
