// Package config loads tool configuration from file, environment and
// defaults. The aggregation engine itself takes everything as function
// arguments; config only shapes how the CLI invokes it.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults.
const (
	DefaultAPITimeout = 30 * time.Second
	DefaultOutputDir  = "dist"
)

// DefaultRepos are the standards repositories tracked out of the box.
var DefaultRepos = []string{"eips", "ercs", "rips"}

// Validation errors.
var (
	ErrNoRepos        = errors.New("config: at least one repository is required")
	ErrBadTimeout     = errors.New("config: api.timeout must be positive")
	ErrNoDataSource   = errors.New("config: either api.base_url or data_dir is required")
	ErrDuplicateRepos = errors.New("config: duplicate repository")
)

// Config is the top-level configuration struct for pulse.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	API     APIConfig    `mapstructure:"api"`
	Repos   []string     `mapstructure:"repos"`
	DataDir string       `mapstructure:"data_dir"`
	Cohorts CohortConfig `mapstructure:"cohorts"`
	Output  OutputConfig `mapstructure:"output"`
}

// APIConfig locates the external data service.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CohortConfig is the static membership list splitting the leaderboard.
// Names listed here form the reviewer cohort; everyone else observed in the
// data counts as an editor.
type CohortConfig struct {
	Reviewers []string `mapstructure:"reviewers"`
}

// OutputConfig controls where generated files land.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Repos) == 0 {
		return ErrNoRepos
	}

	seen := make(map[string]struct{}, len(c.Repos))

	for _, repo := range c.Repos {
		_, dup := seen[repo]
		if dup {
			return fmt.Errorf("%w: %s", ErrDuplicateRepos, repo)
		}

		seen[repo] = struct{}{}
	}

	if c.API.Timeout <= 0 {
		return ErrBadTimeout
	}

	return nil
}

// RequireDataSource checks that a data source is configured. Called after CLI
// flag overrides are merged in, not at load time, so flag-only invocations
// work without a config file.
func (c *Config) RequireDataSource() error {
	if c.API.BaseURL == "" && c.DataDir == "" {
		return ErrNoDataSource
	}

	return nil
}
