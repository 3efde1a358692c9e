// Package commands implements the pulse CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/eipsinsight/pulse/internal/apiclient"
	"github.com/eipsinsight/pulse/internal/config"
	"github.com/eipsinsight/pulse/internal/lifecycle"
	"github.com/eipsinsight/pulse/internal/period"
	"github.com/eipsinsight/pulse/internal/tenure"
)

// Flag names shared across subcommands.
const (
	FlagConfig  = "config"
	FlagAPIURL  = "api-url"
	FlagDataDir = "data-dir"
	FlagRepos   = "repos"
	FlagPeriod  = "period"
	FlagFrom    = "from"
	FlagTo      = "to"
	FlagOutput  = "output"
)

// Sentinel errors shared across subcommands.
var (
	ErrInvalidPeriod    = errors.New("invalid period (use all, week, month, year, or custom)")
	ErrInvalidDate      = errors.New("cannot parse date (use YYYY-MM-DD)")
	ErrCustomNeedsRange = errors.New("custom period requires both --from and --to")
)

// dataOptions holds the flags shared by every data-consuming subcommand.
type dataOptions struct {
	configPath string
	apiURL     string
	dataDir    string
	repos      []string
}

func (o *dataOptions) register(cobraCmd *cobra.Command) {
	cobraCmd.Flags().StringVarP(&o.configPath, FlagConfig, "c", "", "Config file path (default: .pulse.yaml)")
	cobraCmd.Flags().StringVar(&o.apiURL, FlagAPIURL, "", "Base URL of the activity API")
	cobraCmd.Flags().StringVar(&o.dataDir, FlagDataDir, "", "Directory of local JSON snapshots instead of the API")
	cobraCmd.Flags().StringSliceVarP(&o.repos, FlagRepos, "r", nil, "Repositories to aggregate (default: eips,ercs,rips)")
}

// loadConfig loads the configuration file and merges flag overrides on top.
func (o *dataOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}

	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}

	if len(o.repos) > 0 {
		cfg.Repos = o.repos
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	err = cfg.RequireDataSource()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// fetchDataset loads the dataset from the configured source. A local data
// directory takes precedence over the API so snapshots stay reproducible.
func fetchDataset(ctx context.Context, cfg *config.Config) (*apiclient.Dataset, error) {
	if cfg.DataDir != "" {
		ds, err := apiclient.LoadDataset(cfg.DataDir, cfg.Repos)
		if err != nil {
			return nil, fmt.Errorf("load local dataset: %w", err)
		}

		return ds, nil
	}

	client := apiclient.New(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout})

	ds, err := client.FetchDataset(ctx, cfg.Repos)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}

	return ds, nil
}

// buildIndex runs the full aggregation pipeline on a dataset: dedup,
// monthly bucketing, tenure filtering and review attachment.
func buildIndex(ds *apiclient.Dataset, now time.Time) lifecycle.Index {
	items := lifecycle.Dedup(ds.Items)
	idx := lifecycle.BucketItems(items, now)
	idx.AddReviews(tenure.Filter(ds.Reviews, ds.Tenures))

	return idx
}

// indexHasData reports whether any bucket inside the range holds records.
func indexHasData(idx lifecycle.Index, r period.Range) bool {
	for month, bucket := range idx {
		if !r.Contains(month) {
			continue
		}

		if len(bucket.Created) > 0 || len(bucket.Closed) > 0 ||
			len(bucket.Merged) > 0 || len(bucket.Open) > 0 || len(bucket.Reviews) > 0 {
			return true
		}
	}

	return false
}

// periodOptions holds the time-period selection flags.
type periodOptions struct {
	period string
	from   string
	to     string
}

func (o *periodOptions) register(cobraCmd *cobra.Command) {
	cobraCmd.Flags().StringVarP(&o.period, FlagPeriod, "p", "all", "Time period (all, week, month, year, custom)")
	cobraCmd.Flags().StringVar(&o.from, FlagFrom, "", "Custom period start (YYYY-MM-DD)")
	cobraCmd.Flags().StringVar(&o.to, FlagTo, "", "Custom period end (YYYY-MM-DD)")
}

// resolve parses the period flags and selects the month range, falling back
// to the previous month or year when the requested one has no data.
func (o *periodOptions) resolve(now time.Time, hasData func(period.Range) bool) (period.Range, error) {
	p := period.Period(o.period)

	custom, err := o.customRange()
	if err != nil {
		return period.Range{}, err
	}

	r, err := period.SelectWithFallback(p, now, custom, hasData)
	if err != nil {
		if errors.Is(err, period.ErrUnknownPeriod) {
			return period.Range{}, fmt.Errorf("%w: %s", ErrInvalidPeriod, o.period)
		}

		return period.Range{}, err
	}

	return r, nil
}

func (o *periodOptions) customRange() (*period.CustomRange, error) {
	if o.from == "" && o.to == "" {
		return nil, nil
	}

	if o.from == "" || o.to == "" {
		return nil, ErrCustomNeedsRange
	}

	start, err := time.Parse(time.DateOnly, o.from)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, o.from)
	}

	end, err := time.Parse(time.DateOnly, o.to)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, o.to)
	}

	return &period.CustomRange{Start: start, End: end}, nil
}
