package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eipsinsight/pulse/internal/apiclient"
	"github.com/eipsinsight/pulse/internal/export"
	"github.com/eipsinsight/pulse/internal/leaderboard"
	"github.com/eipsinsight/pulse/internal/lifecycle"
	"github.com/eipsinsight/pulse/internal/model"
	"github.com/eipsinsight/pulse/internal/monthkey"
	"github.com/eipsinsight/pulse/internal/period"
	"github.com/eipsinsight/pulse/internal/report"
	"github.com/eipsinsight/pulse/internal/tenure"
)

// Sentinel errors for the export command.
var (
	ErrInvalidMonth = errors.New("cannot parse month (use YYYY-MM)")
	ErrExportClash  = errors.New("--month and --reviews are mutually exclusive")
)

// ExportCommand holds the configuration for the export command.
type ExportCommand struct {
	data    dataOptions
	period  periodOptions
	month   string
	reviews bool
	output  string
}

// NewExportCommand creates and configures the export command.
func NewExportCommand() *cobra.Command {
	ec := &ExportCommand{}

	cobraCmd := &cobra.Command{
		Use:   "export",
		Short: "Export activity as CSV",
		Long: `Export work items or attributed reviews as CSV.

By default items created in the selected period are exported, one row
per item keyed by creation month. With --month a single month's bucket
is exported instead, covering every item created, open, closed or
merged in it. With --reviews the attributed review log is exported.`,
		RunE: ec.run,
	}

	ec.data.register(cobraCmd)
	ec.period.register(cobraCmd)
	cobraCmd.Flags().StringVarP(&ec.month, "month", "m", "", "Export a single month's bucket (YYYY-MM)")
	cobraCmd.Flags().BoolVar(&ec.reviews, "reviews", false, "Export attributed reviews instead of items")
	cobraCmd.Flags().StringVarP(&ec.output, FlagOutput, "o", "", "Output file (default: stdout)")

	return cobraCmd
}

func (ec *ExportCommand) run(cobraCmd *cobra.Command, _ []string) error {
	if ec.month != "" && ec.reviews {
		return ErrExportClash
	}

	cfg, err := ec.data.loadConfig()
	if err != nil {
		return err
	}

	ds, err := fetchDataset(cobraCmd.Context(), cfg)
	if err != nil {
		return err
	}

	out, closeOut, err := ec.openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	now := time.Now()

	switch {
	case ec.month != "":
		return ec.exportBucket(ds, now, out)
	case ec.reviews:
		return ec.exportReviews(ds, now, out)
	default:
		return ec.exportItems(ds, now, out)
	}
}

// openOutput returns the export destination and its cleanup func.
func (ec *ExportCommand) openOutput() (io.Writer, func(), error) {
	if ec.output == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(ec.output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

// exportItems writes every deduplicated item created in the selected period.
func (ec *ExportCommand) exportItems(ds *apiclient.Dataset, now time.Time, out io.Writer) error {
	items := lifecycle.Dedup(ds.Items)

	idx := lifecycle.BucketItems(items, now)

	r, err := ec.period.resolve(now, func(candidate period.Range) bool {
		return indexHasData(idx, candidate)
	})
	if err != nil {
		return err
	}

	var scoped []model.WorkItem

	for _, item := range items {
		if r.Contains(monthkey.Of(item.CreatedAt)) {
			scoped = append(scoped, item)
		}
	}

	if len(scoped) == 0 {
		fmt.Fprintln(os.Stderr, report.MsgNoData)

		return nil
	}

	return export.Write(out, export.WorkItemHeader, export.WorkItemRows(scoped))
}

// exportBucket writes a single month's bucket: every item that was created,
// open, closed or merged in it, each at most once.
func (ec *ExportCommand) exportBucket(ds *apiclient.Dataset, now time.Time, out io.Writer) error {
	key, err := monthkey.Parse(ec.month)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMonth, ec.month)
	}

	idx := lifecycle.BucketItems(lifecycle.Dedup(ds.Items), now)

	bucket, ok := idx[key]
	if !ok {
		fmt.Fprintln(os.Stderr, report.MsgNoData)

		return nil
	}

	items := concatUnique(bucket.Created, bucket.Open, bucket.Closed, bucket.Merged)

	return export.Write(out, export.WorkItemHeader, export.WorkItemRowsKeyed(key, items))
}

// exportReviews writes the tenure-attributed review log for the period.
func (ec *ExportCommand) exportReviews(ds *apiclient.Dataset, now time.Time, out io.Writer) error {
	attributed := tenure.Filter(ds.Reviews, ds.Tenures)

	r, err := ec.period.resolve(now, func(candidate period.Range) bool {
		return len(leaderboard.FilterRange(attributed, candidate)) > 0
	})
	if err != nil {
		return err
	}

	scoped := leaderboard.FilterRange(attributed, r)
	if len(scoped) == 0 {
		fmt.Fprintln(os.Stderr, report.MsgNoData)

		return nil
	}

	return export.Write(out, export.ReviewHeader, export.ReviewRows(scoped))
}

// concatUnique merges item slices keeping the first occurrence of each
// (repository, id) pair.
func concatUnique(groups ...[]model.WorkItem) []model.WorkItem {
	type itemKey struct {
		repo string
		id   int
	}

	seen := make(map[itemKey]bool)

	var merged []model.WorkItem

	for _, group := range groups {
		for _, item := range group {
			key := itemKey{repo: item.Repo, id: item.ID}
			if seen[key] {
				continue
			}

			seen[key] = true

			merged = append(merged, item)
		}
	}

	return merged
}
