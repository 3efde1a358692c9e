package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/spf13/cobra"

	"github.com/eipsinsight/pulse/internal/colors"
	"github.com/eipsinsight/pulse/internal/leaderboard"
	"github.com/eipsinsight/pulse/internal/period"
	"github.com/eipsinsight/pulse/internal/plot"
	"github.com/eipsinsight/pulse/internal/report"
	"github.com/eipsinsight/pulse/internal/tenure"
)

const dashboardFileName = "dashboard.html"

// DashboardCommand holds the configuration for the dashboard command.
type DashboardCommand struct {
	data   dataOptions
	period periodOptions
	output string
}

// NewDashboardCommand creates and configures the dashboard command.
func NewDashboardCommand() *cobra.Command {
	dc := &DashboardCommand{}

	cobraCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render an HTML chart dashboard",
		Long: `Render the lifecycle, reviewer activity and leaderboard charts
for the selected period into a single self-contained HTML page.`,
		RunE: dc.run,
	}

	dc.data.register(cobraCmd)
	dc.period.register(cobraCmd)
	cobraCmd.Flags().StringVarP(&dc.output, FlagOutput, "o", "", "Output file (default: <output-dir>/dashboard.html)")

	return cobraCmd
}

func (dc *DashboardCommand) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := dc.data.loadConfig()
	if err != nil {
		return err
	}

	ds, err := fetchDataset(cobraCmd.Context(), cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	idx := buildIndex(ds, now)
	attributed := tenure.Filter(ds.Reviews, ds.Tenures)

	r, err := dc.period.resolve(now, func(candidate period.Range) bool {
		return indexHasData(idx, candidate)
	})
	if err != nil {
		return err
	}

	if !indexHasData(idx, r) {
		fmt.Fprintln(os.Stdout, report.MsgNoData)

		return nil
	}

	registry := colors.NewRegistry(tenure.Reviewers(attributed))
	board := leaderboard.SplitByCohort(leaderboard.FilterRange(attributed, r), cohortMembership(cfg.Cohorts.Reviewers))

	chartList := []components.Charter{
		plot.LifecycleChart(idx, r),
		plot.ReviewerActivityChart(idx, r, registry),
	}

	if len(board.Editors) > 0 {
		chartList = append(chartList, plot.LeaderboardChart("Editors Leaderboard", board.Editors, registry))
	}

	if len(board.Reviewers) > 0 {
		chartList = append(chartList, plot.LeaderboardChart("Reviewers Leaderboard", board.Reviewers, registry))
	}

	path, err := dc.resolveOutputPath(cfg.Output.Dir)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard file: %w", err)
	}
	defer f.Close()

	err = plot.WriteDashboard(f, chartList...)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Dashboard written to %s\n", path)

	return nil
}

func (dc *DashboardCommand) resolveOutputPath(outputDir string) (string, error) {
	if dc.output != "" {
		return dc.output, nil
	}

	err := os.MkdirAll(outputDir, 0o755)
	if err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	return filepath.Join(outputDir, dashboardFileName), nil
}
