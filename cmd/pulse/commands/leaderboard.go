package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eipsinsight/pulse/internal/leaderboard"
	"github.com/eipsinsight/pulse/internal/model"
	"github.com/eipsinsight/pulse/internal/period"
	"github.com/eipsinsight/pulse/internal/report"
	"github.com/eipsinsight/pulse/internal/tenure"
)

// LeaderboardCommand holds the configuration for the leaderboard command.
type LeaderboardCommand struct {
	data   dataOptions
	period periodOptions
	year   int
}

// NewLeaderboardCommand creates and configures the leaderboard command.
func NewLeaderboardCommand() *cobra.Command {
	lc := &LeaderboardCommand{}

	cobraCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank reviewer contributions for a period",
		Long: `Rank reviewers by attributed review count over the selected
period, split into editor and reviewer cohorts. Reviews outside a
reviewer's tenure window are not counted.`,
		RunE: lc.run,
	}

	lc.data.register(cobraCmd)
	lc.period.register(cobraCmd)
	cobraCmd.Flags().IntVar(&lc.year, "year", 0, "Show yearly totals for this calendar year instead of a period board")

	return cobraCmd
}

func (lc *LeaderboardCommand) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := lc.data.loadConfig()
	if err != nil {
		return err
	}

	ds, err := fetchDataset(cobraCmd.Context(), cfg)
	if err != nil {
		return err
	}

	attributed := tenure.Filter(ds.Reviews, ds.Tenures)

	if lc.year != 0 {
		return lc.printYearlyTotals(attributed)
	}

	now := time.Now()

	r, err := lc.period.resolve(now, func(candidate period.Range) bool {
		return len(leaderboard.FilterRange(attributed, candidate)) > 0
	})
	if err != nil {
		return err
	}

	scoped := leaderboard.FilterRange(attributed, r)
	if len(scoped) == 0 {
		fmt.Fprintln(os.Stdout, report.MsgNoData)

		return nil
	}

	board := leaderboard.SplitByCohort(scoped, cohortMembership(cfg.Cohorts.Reviewers))
	fmt.Fprintln(os.Stdout, report.Leaderboard(board))

	return nil
}

func (lc *LeaderboardCommand) printYearlyTotals(events []model.ReviewEvent) error {
	enabled := make(map[string]bool)
	for _, name := range tenure.Reviewers(events) {
		enabled[name] = true
	}

	totals := leaderboard.YearlyTotals(events, lc.year, enabled)
	if len(totals) == 0 {
		fmt.Fprintln(os.Stdout, report.MsgNoData)

		return nil
	}

	board := leaderboard.Board{Editors: totals}
	fmt.Fprintln(os.Stdout, report.Leaderboard(board))

	return nil
}

// cohortMembership maps the configured reviewer names into the reviewer
// cohort. Anyone not listed defaults to the editor cohort downstream.
func cohortMembership(reviewers []string) map[string]leaderboard.Cohort {
	membership := make(map[string]leaderboard.Cohort, len(reviewers))
	for _, name := range reviewers {
		membership[name] = leaderboard.CohortReviewer
	}

	return membership
}
