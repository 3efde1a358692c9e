package commands

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eipsinsight/pulse/internal/apiclient"
	"github.com/eipsinsight/pulse/internal/lifecycle"
	"github.com/eipsinsight/pulse/internal/model"
	"github.com/eipsinsight/pulse/internal/monthkey"
	"github.com/eipsinsight/pulse/internal/period"
)

func TestNewCommands_FlagRegistration(t *testing.T) {
	t.Parallel()

	shared := []string{FlagConfig, FlagAPIURL, FlagDataDir, FlagRepos, FlagPeriod, FlagFrom, FlagTo}

	tests := []struct {
		name  string
		flags []string
	}{
		{"activity", shared},
		{"leaderboard", append([]string{"year"}, shared...)},
		{"export", append([]string{"month", "reviews", FlagOutput}, shared...)},
		{"dashboard", append([]string{FlagOutput}, shared...)},
	}

	constructors := map[string]func() *cobra.Command{
		"activity":    NewActivityCommand,
		"leaderboard": NewLeaderboardCommand,
		"export":      NewExportCommand,
		"dashboard":   NewDashboardCommand,
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := constructors[tt.name]()
			for _, flagName := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flagName), "flag --%s should be registered", flagName)
			}
		})
	}
}

func TestPeriodOptions_Resolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	always := func(period.Range) bool { return true }

	t.Run("all", func(t *testing.T) {
		t.Parallel()

		opts := periodOptions{period: "all"}

		r, err := opts.resolve(now, always)
		require.NoError(t, err)
		assert.True(t, r.All)
	})

	t.Run("unknown period", func(t *testing.T) {
		t.Parallel()

		opts := periodOptions{period: "fortnight"}

		_, err := opts.resolve(now, always)
		require.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()

		opts := periodOptions{period: "custom", from: "2024-01-15", to: "2024-03-02"}

		r, err := opts.resolve(now, always)
		require.NoError(t, err)
		assert.Equal(t, monthkey.Key("2024-01"), r.Start)
		assert.Equal(t, monthkey.Key("2024-03"), r.End)
	})

	t.Run("custom missing bound", func(t *testing.T) {
		t.Parallel()

		opts := periodOptions{period: "custom", from: "2024-01-15"}

		_, err := opts.resolve(now, always)
		require.ErrorIs(t, err, ErrCustomNeedsRange)
	})

	t.Run("custom bad date", func(t *testing.T) {
		t.Parallel()

		opts := periodOptions{period: "custom", from: "15/01/2024", to: "2024-03-02"}

		_, err := opts.resolve(now, always)
		require.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("month falls back once", func(t *testing.T) {
		t.Parallel()

		opts := periodOptions{period: "month"}
		hasData := func(r period.Range) bool { return r.Contains("2024-05") }

		r, err := opts.resolve(now, hasData)
		require.NoError(t, err)
		assert.Equal(t, monthkey.Key("2024-05"), r.Start)
	})
}

func TestIndexHasData(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	items := []model.WorkItem{
		{Kind: model.KindPR, ID: 1, Repo: "eips", CreatedAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	idx := lifecycle.BucketItems(items, now)

	inRange := period.Range{Start: "2024-03", End: "2024-03"}
	outOfRange := period.Range{Start: "2020-01", End: "2020-12"}

	assert.True(t, indexHasData(idx, inRange))
	assert.False(t, indexHasData(idx, outOfRange))
}

func TestConcatUnique(t *testing.T) {
	t.Parallel()

	a := model.WorkItem{ID: 1, Repo: "eips"}
	b := model.WorkItem{ID: 2, Repo: "eips"}
	c := model.WorkItem{ID: 1, Repo: "ercs"}

	merged := concatUnique([]model.WorkItem{a, b}, []model.WorkItem{b, a, c}, nil)
	require.Len(t, merged, 3, "same id in another repository is a distinct item")
	assert.Equal(t, 1, merged[0].ID)
	assert.Equal(t, 2, merged[1].ID)
	assert.Equal(t, "ercs", merged[2].Repo)
}

func TestBuildIndex_SameNumberAcrossReposCountsBoth(t *testing.T) {
	t.Parallel()

	// The default config aggregates eips, ercs and rips together, and every
	// repository numbers its items from 1. PR #5 exists in two of them here;
	// both must survive the pipeline's dedup and bucketing.
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	ds := &apiclient.Dataset{
		Items: []model.WorkItem{
			{Kind: model.KindPR, ID: 5, Repo: "eips", CreatedAt: created},
			{Kind: model.KindPR, ID: 5, Repo: "ercs", CreatedAt: created},
		},
	}

	idx := buildIndex(ds, now)

	require.Len(t, idx["2024-05"].Created, 2)
	require.Len(t, idx["2024-05"].Open, 2)
}

func TestCohortMembership(t *testing.T) {
	t.Parallel()

	membership := cohortMembership([]string{"alice", "bob"})
	assert.Len(t, membership, 2)
	assert.Contains(t, membership, "alice")
}

func TestExportCommand_ExportItems(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	ds := &apiclient.Dataset{
		Items: []model.WorkItem{
			{Kind: model.KindPR, ID: 7, Repo: "eips", Title: "widen header rule", CreatedAt: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)},
			{Kind: model.KindPR, ID: 7, Repo: "eips", Title: "widen header rule", CreatedAt: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)},
		},
	}

	ec := &ExportCommand{period: periodOptions{period: "all"}}

	var buf bytes.Buffer

	err := ec.exportItems(ds, now, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header plus one deduplicated row")
	assert.Equal(t, "2024-02", records[1][0])
	assert.Equal(t, "7", records[1][1])
}

func TestExportCommand_ExportBucket(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	ds := &apiclient.Dataset{
		Items: []model.WorkItem{
			{Kind: model.KindPR, ID: 7, Repo: "eips", CreatedAt: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), ClosedAt: &closed},
		},
	}

	ec := &ExportCommand{month: "2024-02"}

	var buf bytes.Buffer

	err := ec.exportBucket(ds, now, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "item appears once despite created and closed membership")
}

func TestExportCommand_MonthReviewsClash(t *testing.T) {
	t.Parallel()

	cmd := NewExportCommand()
	require.NoError(t, cmd.Flags().Set("month", "2024-02"))
	require.NoError(t, cmd.Flags().Set("reviews", "true"))

	err := cmd.RunE(cmd, nil)
	require.ErrorIs(t, err, ErrExportClash)
}
