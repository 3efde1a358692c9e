package plot

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/eipsinsight/pulse/internal/colors"
	"github.com/eipsinsight/pulse/internal/leaderboard"
	"github.com/eipsinsight/pulse/internal/lifecycle"
	"github.com/eipsinsight/pulse/internal/monthkey"
	"github.com/eipsinsight/pulse/internal/period"
)

// maxLeaderboardBars caps the leaderboard chart width.
const maxLeaderboardBars = 20

// LifecycleChart builds a grouped bar chart of created / open / closed /
// merged counts per month within the range.
func LifecycleChart(idx lifecycle.Index, r period.Range) *charts.Bar {
	months := idx.Months()

	labels := make([]string, 0, len(months))
	created := make([]int, 0, len(months))
	open := make([]int, 0, len(months))
	closed := make([]int, 0, len(months))
	merged := make([]int, 0, len(months))

	for _, month := range months {
		if !r.Contains(month) {
			continue
		}

		b := idx[month]
		labels = append(labels, month.String())
		created = append(created, len(b.Created))
		open = append(open, len(b.Open))
		closed = append(closed, len(b.Closed))
		merged = append(merged, len(b.Merged))
	}

	series := []BarSeries{
		{Name: "Created", Data: created, Color: colorCreated},
		{Name: "Open", Data: open, Color: colorOpen},
		{Name: "Closed", Data: closed, Color: colorClosed},
		{Name: "Merged", Data: merged, Color: colorMerged},
	}

	return buildBarChart(
		"Lifecycle Activity",
		"Created, open, closed and merged items per calendar month",
		labels, series, "Items",
	)
}

// ReviewerActivityChart builds a stacked bar chart of review counts per month
// per reviewer, colored through the registry so series colors stay stable
// across runs.
func ReviewerActivityChart(idx lifecycle.Index, r period.Range, registry *colors.Registry) *charts.Bar {
	var included []monthkey.Key

	for _, month := range idx.Months() {
		if r.Contains(month) {
			included = append(included, month)
		}
	}

	counts := make(map[string]map[monthkey.Key]int)

	for _, month := range included {
		for _, ev := range idx[month].Reviews {
			byMonth, ok := counts[ev.Reviewer]
			if !ok {
				byMonth = make(map[monthkey.Key]int)
				counts[ev.Reviewer] = byMonth
			}

			byMonth[month]++
		}
	}

	reviewers := make([]string, 0, len(counts))
	for reviewer := range counts {
		reviewers = append(reviewers, reviewer)
	}

	sort.Strings(reviewers)

	labels := make([]string, len(included))
	for i, month := range included {
		labels[i] = month.String()
	}

	series := make([]BarSeries, 0, len(reviewers))

	for _, reviewer := range reviewers {
		data := make([]int, len(included))
		for i, month := range included {
			data[i] = counts[reviewer][month]
		}

		series = append(series, BarSeries{
			Name:  reviewer,
			Data:  data,
			Color: registry.Color(reviewer),
			Stack: "reviews",
		})
	}

	return buildBarChart(
		"Reviewer Activity",
		"Reviews per calendar month, stacked by reviewer",
		labels, series, "Reviews",
	)
}

// LeaderboardChart builds a bar chart of the top ranked entries.
func LeaderboardChart(title string, entries []leaderboard.Entry, registry *colors.Registry) *charts.Bar {
	if len(entries) > maxLeaderboardBars {
		entries = entries[:maxLeaderboardBars]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(titleOpts(title, "Total reviews in the selected period")),
		charts.WithTooltipOpts(tooltipOpts()),
		charts.WithXAxisOpts(xAxisOpts("")),
		charts.WithYAxisOpts(yAxisOpts("Reviews")),
	)

	labels := make([]string, len(entries))
	barData := make([]opts.BarData, len(entries))

	for i, entry := range entries {
		labels[i] = entry.Reviewer
		barData[i] = opts.BarData{
			Value:     entry.Count,
			ItemStyle: &opts.ItemStyle{Color: registry.Color(entry.Reviewer)},
		}
	}

	bar.SetXAxis(labels)
	bar.AddSeries(title, barData)

	return bar
}

// WriteDashboard renders the charts as one HTML page.
func WriteDashboard(w io.Writer, chartList ...components.Charter) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(chartList...)

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	return nil
}
