package plot

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// BarSeries is one named series for a bar chart.
type BarSeries struct {
	Name  string
	Data  []int
	Color string // Optional; theme default when empty.
	Stack string // Optional stack grouping.
}

func buildBarChart(title, subtitle string, labels []string, series []BarSeries, yAxisLabel string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(titleOpts(title, subtitle)),
		charts.WithTooltipOpts(tooltipOpts()),
		charts.WithDataZoomOpts(dataZoomOpts()...),
		charts.WithXAxisOpts(xAxisOpts("")),
		charts.WithYAxisOpts(yAxisOpts(yAxisLabel)),
		charts.WithLegendOpts(legendOpts()),
	)

	bar.SetXAxis(labels)

	for _, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for i, v := range s.Data {
			barData[i] = opts.BarData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}

		if s.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: s.Stack}))
		}

		bar.AddSeries(s.Name, barData, seriesOpts...)
	}

	return bar
}
