// Package plot builds the dashboard charts from engine output: lifecycle
// activity per month, reviewer activity, and the leaderboard. Charts are
// assembled from bucketed data only; callers decide where the HTML goes.
package plot

import (
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Dark page palette.
const (
	chartBackground = "#0f1117"
	chartText       = "#e6e6e6"
	chartTextMuted  = "#9aa0a6"
	chartAxis       = "#3c4043"
	chartGrid       = "#262a33"
)

// Category series colors for the lifecycle chart.
const (
	colorCreated = "#4ECDC4"
	colorOpen    = "#FFD93D"
	colorClosed  = "#FF6B6B"
	colorMerged  = "#6C5CE7"
)

const (
	chartWidth     = "100%"
	chartHeight    = "500px"
	dataZoomEndPct = 100
)

func initOpts() opts.Initialization {
	return opts.Initialization{
		Width:           chartWidth,
		Height:          chartHeight,
		BackgroundColor: chartBackground,
	}
}

func titleOpts(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: chartText},
		SubtitleStyle: &opts.TextStyle{Color: chartTextMuted},
	}
}

func legendOpts() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Type:      "scroll",
		Top:       "10%",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: chartTextMuted},
	}
}

func xAxisOpts(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: chartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: chartAxis}},
	}
}

func yAxisOpts(name string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: chartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: chartAxis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: chartGrid},
		},
	}
}

func dataZoomOpts() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEndPct},
		{Type: "inside"},
	}
}

func tooltipOpts() opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}
}
