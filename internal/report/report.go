// Package report renders engine output for the terminal: per-month lifecycle
// summaries and ranked reviewer leaderboards.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/eipsinsight/pulse/internal/leaderboard"
	"github.com/eipsinsight/pulse/internal/lifecycle"
	"github.com/eipsinsight/pulse/internal/period"
)

// MsgNoData is printed when a valid query matches nothing. An empty period is
// a normal outcome, distinct from any fetch failure.
const MsgNoData = "No data for this period"

// MonthlySummary renders a per-month activity table restricted to the given
// range, one row per bucketed month, with a humanized totals footer.
func MonthlySummary(idx lifecycle.Index, r period.Range) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Month", "Created", "Open", "Closed", "Merged", "Reviews"})

	var created, open, closed, merged, reviews int

	rows := 0

	for _, month := range idx.Months() {
		if !r.Contains(month) {
			continue
		}

		b := idx[month]
		tbl.AppendRow(table.Row{
			month.String(),
			len(b.Created), len(b.Open), len(b.Closed), len(b.Merged), len(b.Reviews),
		})

		created += len(b.Created)
		open += len(b.Open)
		closed += len(b.Closed)
		merged += len(b.Merged)
		reviews += len(b.Reviews)
		rows++
	}

	if rows == 0 {
		return MsgNoData
	}

	tbl.AppendFooter(table.Row{
		"Total",
		humanize.Comma(int64(created)),
		humanize.Comma(int64(open)),
		humanize.Comma(int64(closed)),
		humanize.Comma(int64(merged)),
		humanize.Comma(int64(reviews)),
	})

	return tbl.Render()
}

// Leaderboard renders the cohort-split board as two ranked tables.
func Leaderboard(board leaderboard.Board) string {
	if len(board.Editors) == 0 && len(board.Reviewers) == 0 {
		return MsgNoData
	}

	heading := color.New(color.FgCyan, color.Bold)

	var parts []string

	if len(board.Editors) > 0 {
		parts = append(parts, heading.Sprint("Editors"), rankTable(board.Editors))
	}

	if len(board.Reviewers) > 0 {
		parts = append(parts, heading.Sprint("Reviewers"), rankTable(board.Reviewers))
	}

	return strings.Join(parts, "\n")
}

func rankTable(entries []leaderboard.Entry) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Rank", "Reviewer", "Reviews"})

	for i, entry := range entries {
		tbl.AppendRow(table.Row{
			fmt.Sprintf("#%d", i+1),
			entry.Reviewer,
			humanize.Comma(int64(entry.Count)),
		})
	}

	return tbl.Render()
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}
