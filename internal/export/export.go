// Package export flattens bucketed work items and review events into fixed
// column rows for CSV download. Projection is 1:1 and order preserving; a
// malformed optional field renders as "-" instead of failing the export.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/eipsinsight/pulse/internal/model"
	"github.com/eipsinsight/pulse/internal/monthkey"
)

// absentDate renders a missing optional timestamp.
const absentDate = "-"

// dateLayout is the rendered date format.
const dateLayout = "2006-01-02"

// githubBase is the URL prefix of the standards repositories.
const githubBase = "https://github.com/ethereum"

// Column headers.
var (
	WorkItemHeader = []string{"Key", "Number", "Title", "State", "Created_Date", "Closed_Date", "Merged_Date", "Link"}
	ReviewHeader   = []string{"Month", "PR_Number", "Title", "Reviewer", "Review_Date", "Created_Date", "Closed_Date", "Merged_Date", "Status", "Link"}
)

// WorkItemRows projects items into rows keyed by their creation month.
func WorkItemRows(items []model.WorkItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, workItemRow(monthkey.Of(item.CreatedAt), item))
	}

	return rows
}

// WorkItemRowsKeyed projects items under an explicit bucket key, used when
// exporting one month's bucket where membership, not creation, determines the
// key (an item can be open in many months).
func WorkItemRowsKeyed(key monthkey.Key, items []model.WorkItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, workItemRow(key, item))
	}

	return rows
}

// ReviewRows projects review events into rows keyed by review month.
func ReviewRows(events []model.ReviewEvent) [][]string {
	rows := make([][]string, 0, len(events))

	for _, ev := range events {
		status := model.StateOpen
		if ev.MergedAt != nil {
			status = model.StateMerged
		} else if ev.ClosedAt != nil {
			status = model.StateClosed
		}

		rows = append(rows, []string{
			monthkey.Of(ev.ReviewedAt).String(),
			fmt.Sprintf("%d", ev.PRID),
			ev.Title,
			ev.Reviewer,
			ev.ReviewedAt.UTC().Format(dateLayout),
			formatDate(ev.CreatedAt),
			formatDate(ev.ClosedAt),
			formatDate(ev.MergedAt),
			string(status),
			fmt.Sprintf("%s/%s/pull/%d", githubBase, ev.Repo, ev.PRID),
		})
	}

	return rows
}

// Write emits a header row followed by the data rows as UTF-8 CSV. Fields
// containing commas or quotes are double-quote escaped by encoding/csv.
func Write(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	err := cw.Write(header)
	if err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	err = cw.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}

	cw.Flush()

	return cw.Error()
}

func workItemRow(key monthkey.Key, item model.WorkItem) []string {
	created := item.CreatedAt.UTC().Format(dateLayout)
	if item.CreatedAt.IsZero() {
		created = absentDate
	}

	return []string{
		key.String(),
		fmt.Sprintf("%d", item.ID),
		item.Title,
		string(item.State()),
		created,
		formatDate(item.ClosedAt),
		formatDate(item.MergedAt),
		itemURL(item),
	}
}

func itemURL(item model.WorkItem) string {
	segment := "issues"
	if item.Kind == model.KindPR {
		segment = "pull"
	}

	return fmt.Sprintf("%s/%s/%s/%d", githubBase, item.Repo, segment, item.ID)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return absentDate
	}

	return t.UTC().Format(dateLayout)
}
