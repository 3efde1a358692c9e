// Package leaderboard ranks reviewers by contribution count over a selected
// month range. Output ordering is fully deterministic so repeated runs over
// the same input produce byte-identical boards.
package leaderboard

import (
	"sort"

	"github.com/eipsinsight/pulse/internal/model"
	"github.com/eipsinsight/pulse/internal/monthkey"
	"github.com/eipsinsight/pulse/internal/period"
)

// Cohort is the membership class used to split the board.
type Cohort string

// Cohorts. Reviewers absent from the membership list count as editors, the
// way the upstream dashboard classifies anyone not on its static reviewer
// list.
const (
	CohortEditor   Cohort = "editor"
	CohortReviewer Cohort = "reviewer"
)

// Entry is one ranked row: a reviewer and their summed contribution count.
// Entries are derived per query and never persisted.
type Entry struct {
	Reviewer string
	Count    int
}

// Board is the cohort-split leaderboard.
type Board struct {
	Editors   []Entry
	Reviewers []Entry
}

// Aggregate groups events by reviewer, sums them, and sorts descending by
// count with ties broken by reviewer name ascending.
func Aggregate(events []model.ReviewEvent) []Entry {
	counts := make(map[string]int, len(events))
	for _, ev := range events {
		counts[ev.Reviewer]++
	}

	return rank(counts)
}

// SplitByCohort aggregates events into two independently ranked boards
// according to the static membership list.
func SplitByCohort(events []model.ReviewEvent, membership map[string]Cohort) Board {
	editorCounts := make(map[string]int)
	reviewerCounts := make(map[string]int)

	for _, ev := range events {
		cohort, ok := membership[ev.Reviewer]
		if !ok {
			cohort = CohortEditor
		}

		if cohort == CohortReviewer {
			reviewerCounts[ev.Reviewer]++
		} else {
			editorCounts[ev.Reviewer]++
		}
	}

	return Board{
		Editors:   rank(editorCounts),
		Reviewers: rank(reviewerCounts),
	}
}

// FilterRange retains the events whose review month falls inside r,
// preserving input order.
func FilterRange(events []model.ReviewEvent, r period.Range) []model.ReviewEvent {
	if r.All {
		return events
	}

	kept := make([]model.ReviewEvent, 0, len(events))

	for _, ev := range events {
		if r.Contains(monthkey.Of(ev.ReviewedAt)) {
			kept = append(kept, ev)
		}
	}

	return kept
}

// YearlyTotals ranks reviewers by their review count within one calendar
// year. A non-nil enabled set restricts the board to the listed reviewers.
func YearlyTotals(events []model.ReviewEvent, year int, enabled map[string]bool) []Entry {
	counts := make(map[string]int)

	for _, ev := range events {
		if ev.ReviewedAt.UTC().Year() != year {
			continue
		}

		if enabled != nil && !enabled[ev.Reviewer] {
			continue
		}

		counts[ev.Reviewer]++
	}

	return rank(counts)
}

func rank(counts map[string]int) []Entry {
	entries := make([]Entry, 0, len(counts))
	for reviewer, count := range counts {
		entries = append(entries, Entry{Reviewer: reviewer, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}

		return entries[i].Reviewer < entries[j].Reviewer
	})

	return entries
}
