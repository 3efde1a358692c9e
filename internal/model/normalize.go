package model

import (
	"log/slog"
	"time"
)

// Accepted timestamp layouts on the wire. The data service emits RFC 3339;
// date-only values show up in hand-maintained tenure lists.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// RawWorkItem is the wire shape of a PR or issue record. PR feeds use the
// prNumber/prTitle spelling, issue feeds IssueNumber/IssueTitle; both are
// accepted and resolved here so nothing downstream has to probe.
type RawWorkItem struct {
	PRNumber    int    `json:"prNumber,omitempty"`
	PRTitle     string `json:"prTitle,omitempty"`
	IssueNumber int    `json:"IssueNumber,omitempty"`
	IssueTitle  string `json:"IssueTitle,omitempty"`
	CreatedAt   string `json:"created_at"`
	ClosedAt    string `json:"closed_at,omitempty"`
	MergedAt    string `json:"merged_at,omitempty"`
}

// RawReview is the wire shape of a review record.
type RawReview struct {
	Reviewer   string `json:"reviewer"`
	PRNumber   int    `json:"prNumber"`
	PRTitle    string `json:"prTitle,omitempty"`
	ReviewDate string `json:"reviewDate"`
	CreatedAt  string `json:"created_at,omitempty"`
	ClosedAt   string `json:"closed_at,omitempty"`
	MergedAt   string `json:"merged_at,omitempty"`
}

// RawTenure is the wire shape of an editor tenure record.
type RawTenure struct {
	Reviewer  string `json:"reviewer"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

// NormalizeWorkItems coerces raw feed records into canonical WorkItems tagged
// with kind and repo. Records with a missing id or an unparseable creation
// date are dropped with a warning. A closing date earlier than the creation
// date is treated as still-open rather than producing a negative interval.
func NormalizeWorkItems(kind Kind, repo string, raw []RawWorkItem) []WorkItem {
	items := make([]WorkItem, 0, len(raw))

	for _, r := range raw {
		item, ok := normalizeOne(kind, repo, r)
		if ok {
			items = append(items, item)
		}
	}

	return items
}

func normalizeOne(kind Kind, repo string, r RawWorkItem) (WorkItem, bool) {
	id, title := r.PRNumber, r.PRTitle
	if kind == KindIssue {
		id, title = r.IssueNumber, r.IssueTitle
	}

	if id <= 0 {
		slog.Warn("dropping record without id", "kind", kind, "repo", repo, "title", title)

		return WorkItem{}, false
	}

	created, ok := parseTime(r.CreatedAt)
	if !ok {
		slog.Warn("dropping record with unparseable creation date",
			"kind", kind, "repo", repo, "id", id, "created_at", r.CreatedAt)

		return WorkItem{}, false
	}

	item := WorkItem{
		Kind:      kind,
		ID:        id,
		Repo:      repo,
		Title:     title,
		CreatedAt: created,
		ClosedAt:  parseOptionalTime(r.ClosedAt),
	}

	if kind == KindPR {
		item.MergedAt = parseOptionalTime(r.MergedAt)
	}

	if item.ClosedAt != nil && item.ClosedAt.Before(item.CreatedAt) {
		slog.Warn("closing date precedes creation, treating as still open",
			"repo", repo, "id", id, "created_at", item.CreatedAt, "closed_at", *item.ClosedAt)

		item.ClosedAt = nil
		item.MergedAt = nil
	}

	return item, true
}

// NormalizeReviews coerces raw review records, dropping any with a missing PR
// id or unparseable review date.
func NormalizeReviews(repo string, raw []RawReview) []ReviewEvent {
	events := make([]ReviewEvent, 0, len(raw))

	for _, r := range raw {
		if r.PRNumber <= 0 {
			slog.Warn("dropping review without pr id", "repo", repo, "reviewer", r.Reviewer)

			continue
		}

		reviewed, ok := parseTime(r.ReviewDate)
		if !ok {
			slog.Warn("dropping review with unparseable date",
				"repo", repo, "reviewer", r.Reviewer, "pr", r.PRNumber, "review_date", r.ReviewDate)

			continue
		}

		events = append(events, ReviewEvent{
			Reviewer:   r.Reviewer,
			Repo:       repo,
			PRID:       r.PRNumber,
			Title:      r.PRTitle,
			ReviewedAt: reviewed,
			CreatedAt:  parseOptionalTime(r.CreatedAt),
			ClosedAt:   parseOptionalTime(r.ClosedAt),
			MergedAt:   parseOptionalTime(r.MergedAt),
		})
	}

	return events
}

// NormalizeTenures coerces raw tenure records into a lookup keyed by
// reviewer. Records with an unparseable start date are dropped; an invalid
// end date degrades to still-active with a warning.
func NormalizeTenures(raw []RawTenure) map[string]TenureWindow {
	windows := make(map[string]TenureWindow, len(raw))

	for _, r := range raw {
		if r.Reviewer == "" {
			slog.Warn("dropping tenure record without reviewer")

			continue
		}

		start, ok := parseTime(r.StartDate)
		if !ok {
			slog.Warn("dropping tenure with unparseable start date",
				"reviewer", r.Reviewer, "start_date", r.StartDate)

			continue
		}

		window := TenureWindow{Reviewer: r.Reviewer, Start: start}

		if r.EndDate != "" {
			end := parseOptionalTime(r.EndDate)
			if end == nil {
				slog.Warn("tenure end date unparseable, treating as still active",
					"reviewer", r.Reviewer, "end_date", r.EndDate)
			}

			window.End = end
		}

		if window.End != nil && window.End.Before(window.Start) {
			slog.Warn("dropping tenure with inverted window",
				"reviewer", r.Reviewer, "start", window.Start, "end", *window.End)

			continue
		}

		windows[r.Reviewer] = window
	}

	return windows
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

func parseOptionalTime(s string) *time.Time {
	t, ok := parseTime(s)
	if !ok {
		return nil
	}

	return &t
}
