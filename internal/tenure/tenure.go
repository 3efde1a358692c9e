// Package tenure restricts review events to the window during which the
// reviewer held active-editor status. Reviews performed outside a tenure
// window do not count toward attribution, and reviewers without a tenure
// record are excluded outright rather than defaulted to always-active.
package tenure

import (
	"log/slog"

	"github.com/eipsinsight/pulse/internal/model"
)

// Filter retains the events whose review timestamp falls inside the
// reviewer's tenure window, boundaries inclusive. Input order is preserved.
func Filter(events []model.ReviewEvent, windows map[string]model.TenureWindow) []model.ReviewEvent {
	if len(events) == 0 || len(windows) == 0 {
		return nil
	}

	kept := make([]model.ReviewEvent, 0, len(events))
	dropped := make(map[string]int)

	for _, ev := range events {
		window, ok := windows[ev.Reviewer]
		if !ok {
			dropped[ev.Reviewer]++

			continue
		}

		if window.Contains(ev.ReviewedAt) {
			kept = append(kept, ev)
		}
	}

	for reviewer, n := range dropped {
		slog.Debug("dropped reviews without tenure record", "reviewer", reviewer, "count", n)
	}

	return kept
}

// Reviewers returns the distinct reviewer names present in events, in
// first-seen order.
func Reviewers(events []model.ReviewEvent) []string {
	seen := make(map[string]struct{}, len(events))
	names := make([]string, 0, len(events))

	for _, ev := range events {
		_, dup := seen[ev.Reviewer]
		if dup {
			continue
		}

		seen[ev.Reviewer] = struct{}{}
		names = append(names, ev.Reviewer)
	}

	return names
}
