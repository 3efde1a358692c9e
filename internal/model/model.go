// Package model defines the canonical record shapes the aggregation engine
// operates on. Raw feed payloads are coerced into these types exactly once,
// at normalization time; everything downstream relies on the Kind tag instead
// of probing field shapes.
package model

import "time"

// Kind tags a work item as a pull request or an issue.
type Kind string

// Work item kinds.
const (
	KindPR    Kind = "pr"
	KindIssue Kind = "issue"
)

// State is the derived lifecycle state of a work item.
type State string

// Work item states. Merged takes precedence over closed.
const (
	StateOpen   State = "Open"
	StateClosed State = "Closed"
	StateMerged State = "Merged"
)

// WorkItem is a normalized pull request or issue. Identity within a feed is
// the numeric ID. Items are immutable once normalized; a refresh produces a
// fresh slice rather than mutating records in place.
type WorkItem struct {
	Kind      Kind
	ID        int
	Repo      string
	Title     string
	CreatedAt time.Time
	ClosedAt  *time.Time
	MergedAt  *time.Time
}

// State derives the lifecycle state from the timestamps.
func (w WorkItem) State() State {
	switch {
	case w.MergedAt != nil:
		return StateMerged
	case w.ClosedAt != nil:
		return StateClosed
	default:
		return StateOpen
	}
}

// ReviewEvent is one review performed on a pull request. The reviewed PR's
// own timestamps ride along so exports can show them without a second lookup.
type ReviewEvent struct {
	Reviewer   string
	Repo       string
	PRID       int
	Title      string
	ReviewedAt time.Time
	CreatedAt  *time.Time
	ClosedAt   *time.Time
	MergedAt   *time.Time
}

// TenureWindow is the interval during which a reviewer held active-editor
// status. A nil End means still active. Only reviews inside the window count
// toward attribution.
type TenureWindow struct {
	Reviewer string
	Start    time.Time
	End      *time.Time
}

// Contains reports whether t falls inside the window, boundaries inclusive.
func (w TenureWindow) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}

	if w.End != nil && t.After(*w.End) {
		return false
	}

	return true
}
