package lifecycle

import (
	"sort"
	"time"

	"github.com/eipsinsight/pulse/internal/model"
	"github.com/eipsinsight/pulse/internal/monthkey"
)

// Bucket collects the activity attributed to one calendar month. Created,
// Closed and Merged are single-month classifications; Open holds every item
// whose lifetime interval touched the month. No category holds two items with
// the same (repository, id) identity.
type Bucket struct {
	Month   monthkey.Key
	Created []model.WorkItem
	Closed  []model.WorkItem
	Merged  []model.WorkItem
	Open    []model.WorkItem
	Reviews []model.ReviewEvent
}

// Index maps month keys to their buckets for one aggregation pass. Buckets
// are created on first reference and only ever appended to.
type Index map[monthkey.Key]*Bucket

// BucketItems expands each item's [created, closed-or-now] interval into one
// Open entry per calendar month and classifies the item into the Created,
// Closed and Merged buckets of the corresponding months. Merged items are not
// additionally counted as Closed.
//
// An item whose closing date falls in the calendar month containing now is
// kept out of Open for every month, not just the closing one. Historical open
// counts therefore shift with the report date; compatibility with the
// upstream dashboards requires keeping it that way.
func BucketItems(items []model.WorkItem, now time.Time) Index {
	idx := make(Index)
	nowMonth := monthkey.Of(now)
	seen := make(map[itemKey]struct{}, len(items))

	for _, item := range items {
		_, dup := seen[keyOf(item)]
		if dup {
			continue
		}

		seen[keyOf(item)] = struct{}{}

		closedAt := effectiveClosedAt(item)

		idx.bucket(monthkey.Of(item.CreatedAt)).appendCreated(item)

		if closedAt != nil && item.MergedAt == nil {
			idx.bucket(monthkey.Of(*closedAt)).appendClosed(item)
		}

		if item.MergedAt != nil {
			idx.bucket(monthkey.Of(*item.MergedAt)).appendMerged(item)
		}

		idx.expandOpen(item, closedAt, nowMonth)
	}

	return idx
}

// expandOpen walks [created month, month after closing) and appends the item
// to each month's Open list, honoring the closed-this-month exclusion.
func (idx Index) expandOpen(item model.WorkItem, closedAt *time.Time, nowMonth monthkey.Key) {
	if closedAt != nil && monthkey.Of(*closedAt) == nowMonth {
		return
	}

	endExclusive := nowMonth.Next()
	if closedAt != nil {
		endExclusive = monthkey.Of(*closedAt).Next()
	}

	for month := monthkey.Of(item.CreatedAt); month.Before(endExclusive); month = month.Next() {
		idx.bucket(month).appendOpen(item)
	}
}

// effectiveClosedAt returns the closing timestamp unless it precedes the
// creation timestamp, in which case the item counts as still open.
func effectiveClosedAt(item model.WorkItem) *time.Time {
	if item.ClosedAt != nil && item.ClosedAt.Before(item.CreatedAt) {
		return nil
	}

	return item.ClosedAt
}

// AddReviews buckets review events by review month, deduplicated by the
// reviewed (repository, PR) pair within each month.
func (idx Index) AddReviews(events []model.ReviewEvent) {
	for _, ev := range events {
		idx.bucket(monthkey.Of(ev.ReviewedAt)).appendReview(ev)
	}
}

// Months returns the bucketed month keys in ascending order.
func (idx Index) Months() []monthkey.Key {
	months := make([]monthkey.Key, 0, len(idx))
	for month := range idx {
		months = append(months, month)
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	return months
}

func (idx Index) bucket(month monthkey.Key) *Bucket {
	b, ok := idx[month]
	if !ok {
		b = &Bucket{Month: month}
		idx[month] = b
	}

	return b
}

func (b *Bucket) appendCreated(item model.WorkItem) {
	if !containsItem(b.Created, keyOf(item)) {
		b.Created = append(b.Created, item)
	}
}

func (b *Bucket) appendClosed(item model.WorkItem) {
	if !containsItem(b.Closed, keyOf(item)) {
		b.Closed = append(b.Closed, item)
	}
}

func (b *Bucket) appendMerged(item model.WorkItem) {
	if !containsItem(b.Merged, keyOf(item)) {
		b.Merged = append(b.Merged, item)
	}
}

func (b *Bucket) appendOpen(item model.WorkItem) {
	if !containsItem(b.Open, keyOf(item)) {
		b.Open = append(b.Open, item)
	}
}

func (b *Bucket) appendReview(ev model.ReviewEvent) {
	for _, existing := range b.Reviews {
		if existing.Repo == ev.Repo && existing.PRID == ev.PRID {
			return
		}
	}

	b.Reviews = append(b.Reviews, ev)
}

func containsItem(items []model.WorkItem, key itemKey) bool {
	for _, item := range items {
		if keyOf(item) == key {
			return true
		}
	}

	return false
}
