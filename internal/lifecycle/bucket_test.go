package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eipsinsight/pulse/internal/model"
	"github.com/eipsinsight/pulse/internal/monthkey"
)

const testRepo = "eips"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)

	return &t
}

func pr(id int, created time.Time, closed, merged *time.Time) model.WorkItem {
	return model.WorkItem{
		Kind:      model.KindPR,
		ID:        id,
		Repo:      testRepo,
		Title:     "test pr",
		CreatedAt: created,
		ClosedAt:  closed,
		MergedAt:  merged,
	}
}

func openMonths(idx Index, id int) []monthkey.Key {
	var months []monthkey.Key

	for _, month := range idx.Months() {
		for _, item := range idx[month].Open {
			if item.ID == id {
				months = append(months, month)
			}
		}
	}

	return months
}

func TestBucketItems_OpenCoverage(t *testing.T) {
	t.Parallel()

	// Scenario: created Jan 2024, closed Mar 2024, now well past March.
	now := date(2024, time.June, 1)
	idx := BucketItems([]model.WorkItem{
		pr(100, date(2024, time.January, 15), datePtr(2024, time.March, 2), nil),
	}, now)

	assert.Equal(t, []monthkey.Key{"2024-01", "2024-02", "2024-03"}, openMonths(idx, 100))
	assert.Len(t, idx[monthkey.Key("2024-01")].Created, 1)
	assert.Len(t, idx[monthkey.Key("2024-03")].Closed, 1)
	assert.Empty(t, idx[monthkey.Key("2024-03")].Merged)
}

func TestBucketItems_StillOpenRunsThroughCurrentMonth(t *testing.T) {
	t.Parallel()

	now := date(2024, time.June, 15)
	idx := BucketItems([]model.WorkItem{
		pr(101, date(2024, time.May, 1), nil, nil),
	}, now)

	assert.Equal(t, []monthkey.Key{"2024-05", "2024-06"}, openMonths(idx, 101))
}

func TestBucketItems_ClosedThisMonthExcludedFromAllOpenBuckets(t *testing.T) {
	t.Parallel()

	// Closed in the current wall-clock month: the item must not show up as
	// open anywhere, including months long before the closure.
	now := date(2024, time.June, 20)
	idx := BucketItems([]model.WorkItem{
		pr(102, date(2024, time.January, 5), datePtr(2024, time.June, 10), nil),
	}, now)

	assert.Empty(t, openMonths(idx, 102))
	assert.Len(t, idx[monthkey.Key("2024-01")].Created, 1)
	assert.Len(t, idx[monthkey.Key("2024-06")].Closed, 1)
}

func TestBucketItems_MergedWinsOverClosed(t *testing.T) {
	t.Parallel()

	now := date(2024, time.September, 1)
	idx := BucketItems([]model.WorkItem{
		pr(103, date(2024, time.February, 1), datePtr(2024, time.April, 9), datePtr(2024, time.April, 9)),
	}, now)

	assert.Len(t, idx[monthkey.Key("2024-04")].Merged, 1)
	assert.Empty(t, idx[monthkey.Key("2024-04")].Closed)
}

func TestBucketItems_InvertedCloseDateTreatedAsOpen(t *testing.T) {
	t.Parallel()

	now := date(2024, time.May, 1)
	idx := BucketItems([]model.WorkItem{
		pr(104, date(2024, time.March, 10), datePtr(2024, time.February, 1), nil),
	}, now)

	// Interval runs from creation to now instead of going negative, and the
	// bogus closing date is not classified.
	assert.Equal(t, []monthkey.Key{"2024-03", "2024-04", "2024-05"}, openMonths(idx, 104))

	for _, month := range idx.Months() {
		assert.Empty(t, idx[month].Closed)
	}
}

func TestBucketItems_DuplicateFetchesCountOnce(t *testing.T) {
	t.Parallel()

	// Two fetches both returned PR #55.
	now := date(2024, time.August, 1)
	item := pr(55, date(2024, time.April, 2), datePtr(2024, time.May, 20), nil)

	idx := BucketItems(Dedup([]model.WorkItem{item, item}), now)

	for _, month := range idx.Months() {
		assert.LessOrEqual(t, len(idx[month].Open), 1)
	}

	assert.Equal(t, []monthkey.Key{"2024-04", "2024-05"}, openMonths(idx, 55))
}

func TestBucketItems_NoDuplicateIDsInAnyCategory(t *testing.T) {
	t.Parallel()

	now := date(2024, time.August, 1)
	items := []model.WorkItem{
		pr(1, date(2024, time.January, 1), nil, nil),
		pr(1, date(2024, time.January, 1), nil, nil),
		pr(2, date(2024, time.February, 1), datePtr(2024, time.March, 1), nil),
		pr(2, date(2024, time.February, 2), datePtr(2024, time.March, 1), nil),
	}

	idx := BucketItems(items, now)

	for _, month := range idx.Months() {
		b := idx[month]
		for _, category := range [][]model.WorkItem{b.Created, b.Closed, b.Merged, b.Open} {
			seen := make(map[int]int)
			for _, item := range category {
				seen[item.ID]++
				assert.Equal(t, 1, seen[item.ID])
			}
		}
	}
}

func TestBucketItems_IdempotentOverDedup(t *testing.T) {
	t.Parallel()

	now := date(2024, time.August, 1)
	items := []model.WorkItem{
		pr(10, date(2024, time.January, 1), datePtr(2024, time.February, 10), nil),
		pr(10, date(2024, time.January, 1), datePtr(2024, time.February, 10), nil),
		pr(11, date(2024, time.March, 5), nil, nil),
	}

	once := BucketItems(Dedup(items), now)
	twice := BucketItems(Dedup(Dedup(items)), now)

	assert.Equal(t, once, twice)
}

func TestAddReviews_BucketsByReviewMonthDedupByPR(t *testing.T) {
	t.Parallel()

	idx := make(Index)
	idx.AddReviews([]model.ReviewEvent{
		{Reviewer: "alice", Repo: testRepo, PRID: 7, ReviewedAt: date(2024, time.March, 3)},
		{Reviewer: "alice", Repo: testRepo, PRID: 7, ReviewedAt: date(2024, time.March, 20)},
		{Reviewer: "bob", Repo: "ercs", PRID: 7, ReviewedAt: date(2024, time.March, 25)},
		{Reviewer: "bob", Repo: testRepo, PRID: 8, ReviewedAt: date(2024, time.April, 1)},
	})

	// PR #7 in ercs is a different pull request than PR #7 in eips.
	require.Len(t, idx[monthkey.Key("2024-03")].Reviews, 2)
	require.Len(t, idx[monthkey.Key("2024-04")].Reviews, 1)
}

func TestBucketItems_SameNumberAcrossReposAreDistinctItems(t *testing.T) {
	t.Parallel()

	// Ids restart from 1 in every repository, so low numbers collide across
	// the combined feeds. PR #5 in eips and PR #5 in ercs are different items.
	now := date(2024, time.July, 1)

	ercItem := pr(5, date(2024, time.May, 2), nil, nil)
	ercItem.Repo = "ercs"

	items := Dedup([]model.WorkItem{
		pr(5, date(2024, time.May, 1), nil, nil),
		ercItem,
	})
	require.Len(t, items, 2)

	idx := BucketItems(items, now)

	assert.Len(t, idx[monthkey.Key("2024-05")].Created, 2)
	assert.Len(t, idx[monthkey.Key("2024-05")].Open, 2)
	assert.Len(t, idx[monthkey.Key("2024-06")].Open, 2)
}

func TestMonths_SortedAscending(t *testing.T) {
	t.Parallel()

	now := date(2025, time.February, 1)
	idx := BucketItems([]model.WorkItem{
		pr(1, date(2024, time.November, 1), datePtr(2024, time.December, 5), nil),
		pr(2, date(2023, time.December, 1), datePtr(2024, time.January, 5), nil),
	}, now)

	months := idx.Months()
	for i := 1; i < len(months); i++ {
		assert.True(t, months[i-1].Before(months[i]))
	}
}

func TestDedup(t *testing.T) {
	t.Parallel()

	a := pr(1, date(2024, time.January, 1), nil, nil)
	b := pr(2, date(2024, time.January, 2), nil, nil)
	aAgain := pr(1, date(2024, time.June, 1), nil, nil)

	out := Dedup([]model.WorkItem{a, b, aAgain})

	require.Len(t, out, 2)
	assert.Equal(t, a.CreatedAt, out[0].CreatedAt, "first occurrence wins")
	assert.Equal(t, 2, out[1].ID)

	assert.Equal(t, out, Dedup(out), "idempotent")
	assert.Empty(t, Dedup(nil))
}

func TestDedup_KeyedByRepoAndID(t *testing.T) {
	t.Parallel()

	a := pr(1, date(2024, time.January, 1), nil, nil)
	other := pr(1, date(2024, time.January, 2), nil, nil)
	other.Repo = "ercs"

	out := Dedup([]model.WorkItem{a, other})
	require.Len(t, out, 2, "same id in different repositories must both survive")
}
