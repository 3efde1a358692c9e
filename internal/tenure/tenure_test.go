package tenure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eipsinsight/pulse/internal/model"
)

const (
	reviewerAlice = "alice"
	reviewerBob   = "bob"
)

func event(reviewer string, reviewedAt time.Time) model.ReviewEvent {
	return model.ReviewEvent{Reviewer: reviewer, Repo: "eips", PRID: 1, ReviewedAt: reviewedAt}
}

func TestFilter_BoundariesInclusive(t *testing.T) {
	t.Parallel()

	end := time.Date(2023, time.June, 30, 23, 59, 0, 0, time.UTC)
	windows := map[string]model.TenureWindow{
		reviewerAlice: {
			Reviewer: reviewerAlice,
			Start:    time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:      &end,
		},
	}

	afterEnd := event(reviewerAlice, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC))
	atEnd := event(reviewerAlice, end)
	atStart := event(reviewerAlice, windows[reviewerAlice].Start)
	beforeStart := event(reviewerAlice, windows[reviewerAlice].Start.Add(-time.Hour))

	kept := Filter([]model.ReviewEvent{afterEnd, atEnd, atStart, beforeStart}, windows)

	require.Len(t, kept, 2)
	assert.Equal(t, atEnd.ReviewedAt, kept[0].ReviewedAt)
	assert.Equal(t, atStart.ReviewedAt, kept[1].ReviewedAt)
}

func TestFilter_UnknownReviewerDropped(t *testing.T) {
	t.Parallel()

	windows := map[string]model.TenureWindow{
		reviewerAlice: {
			Reviewer: reviewerAlice,
			Start:    time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	kept := Filter([]model.ReviewEvent{
		event(reviewerBob, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		event(reviewerAlice, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
	}, windows)

	require.Len(t, kept, 1)
	assert.Equal(t, reviewerAlice, kept[0].Reviewer)
}

func TestFilter_OpenEndedWindow(t *testing.T) {
	t.Parallel()

	windows := map[string]model.TenureWindow{
		reviewerAlice: {
			Reviewer: reviewerAlice,
			Start:    time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	kept := Filter([]model.ReviewEvent{
		event(reviewerAlice, time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}, windows)

	assert.Len(t, kept, 1)
}

func TestFilter_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Filter(nil, map[string]model.TenureWindow{reviewerAlice: {}}))
	assert.Nil(t, Filter([]model.ReviewEvent{event(reviewerAlice, time.Now())}, nil))
}

func TestReviewers_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	now := time.Now()
	names := Reviewers([]model.ReviewEvent{
		event(reviewerBob, now),
		event(reviewerAlice, now),
		event(reviewerBob, now),
	})

	assert.Equal(t, []string{reviewerBob, reviewerAlice}, names)
}
