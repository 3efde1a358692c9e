// Package lifecycle expands work item intervals into calendar month buckets
// and classifies each item's created/closed/merged/open membership. It is the
// single consolidated implementation of the month bucketing that every
// dashboard view consumes.
package lifecycle

import "github.com/eipsinsight/pulse/internal/model"

// itemKey identifies one work item. Numeric ids are only unique within a
// repository's feed, so identity is the (repository, id) pair.
type itemKey struct {
	repo string
	id   int
}

func keyOf(item model.WorkItem) itemKey {
	return itemKey{repo: item.Repo, id: item.ID}
}

// Dedup removes records sharing a (repository, id) pair, keeping the first
// occurrence. Order is preserved and the operation is idempotent. Feeds are
// fetched in overlapping pages, so the same record routinely arrives more
// than once.
func Dedup(items []model.WorkItem) []model.WorkItem {
	if len(items) == 0 {
		return items
	}

	seen := make(map[itemKey]struct{}, len(items))
	out := make([]model.WorkItem, 0, len(items))

	for _, item := range items {
		key := keyOf(item)

		_, dup := seen[key]
		if dup {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out
}
