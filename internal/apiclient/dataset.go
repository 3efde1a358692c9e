package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/eipsinsight/pulse/internal/model"
)

// ErrNoData is returned when no repository produced any records.
var ErrNoData = errors.New("apiclient: no data available from any repository")

// Dataset is one fetch cycle's worth of records across the configured
// repositories. It is owned by the aggregation pass that consumes it and is
// discarded wholesale on refresh.
type Dataset struct {
	Items   []model.WorkItem
	Reviews []model.ReviewEvent
	Tenures map[string]model.TenureWindow
}

// FetchDataset pulls PRs, issues and reviews for every repository plus the
// tenure list. A failing repository is logged and skipped so one broken feed
// does not blank the whole dashboard; ErrNoData is returned only when every
// feed failed.
func (c *Client) FetchDataset(ctx context.Context, repos []string) (*Dataset, error) {
	ds := &Dataset{}

	for _, repo := range repos {
		prs, err := c.PullRequests(ctx, repo)
		if err != nil {
			slog.Warn("skipping pr feed", "repo", repo, "error", err)
		} else {
			ds.Items = append(ds.Items, prs...)
		}

		issues, err := c.Issues(ctx, repo)
		if err != nil {
			slog.Warn("skipping issue feed", "repo", repo, "error", err)
		} else {
			ds.Items = append(ds.Items, issues...)
		}

		reviews, err := c.Reviews(ctx, repo)
		if err != nil {
			slog.Warn("skipping review feed", "repo", repo, "error", err)
		} else {
			ds.Reviews = append(ds.Reviews, reviews...)
		}
	}

	tenures, err := c.EditorTenure(ctx)
	if err != nil {
		slog.Warn("tenure list unavailable, attribution filtering will drop everything", "error", err)
	} else {
		ds.Tenures = tenures
	}

	if len(ds.Items) == 0 && len(ds.Reviews) == 0 {
		return nil, ErrNoData
	}

	return ds, nil
}

// Local file names inside a dataset directory, per repository.
const (
	prsFilePattern    = "prs_%s.json"
	issuesFilePattern = "issues_%s.json"
	reviewFilePattern = "reviews_%s.json"
	tenureFileName    = "editor_tenure.json"
)

// LoadDataset reads the same payload shapes from a local directory, for
// offline runs against previously saved feeds. Missing files are skipped
// with a warning, mirroring the remote failure policy.
func LoadDataset(dir string, repos []string) (*Dataset, error) {
	ds := &Dataset{}

	for _, repo := range repos {
		var rawItems []model.RawWorkItem

		ok := loadJSON(filepath.Join(dir, fmt.Sprintf(prsFilePattern, repo)), &rawItems)
		if ok {
			ds.Items = append(ds.Items, model.NormalizeWorkItems(model.KindPR, repo, rawItems)...)
		}

		rawItems = nil

		ok = loadJSON(filepath.Join(dir, fmt.Sprintf(issuesFilePattern, repo)), &rawItems)
		if ok {
			ds.Items = append(ds.Items, model.NormalizeWorkItems(model.KindIssue, repo, rawItems)...)
		}

		var rawReviews []model.RawReview

		ok = loadJSON(filepath.Join(dir, fmt.Sprintf(reviewFilePattern, repo)), &rawReviews)
		if ok {
			ds.Reviews = append(ds.Reviews, model.NormalizeReviews(repo, rawReviews)...)
		}
	}

	var rawTenures []model.RawTenure

	ok := loadJSON(filepath.Join(dir, tenureFileName), &rawTenures)
	if ok {
		ds.Tenures = model.NormalizeTenures(rawTenures)
	}

	if len(ds.Items) == 0 && len(ds.Reviews) == 0 {
		return nil, ErrNoData
	}

	return ds, nil
}

func loadJSON(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skipping dataset file", "path", path, "error", err)

		return false
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		slog.Warn("skipping malformed dataset file", "path", path, "error", err)

		return false
	}

	return true
}
