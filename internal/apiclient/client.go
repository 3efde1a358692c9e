// Package apiclient fetches normalized activity records from the external
// data service: pull requests, issues and reviews per repository, plus the
// editor tenure list. The engine owns none of this data; a failed fetch only
// means no new data, and callers keep operating on whatever they already
// have.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eipsinsight/pulse/internal/model"
)

// defaultTimeout bounds each request when the caller supplies no client.
const defaultTimeout = 30 * time.Second

// maxBodyBytes caps response decoding; the feeds are a few MB at most.
const maxBodyBytes = 64 << 20

// ErrStatus is returned when the data service answers with a non-200 status.
var ErrStatus = errors.New("apiclient: unexpected status")

// Client talks to the data service.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the service at baseURL. A nil httpClient gets a
// default with a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: httpClient,
	}
}

// PullRequests fetches and normalizes the PR feed for one repository.
func (c *Client) PullRequests(ctx context.Context, repo string) ([]model.WorkItem, error) {
	var raw []model.RawWorkItem

	err := c.get(ctx, "/prs/"+repo, &raw)
	if err != nil {
		return nil, fmt.Errorf("fetch prs for %s: %w", repo, err)
	}

	return model.NormalizeWorkItems(model.KindPR, repo, raw), nil
}

// Issues fetches and normalizes the issue feed for one repository.
func (c *Client) Issues(ctx context.Context, repo string) ([]model.WorkItem, error) {
	var raw []model.RawWorkItem

	err := c.get(ctx, "/issues/"+repo, &raw)
	if err != nil {
		return nil, fmt.Errorf("fetch issues for %s: %w", repo, err)
	}

	return model.NormalizeWorkItems(model.KindIssue, repo, raw), nil
}

// Reviews fetches and normalizes the review feed for one repository.
func (c *Client) Reviews(ctx context.Context, repo string) ([]model.ReviewEvent, error) {
	var raw []model.RawReview

	err := c.get(ctx, "/reviews/"+repo, &raw)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for %s: %w", repo, err)
	}

	return model.NormalizeReviews(repo, raw), nil
}

// EditorTenure fetches the editor tenure windows keyed by reviewer.
func (c *Client) EditorTenure(ctx context.Context) (map[string]model.TenureWindow, error) {
	var raw []model.RawTenure

	err := c.get(ctx, "/editor-tenure", &raw)
	if err != nil {
		return nil, fmt.Errorf("fetch editor tenure: %w", err)
	}

	return model.NormalizeTenures(raw), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s from %s", ErrStatus, resp.Status, path)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)

	err = json.NewDecoder(body).Decode(out)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}
