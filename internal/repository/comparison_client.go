package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/noah-isme/timetable-view/internal/models"
	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
)

const (
	defaultCompareTimeout = 10 * time.Second
	maxCompareBody        = 32 << 20
)

// upstreamObserver records outbound call timings.
type upstreamObserver interface {
	ObserveUpstream(call string, status int, duration time.Duration)
}

// ComparisonClient fetches precomputed snapshot comparisons from the
// comparison service. It never computes a diff itself.
type ComparisonClient struct {
	baseURL string
	client  *http.Client
	metrics upstreamObserver
}

// NewComparisonClient builds a client rooted at baseURL, e.g. http://host:8000/api.
func NewComparisonClient(baseURL string, timeout time.Duration, metrics upstreamObserver) *ComparisonClient {
	if timeout <= 0 {
		timeout = defaultCompareTimeout
	}
	return &ComparisonClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
	}
}

// Compare loads the diff tree between two stored timetable files.
func (c *ComparisonClient) Compare(ctx context.Context, leftID, rightID string) (models.ComparisonResult, error) {
	endpoint, err := url.Parse(c.baseURL + "/compare-files")
	if err != nil {
		return models.ComparisonResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid comparison service url")
	}
	q := endpoint.Query()
	q.Set("file_id_1", leftID)
	q.Set("file_id_2", rightID)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return models.ComparisonResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build comparison request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	status := http.StatusServiceUnavailable
	if resp != nil {
		status = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.ObserveUpstream("compare_files", status, time.Since(start))
	}
	if err != nil {
		return models.ComparisonResult{}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "comparison service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCompareBody))
	if err != nil {
		return models.ComparisonResult{}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to read comparison response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.ComparisonResult{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("timetable files %s/%s not found", leftID, rightID))
	case resp.StatusCode >= http.StatusBadRequest:
		return models.ComparisonResult{}, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("comparison service returned status %d", resp.StatusCode))
	}

	var result models.ComparisonResult
	if err := json.Unmarshal(body, &result); err != nil {
		return models.ComparisonResult{}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "malformed comparison response")
	}
	if result.Groups == nil {
		result.Groups = map[string]models.GroupDiff{}
	}
	return result, nil
}
