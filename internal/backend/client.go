// Package backend is the HTTP client for the pipeline backend's per-run
// JSON resources. Every fetch validates payload shape before acceptance so
// the provider can substitute fallbacks for malformed responses.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cognicore/lens/pkg/lens/internalerr"
	"github.com/cognicore/lens/pkg/lens/provider"
	"github.com/cognicore/lens/pkg/lens/schema"
)

// Client calls the pipeline backend. It implements provider.Fetcher.
type Client struct {
	BaseURL string
	APIKey  string

	HTTPClient *http.Client
}

// Metrics fetches the run's metric specs: a bare array or {"metrics": [...]}.
func (c *Client) Metrics(ctx context.Context, runID string) ([]provider.MetricSpec, error) {
	raw, err := c.get(ctx, runID, "metrics")
	if err != nil {
		return nil, err
	}

	var bare []provider.MetricSpec
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}
	var wrapped struct {
		Metrics []provider.MetricSpec `json:"metrics"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Metrics != nil {
		return wrapped.Metrics, nil
	}
	return nil, fmt.Errorf("metrics payload: %w", internalerr.ErrInvalidShape)
}

// Dimensions fetches the dimensions catalog. The payload must be an object
// carrying at least one of the four dimension lists.
func (c *Client) Dimensions(ctx context.Context, runID string) (provider.DimensionsCatalog, error) {
	raw, err := c.get(ctx, runID, "dimensions")
	if err != nil {
		return provider.DimensionsCatalog{}, err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return provider.DimensionsCatalog{}, fmt.Errorf("dimensions payload: %w", internalerr.ErrInvalidShape)
	}
	if !hasAny(keys, "date", "numeric", "categorical", "bool") {
		return provider.DimensionsCatalog{}, fmt.Errorf("dimensions payload: %w", internalerr.ErrInvalidShape)
	}

	var catalog provider.DimensionsCatalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return provider.DimensionsCatalog{}, fmt.Errorf("dimensions payload: %w", internalerr.ErrInvalidShape)
	}
	return catalog, nil
}

// Dataset fetches the raw rows: a bare array or {"rows": [...]}.
func (c *Client) Dataset(ctx context.Context, runID string) ([]schema.Row, error) {
	raw, err := c.get(ctx, runID, "dataset")
	if err != nil {
		return nil, err
	}

	var bare []schema.Row
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}
	var wrapped struct {
		Rows []schema.Row `json:"rows"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Rows != nil {
		return wrapped.Rows, nil
	}
	return nil, fmt.Errorf("dataset payload: %w", internalerr.ErrInvalidShape)
}

// Insights fetches insights: {"insights": [...]} or a bare array.
func (c *Client) Insights(ctx context.Context, runID string) ([]provider.Insight, error) {
	raw, err := c.get(ctx, runID, "insights")
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Insights []provider.Insight `json:"insights"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Insights != nil {
		return wrapped.Insights, nil
	}
	var bare []provider.Insight
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}
	return nil, fmt.Errorf("insights payload: %w", internalerr.ErrInvalidShape)
}

// Correlations fetches correlation pairs: a bare array or
// {"correlations": [...]}.
func (c *Client) Correlations(ctx context.Context, runID string) ([]provider.CorrelationPair, error) {
	raw, err := c.get(ctx, runID, "correlations")
	if err != nil {
		return nil, err
	}

	var bare []provider.CorrelationPair
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}
	var wrapped struct {
		Correlations []provider.CorrelationPair `json:"correlations"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Correlations != nil {
		return wrapped.Correlations, nil
	}
	return nil, fmt.Errorf("correlations payload: %w", internalerr.ErrInvalidShape)
}

// Intelligence fetches the relationship/anomaly/forecast bundle.
func (c *Client) Intelligence(ctx context.Context, runID string) (provider.Intelligence, error) {
	raw, err := c.get(ctx, runID, "intelligence")
	if err != nil {
		return provider.Intelligence{}, err
	}

	var intel provider.Intelligence
	if err := json.Unmarshal(raw, &intel); err != nil {
		return provider.Intelligence{}, fmt.Errorf("intelligence payload: %w", internalerr.ErrInvalidShape)
	}
	return intel, nil
}

func (c *Client) get(ctx context.Context, runID, resource string) ([]byte, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("backend: base URL required")
	}
	endpoint := fmt.Sprintf("%s/runs/%s/%s", c.BaseURL, url.PathEscape(runID), resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend %s: status %d", resource, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func hasAny(keys map[string]json.RawMessage, names ...string) bool {
	for _, name := range names {
		if _, ok := keys[name]; ok {
			return true
		}
	}
	return false
}
