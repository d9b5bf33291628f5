package provider

import (
	"context"

	"github.com/cognicore/lens/pkg/lens/schema"
)

// MetricSpec describes one metric the backend computed for a run. Fetched
// once per run and immutable after that.
type MetricSpec struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Formula    string `json:"formula"`
	Unit       string `json:"unit,omitempty"`
	TimeColumn string `json:"time_column,omitempty"`
}

// Dimension is one discovered column descriptor from the backend catalog.
// Label may be plain text or a bilingual near-JSON encoding.
type Dimension struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
}

// DimensionsCatalog groups discovered dimensions by kind. Any list may be
// empty.
type DimensionsCatalog struct {
	Date        []Dimension `json:"date"`
	Numeric     []Dimension `json:"numeric"`
	Categorical []Dimension `json:"categorical"`
	Bool        []Dimension `json:"bool"`
	GeneratedAt string      `json:"generated_at,omitempty"`
	RowCount    int         `json:"row_count,omitempty"`
}

// Insight is a read-only analytical finding from the backend.
type Insight struct {
	ID        string  `json:"id,omitempty"`
	Kind      string  `json:"kind,omitempty"`
	Text      string  `json:"text"`
	Dimension string  `json:"dimension,omitempty"`
	Value     string  `json:"value,omitempty"`
	Score     float64 `json:"score,omitempty"`
}

// CorrelationPair is one correlated column pair.
type CorrelationPair struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Coefficient float64 `json:"coefficient"`
}

// Intelligence is the richer relationship/anomaly/forecast bundle, distinct
// from the flat dataset.
type Intelligence struct {
	Network   Network          `json:"network"`
	Flows     []FlowLink       `json:"flows"`
	Anomalies []Anomaly        `json:"anomalies"`
	Forecast  []ForecastSeries `json:"forecast"`
}

// Network describes higher-order relationships between entities.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Links []FlowLink    `json:"links"`
}

// NetworkNode is one entity in the relationship network.
type NetworkNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// FlowLink is one directed value flow between entities.
type FlowLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Anomaly is one detected outlier.
type Anomaly struct {
	Timestamp string  `json:"timestamp"`
	Label     string  `json:"label"`
	Severity  float64 `json:"severity,omitempty"`
}

// ForecastSeries is one predicted series.
type ForecastSeries struct {
	Name   string          `json:"name"`
	Points []ForecastPoint `json:"points"`
}

// ForecastPoint is one predicted observation.
type ForecastPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Fetcher retrieves run-scoped resources from the pipeline backend. Every
// method validates payload shape before returning; malformed payloads are
// errors, which the provider converts to fallbacks.
type Fetcher interface {
	Metrics(ctx context.Context, runID string) ([]MetricSpec, error)
	Dimensions(ctx context.Context, runID string) (DimensionsCatalog, error)
	Dataset(ctx context.Context, runID string) ([]schema.Row, error)
	Insights(ctx context.Context, runID string) ([]Insight, error)
	Correlations(ctx context.Context, runID string) ([]CorrelationPair, error)
	Intelligence(ctx context.Context, runID string) (Intelligence, error)
}

// Bundle is one complete set of run resources: the provider's fallback
// payloads, and the shape written to the snapshot cache.
type Bundle struct {
	Metrics      []MetricSpec      `json:"metrics"`
	Dimensions   DimensionsCatalog `json:"dimensions"`
	Rows         []schema.Row      `json:"rows"`
	Insights     []Insight         `json:"insights"`
	Correlations []CorrelationPair `json:"correlations"`
	Intelligence Intelligence      `json:"intelligence"`
}

// Source says where a resource's current value came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// SourceReport records, per resource, where the loaded value came from and
// the fetch error if the live call failed. Callers use it for logging and
// user-facing notices; a failed resource never blocks the others.
type SourceReport struct {
	Metrics      ResourceOutcome
	Dimensions   ResourceOutcome
	Dataset      ResourceOutcome
	Insights     ResourceOutcome
	Correlations ResourceOutcome
	Intelligence ResourceOutcome
}

// ResourceOutcome is one resource's load outcome.
type ResourceOutcome struct {
	Source Source
	Err    error
}

// Degraded reports whether any resource fell back from live data.
func (r SourceReport) Degraded() bool {
	for _, o := range []ResourceOutcome{r.Metrics, r.Dimensions, r.Dataset, r.Insights, r.Correlations, r.Intelligence} {
		if o.Source != SourceLive {
			return true
		}
	}
	return false
}
