// Package snapshot caches fetched run resources so a previously loaded run
// can be reopened without the backend.
package snapshot

import "context"

// Resource names one cached sub-resource of a run.
type Resource string

const (
	ResourceMetrics      Resource = "metrics"
	ResourceDimensions   Resource = "dimensions"
	ResourceDataset      Resource = "dataset"
	ResourceInsights     Resource = "insights"
	ResourceCorrelations Resource = "correlations"
	ResourceIntelligence Resource = "intelligence"
)

// Store persists one JSON payload per (run, resource).
type Store interface {
	Close() error
	Put(ctx context.Context, runID string, res Resource, payload []byte) error
	Get(ctx context.Context, runID string, res Resource) ([]byte, bool, error)
}
