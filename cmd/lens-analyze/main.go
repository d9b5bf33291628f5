package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/lens/internal/backend"
	"github.com/cognicore/lens/pkg/lens/config"
	"github.com/cognicore/lens/pkg/lens/fallback"
	"github.com/cognicore/lens/pkg/lens/formula"
	"github.com/cognicore/lens/pkg/lens/provider"
	"github.com/cognicore/lens/pkg/lens/schema"
	"github.com/cognicore/lens/pkg/lens/snapshot"
	"github.com/cognicore/lens/pkg/lens/snapshot/sqlite"
)

type report struct {
	RunID     string      `json:"run_id"`
	Metric    string      `json:"metric"`
	Formula   string      `json:"formula"`
	GroupedBy string      `json:"grouped_by"`
	TotalRows int         `json:"total_rows"`
	Entries   []entryJSON `json:"entries"`
}

type entryJSON struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
	Count int     `json:"count"`
}

func main() {
	var (
		backendURL = flag.String("backend", "", "Pipeline backend URL (optional; offline without it)")
		apiKey     = flag.String("api-key", "", "Backend API key")
		runID      = flag.String("run", "", "Run ID to analyze (required)")
		cachePath  = flag.String("cache", "", "Snapshot cache path (optional)")
		metricID   = flag.String("metric", "", "Metric ID to aggregate (default: first metric)")
		dimension  = flag.String("by", "", "Dimension to group by (default: metric's time column)")
	)
	flag.Parse()

	if *runID == "" {
		log.Fatal("--run required")
	}

	ctx := context.Background()

	var fetcher provider.Fetcher
	if *backendURL != "" {
		fetcher = &backend.Client{BaseURL: *backendURL, APIKey: *apiKey}
	}
	var cache snapshot.Store
	if *cachePath != "" {
		store, err := sqlite.Open(ctx, *cachePath)
		if err != nil {
			log.Fatalf("open cache: %v", err)
		}
		defer store.Close()
		cache = store
	}

	p := provider.New(provider.Options{
		Config:   config.Default(),
		Fetcher:  fetcher,
		Cache:    cache,
		Fallback: fallback.Bundle(),
	})
	if err := p.LoadRun(ctx, *runID); err != nil {
		log.Fatalf("load run: %v", err)
	}

	snap := p.Snapshot()
	metric, err := pickMetric(snap.Metrics, *metricID)
	if err != nil {
		log.Fatal(err)
	}

	agg, column := formula.Parse(metric.Formula)
	entries, groupedBy, err := aggregate(snap.Rows, metric, column, *dimension, agg)
	if err != nil {
		log.Fatalf("aggregate: %v", err)
	}

	rep := report{
		RunID:     snap.RunID,
		Metric:    metric.ID,
		Formula:   metric.Formula,
		GroupedBy: groupedBy,
		TotalRows: snap.TotalRows,
	}
	for _, e := range entries {
		rep.Entries = append(rep.Entries, entryJSON{Label: e.Label, Value: e.Value, Share: e.Share, Count: e.Count})
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func pickMetric(metrics []provider.MetricSpec, id string) (provider.MetricSpec, error) {
	if len(metrics) == 0 {
		return provider.MetricSpec{}, fmt.Errorf("run carries no metrics")
	}
	if id == "" {
		return metrics[0], nil
	}
	for _, m := range metrics {
		if m.ID == id {
			return m, nil
		}
	}
	return provider.MetricSpec{}, fmt.Errorf("metric %q not found", id)
}

// aggregate groups by the requested dimension, falling back to the
// metric's time column for a chronological series.
func aggregate(rows []schema.Row, metric provider.MetricSpec, column, dimension string, agg formula.Aggregator) ([]formula.Entry, string, error) {
	if dimension != "" {
		entries, err := formula.GroupByDimension(rows, column, dimension, agg)
		return entries, dimension, err
	}
	if metric.TimeColumn == "" {
		return nil, "", fmt.Errorf("metric %s has no time column; pass --by", metric.ID)
	}
	entries, err := formula.GroupByTime(rows, column, metric.TimeColumn, agg)
	return entries, metric.TimeColumn, err
}
