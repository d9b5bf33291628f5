package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/lens/pkg/lens/config"
	"github.com/cognicore/lens/pkg/lens/fallback"
	"github.com/cognicore/lens/pkg/lens/internalerr"
	"github.com/cognicore/lens/pkg/lens/provider"
	"github.com/cognicore/lens/pkg/lens/schema"
	"github.com/cognicore/lens/pkg/lens/snapshot/memstore"
)

// stubFetcher serves canned resources, optionally failing some and
// blocking on selected run IDs until released.
type stubFetcher struct {
	bundle  provider.Bundle
	fail    map[resource]bool
	block   map[string]chan struct{} // runID -> release signal
	started chan string
}

type resource string

const (
	resMetrics resource = "metrics"
	resDataset resource = "dataset"
)

func (f *stubFetcher) wait(ctx context.Context, runID string) error {
	if f.started != nil {
		select {
		case f.started <- runID:
		default:
		}
	}
	if ch, ok := f.block[runID]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *stubFetcher) Metrics(ctx context.Context, runID string) ([]provider.MetricSpec, error) {
	if err := f.wait(ctx, runID); err != nil {
		return nil, err
	}
	if f.fail[resMetrics] {
		return nil, errors.New("metrics unavailable")
	}
	return f.bundle.Metrics, nil
}

func (f *stubFetcher) Dimensions(ctx context.Context, runID string) (provider.DimensionsCatalog, error) {
	if err := f.wait(ctx, runID); err != nil {
		return provider.DimensionsCatalog{}, err
	}
	return f.bundle.Dimensions, nil
}

func (f *stubFetcher) Dataset(ctx context.Context, runID string) ([]schema.Row, error) {
	if err := f.wait(ctx, runID); err != nil {
		return nil, err
	}
	if f.fail[resDataset] {
		return nil, errors.New("dataset unavailable")
	}
	return f.bundle.Rows, nil
}

func (f *stubFetcher) Insights(ctx context.Context, runID string) ([]provider.Insight, error) {
	if err := f.wait(ctx, runID); err != nil {
		return nil, err
	}
	return f.bundle.Insights, nil
}

func (f *stubFetcher) Correlations(ctx context.Context, runID string) ([]provider.CorrelationPair, error) {
	if err := f.wait(ctx, runID); err != nil {
		return nil, err
	}
	return f.bundle.Correlations, nil
}

func (f *stubFetcher) Intelligence(ctx context.Context, runID string) (provider.Intelligence, error) {
	if err := f.wait(ctx, runID); err != nil {
		return provider.Intelligence{}, err
	}
	return f.bundle.Intelligence, nil
}

func liveBundle() provider.Bundle {
	b := fallback.Bundle()
	// Make the live dataset distinguishable from the fallback.
	b.Rows = []schema.Row{
		{"destination": schema.String("جدة"), "payment_method": schema.String("credit card"), "revenue": schema.Number(500)},
		{"destination": schema.String("الرياض"), "payment_method": schema.String("cash on delivery"), "revenue": schema.Number(120)},
	}
	return b
}

func TestLoadRunLive(t *testing.T) {
	p := provider.New(provider.Options{
		Fetcher:  &stubFetcher{bundle: liveBundle()},
		Fallback: fallback.Bundle(),
	})
	if err := p.LoadRun(context.Background(), "run-1"); err != nil {
		t.Fatalf("LoadRun: %v", err)
	}

	rows := p.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want live dataset", len(rows))
	}
	if p.Report().Degraded() {
		t.Errorf("report should not be degraded: %+v", p.Report())
	}

	// Categorical cells are canonicalized at ingestion.
	if got := rows[0].Get("payment_method").Display(); got != "CC" {
		t.Errorf("payment_method = %q, want CC", got)
	}
	if got := rows[1].Get("payment_method").Display(); got != "COD" {
		t.Errorf("payment_method = %q, want COD", got)
	}
	if got := rows[0].Get("destination").Display(); got != "جدة" {
		t.Errorf("destination = %q, Arabic values must pass through", got)
	}
}

func TestLoadRunDatasetFailureFallsBack(t *testing.T) {
	fb := fallback.Bundle()
	p := provider.New(provider.Options{
		Fetcher:  &stubFetcher{bundle: liveBundle(), fail: map[resource]bool{resDataset: true}},
		Fallback: fb,
	})
	if err := p.LoadRun(context.Background(), "run-1"); err != nil {
		t.Fatalf("LoadRun must not fail on one resource: %v", err)
	}

	if len(p.Rows()) != len(fb.Rows) {
		t.Errorf("rows = %d, want fallback dataset of %d", len(p.Rows()), len(fb.Rows))
	}
	report := p.Report()
	if report.Dataset.Source != provider.SourceFallback {
		t.Errorf("dataset source = %v", report.Dataset.Source)
	}
	if report.Dataset.Err == nil {
		t.Error("dataset outcome should carry the fetch error")
	}
	// Other resources stay live.
	if report.Metrics.Source != provider.SourceLive {
		t.Errorf("metrics source = %v", report.Metrics.Source)
	}
}

func TestLoadRunUsesCacheWhenOffline(t *testing.T) {
	ctx := context.Background()
	cache := memstore.New()

	// First load online writes through to the cache.
	online := provider.New(provider.Options{
		Fetcher:  &stubFetcher{bundle: liveBundle()},
		Cache:    cache,
		Fallback: fallback.Bundle(),
	})
	if err := online.LoadRun(ctx, "run-7"); err != nil {
		t.Fatal(err)
	}

	// Second provider has no fetcher at all.
	offline := provider.New(provider.Options{
		Cache:    cache,
		Fallback: fallback.Bundle(),
	})
	if err := offline.LoadRun(ctx, "run-7"); err != nil {
		t.Fatal(err)
	}
	if offline.Report().Dataset.Source != provider.SourceCache {
		t.Errorf("dataset source = %v, want cache", offline.Report().Dataset.Source)
	}
	if len(offline.Rows()) != 2 {
		t.Errorf("cached rows = %d", len(offline.Rows()))
	}
}

func TestLoadRunTruncatesDataset(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.MaxRows = 5

	bundle := liveBundle()
	bundle.Rows = nil
	for i := 0; i < 20; i++ {
		bundle.Rows = append(bundle.Rows, schema.Row{"i": schema.Number(float64(i))})
	}

	p := provider.New(provider.Options{
		Config:   cfg,
		Fetcher:  &stubFetcher{bundle: bundle},
		Fallback: fallback.Bundle(),
	})
	if err := p.LoadRun(context.Background(), "run-1"); err != nil {
		t.Fatal(err)
	}

	rows := p.Rows()
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	// Deterministic truncation keeps the first N.
	if f, _ := rows[0].Get("i").AsNumber(); f != 0 {
		t.Errorf("first row = %v", f)
	}
	if f, _ := rows[4].Get("i").AsNumber(); f != 4 {
		t.Errorf("last row = %v", f)
	}
}

func TestStaleRunDiscarded(t *testing.T) {
	release := make(chan struct{})
	fetcher := &stubFetcher{
		bundle:  liveBundle(),
		block:   map[string]chan struct{}{"run-old": release},
		started: make(chan string, 16),
	}
	p := provider.New(provider.Options{Fetcher: fetcher, Fallback: fallback.Bundle()})

	errc := make(chan error, 1)
	go func() {
		errc <- p.LoadRun(context.Background(), "run-old")
	}()
	<-fetcher.started // run-old fetch is in flight

	if err := p.LoadRun(context.Background(), "run-new"); err != nil {
		t.Fatalf("LoadRun run-new: %v", err)
	}
	close(release)

	if err := <-errc; !errors.Is(err, internalerr.ErrStaleRun) {
		t.Errorf("superseded load err = %v, want ErrStaleRun", err)
	}
	if p.ActiveRun() != "run-new" {
		t.Errorf("active run = %q, stale results must not overwrite", p.ActiveRun())
	}
}

func TestFilterSemantics(t *testing.T) {
	p := provider.New(provider.Options{
		Fetcher:  &stubFetcher{bundle: fallback.Bundle()},
		Fallback: fallback.Bundle(),
	})
	if err := p.LoadRun(context.Background(), "run-1"); err != nil {
		t.Fatal(err)
	}
	all := p.Rows()

	// No filters: identity.
	if got := p.FilteredRows(); len(got) != len(all) {
		t.Errorf("unfiltered view = %d rows, want %d", len(got), len(all))
	}

	p.SetFilter("destination", []string{"جدة"})
	filtered := p.FilteredRows()
	if len(filtered) == 0 || len(filtered) >= len(all) {
		t.Fatalf("filtered = %d of %d", len(filtered), len(all))
	}
	for _, row := range filtered {
		if row.Get("destination").Display() != "جدة" {
			t.Errorf("row leaked through filter: %v", row.Get("destination").Display())
		}
	}

	// OR within a dimension.
	p.SetFilter("destination", []string{"جدة", "الرياض"})
	or := p.FilteredRows()
	if len(or) <= len(filtered) {
		t.Errorf("OR within dimension should widen: %d <= %d", len(or), len(filtered))
	}

	// AND across dimensions.
	p.SetFilter("payment_method", []string{"COD"})
	and := p.FilteredRows()
	if len(and) >= len(or) {
		t.Errorf("AND across dimensions should narrow: %d >= %d", len(and), len(or))
	}

	// Empty values delete the key, never store an empty array.
	p.SetFilter("destination", nil)
	if _, ok := p.Filters()["destination"]; ok {
		t.Error("empty SetFilter must delete the key")
	}

	if n := p.ClearAllFilters(); n != 1 {
		t.Errorf("cleared %d filters, want 1", n)
	}
	if len(p.Filters()) != 0 {
		t.Errorf("filters remain: %v", p.Filters())
	}
}

func TestLoadRunResetsFilters(t *testing.T) {
	p := provider.New(provider.Options{
		Fetcher:  &stubFetcher{bundle: fallback.Bundle()},
		Fallback: fallback.Bundle(),
	})
	if err := p.LoadRun(context.Background(), "run-1"); err != nil {
		t.Fatal(err)
	}
	p.SetFilter("destination", []string{"جدة"})

	if err := p.LoadRun(context.Background(), "run-2"); err != nil {
		t.Fatal(err)
	}
	if len(p.Filters()) != 0 {
		t.Errorf("filters survive run change: %v", p.Filters())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	p := provider.New(provider.Options{
		Fetcher:  &stubFetcher{bundle: fallback.Bundle()},
		Fallback: fallback.Bundle(),
	})
	if err := p.LoadRun(context.Background(), "run-1"); err != nil {
		t.Fatal(err)
	}
	p.SetFilter("status", []string{"Delivered"})

	snap := p.Snapshot()
	snap.Filters["status"] = []string{"tampered"}

	if p.Filters()["status"][0] != "Delivered" {
		t.Error("snapshot filter mutation leaked into provider state")
	}
	if snap.TotalRows != len(p.Rows()) {
		t.Errorf("TotalRows = %d, want %d", snap.TotalRows, len(p.Rows()))
	}
}
