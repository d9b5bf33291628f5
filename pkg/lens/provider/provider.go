// Package provider owns the authoritative in-memory snapshot of one active
// run: metrics, dimension catalog, dataset rows, insights, correlations,
// the intelligence bundle and the filter state. Everything else in the
// engine reads copies and communicates intended changes back through the
// explicit setters.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cognicore/lens/pkg/lens/canonical"
	"github.com/cognicore/lens/pkg/lens/config"
	"github.com/cognicore/lens/pkg/lens/insighttext"
	"github.com/cognicore/lens/pkg/lens/internalerr"
	"github.com/cognicore/lens/pkg/lens/schema"
	"github.com/cognicore/lens/pkg/lens/snapshot"
)

// Provider holds the run-scoped state. Agents receive read-only snapshots;
// mutation happens only through the provider's own methods.
type Provider struct {
	cfg     *config.Config
	canon   *canonical.Canonicalizer
	fetcher Fetcher
	cache   snapshot.Store
	fb      Bundle

	mu           sync.Mutex
	runID        string
	metrics      []MetricSpec
	catalog      DimensionsCatalog
	rows         []schema.Row
	insights     []Insight
	correlations []CorrelationPair
	intel        Intelligence
	filters      map[string][]string
	labels       map[string]canonical.LabelParts
	report       SourceReport
}

// Options configures a Provider. Fetcher and Cache may be nil: a nil
// fetcher always loads from cache or fallback, a nil cache disables the
// offline path.
type Options struct {
	Config        *config.Config
	Canonicalizer *canonical.Canonicalizer
	Fetcher       Fetcher
	Cache         snapshot.Store
	Fallback      Bundle
}

// New creates a Provider with the given dependencies.
func New(opts Options) *Provider {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	canon := opts.Canonicalizer
	if canon == nil {
		canon = canonical.New(cfg.Aliases)
	}
	return &Provider{
		cfg:     cfg,
		canon:   canon,
		fetcher: opts.Fetcher,
		cache:   opts.Cache,
		fb:      opts.Fallback,
		filters: make(map[string][]string),
	}
}

// LoadRun switches the provider to a run: filter state resets, and every
// sub-resource is fetched concurrently. Each resource independently falls
// back to its cached copy, then to the bundled fallback, so one failure
// never blanks the rest. If the active run changes while the fetch is in
// flight, the superseded results are discarded and ErrStaleRun returned.
func (p *Provider) LoadRun(ctx context.Context, runID string) error {
	if runID == "" {
		return fmt.Errorf("load run: %w", internalerr.ErrInvalidInput)
	}

	p.mu.Lock()
	p.runID = runID
	p.filters = make(map[string][]string)
	p.mu.Unlock()

	var (
		wg           sync.WaitGroup
		metrics      []MetricSpec
		catalog      DimensionsCatalog
		rows         []schema.Row
		insights     []Insight
		correlations []CorrelationPair
		intel        Intelligence
		report       SourceReport
	)

	wg.Add(6)
	go func() {
		defer wg.Done()
		metrics, report.Metrics = loadResource(ctx, p, runID, snapshot.ResourceMetrics, p.fetchMetrics, p.fb.Metrics)
	}()
	go func() {
		defer wg.Done()
		catalog, report.Dimensions = loadResource(ctx, p, runID, snapshot.ResourceDimensions, p.fetchDimensions, p.fb.Dimensions)
	}()
	go func() {
		defer wg.Done()
		rows, report.Dataset = loadResource(ctx, p, runID, snapshot.ResourceDataset, p.fetchDataset, p.fb.Rows)
	}()
	go func() {
		defer wg.Done()
		insights, report.Insights = loadResource(ctx, p, runID, snapshot.ResourceInsights, p.fetchInsights, p.fb.Insights)
	}()
	go func() {
		defer wg.Done()
		correlations, report.Correlations = loadResource(ctx, p, runID, snapshot.ResourceCorrelations, p.fetchCorrelations, p.fb.Correlations)
	}()
	go func() {
		defer wg.Done()
		intel, report.Intelligence = loadResource(ctx, p, runID, snapshot.ResourceIntelligence, p.fetchIntelligence, p.fb.Intelligence)
	}()
	wg.Wait()

	if len(rows) > p.cfg.Limits.MaxRows {
		rows = rows[:p.cfg.Limits.MaxRows]
	}
	p.canonicalizeRows(rows, catalog)
	insights = p.canonicalizeInsights(insights)
	intel = p.canonicalizeIntelligence(intel)
	labels := labelParts(catalog)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runID != runID {
		// A newer run superseded this fetch; drop the results.
		return fmt.Errorf("load run %s: %w", runID, internalerr.ErrStaleRun)
	}
	p.metrics = metrics
	p.catalog = catalog
	p.rows = rows
	p.insights = insights
	p.correlations = correlations
	p.intel = intel
	p.labels = labels
	p.report = report
	return nil
}

// loadResource resolves one resource: live fetch, then snapshot cache,
// then bundled fallback. A live result is written through to the cache.
func loadResource[T any](ctx context.Context, p *Provider, runID string, res snapshot.Resource, fetch func(context.Context, string) (T, error), fb T) (T, ResourceOutcome) {
	var fetchErr error
	if p.fetcher != nil {
		val, err := fetch(ctx, runID)
		if err == nil {
			if p.cache != nil {
				if payload, merr := json.Marshal(val); merr == nil {
					_ = p.cache.Put(ctx, runID, res, payload)
				}
			}
			return val, ResourceOutcome{Source: SourceLive}
		}
		fetchErr = err
	}

	if p.cache != nil {
		if payload, ok, err := p.cache.Get(ctx, runID, res); err == nil && ok {
			var val T
			if err := json.Unmarshal(payload, &val); err == nil {
				return val, ResourceOutcome{Source: SourceCache, Err: fetchErr}
			}
		}
	}

	return fb, ResourceOutcome{Source: SourceFallback, Err: fetchErr}
}

func (p *Provider) fetchMetrics(ctx context.Context, runID string) ([]MetricSpec, error) {
	return p.fetcher.Metrics(ctx, runID)
}

func (p *Provider) fetchDimensions(ctx context.Context, runID string) (DimensionsCatalog, error) {
	return p.fetcher.Dimensions(ctx, runID)
}

func (p *Provider) fetchDataset(ctx context.Context, runID string) ([]schema.Row, error) {
	return p.fetcher.Dataset(ctx, runID)
}

func (p *Provider) fetchInsights(ctx context.Context, runID string) ([]Insight, error) {
	return p.fetcher.Insights(ctx, runID)
}

func (p *Provider) fetchCorrelations(ctx context.Context, runID string) ([]CorrelationPair, error) {
	return p.fetcher.Correlations(ctx, runID)
}

func (p *Provider) fetchIntelligence(ctx context.Context, runID string) (Intelligence, error) {
	return p.fetcher.Intelligence(ctx, runID)
}

// canonicalizeRows rewrites every categorical cell to its canonical form.
// Downstream consumers never see raw unnormalized strings.
func (p *Provider) canonicalizeRows(rows []schema.Row, catalog DimensionsCatalog) {
	for _, dim := range catalog.Categorical {
		for _, row := range rows {
			v, ok := row[dim.Name]
			if !ok || v.Kind() != schema.KindString {
				continue
			}
			row[dim.Name] = schema.String(p.canon.Value(dim.Name, v.Display()))
		}
	}
}

func (p *Provider) canonicalizeInsights(insights []Insight) []Insight {
	out := make([]Insight, len(insights))
	for i, ins := range insights {
		ins.Text = insighttext.Strip(ins.Text)
		if ins.Value != "" {
			ins.Value = p.canon.Value(ins.Dimension, ins.Value)
		}
		out[i] = ins
	}
	return out
}

func (p *Provider) canonicalizeIntelligence(intel Intelligence) Intelligence {
	for i, node := range intel.Network.Nodes {
		intel.Network.Nodes[i].Label = p.canon.Value("", node.Label)
	}
	for i, a := range intel.Anomalies {
		intel.Anomalies[i].Label = p.canon.Value("", a.Label)
	}
	return intel
}

func labelParts(catalog DimensionsCatalog) map[string]canonical.LabelParts {
	labels := make(map[string]canonical.LabelParts)
	for _, group := range [][]Dimension{catalog.Date, catalog.Numeric, catalog.Categorical, catalog.Bool} {
		for _, dim := range group {
			labels[dim.Name] = canonical.DecodeLabel(dim.Label, dim.Name)
		}
	}
	return labels
}

// ActiveRun returns the current run identifier.
func (p *Provider) ActiveRun() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runID
}

// Report returns the per-resource load outcome of the last LoadRun.
func (p *Provider) Report() SourceReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.report
}
