package provider

import (
	"github.com/cognicore/lens/pkg/lens/canonical"
	"github.com/cognicore/lens/pkg/lens/schema"
)

// SetFilter constrains a dimension to a set of allowed values. An empty
// values slice deletes the key entirely: absence of a filter, never an
// empty match set.
func (p *Provider) SetFilter(dimension string, values []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	deduped := dedupe(values)
	if len(deduped) == 0 {
		delete(p.filters, dimension)
		return
	}
	p.filters[dimension] = deduped
}

// ClearFilter removes one dimension's filter. It reports whether a filter
// was active.
func (p *Provider) ClearFilter(dimension string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.filters[dimension]
	delete(p.filters, dimension)
	return ok
}

// ClearAllFilters removes every active filter and returns how many there
// were.
func (p *Provider) ClearAllFilters() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.filters)
	p.filters = make(map[string][]string)
	return n
}

// Filters returns a copy of the active filter state.
func (p *Provider) Filters() map[string][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyFilters(p.filters)
}

// FilteredRows returns the derived filtered view: a row is included iff,
// for every filtered dimension, its stringified value is in that
// dimension's allowed set. AND across dimensions, OR within a set.
func (p *Provider) FilteredRows() []schema.Row {
	p.mu.Lock()
	defer p.mu.Unlock()
	return filterRows(p.rows, p.filters)
}

// Rows returns the unfiltered dataset.
func (p *Provider) Rows() []schema.Row {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rows
}

// Snapshot is a read-only view handed to the agents. Rows are shared, not
// copied; consumers must treat them as immutable.
type Snapshot struct {
	RunID        string
	Metrics      []MetricSpec
	Catalog      DimensionsCatalog
	Rows         []schema.Row
	TotalRows    int
	Insights     []Insight
	Correlations []CorrelationPair
	Intelligence Intelligence
	Filters      map[string][]string
	Labels       map[string]canonical.LabelParts
}

// Snapshot captures the current state with the filtered dataset view.
func (p *Provider) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		RunID:        p.runID,
		Metrics:      p.metrics,
		Catalog:      p.catalog,
		Rows:         filterRows(p.rows, p.filters),
		TotalRows:    len(p.rows),
		Insights:     p.insights,
		Correlations: p.correlations,
		Intelligence: p.intel,
		Filters:      copyFilters(p.filters),
		Labels:       p.labels,
	}
}

func filterRows(rows []schema.Row, filters map[string][]string) []schema.Row {
	if len(filters) == 0 {
		return rows
	}

	sets := make(map[string]map[string]struct{}, len(filters))
	for dim, vals := range filters {
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		sets[dim] = set
	}

	out := make([]schema.Row, 0, len(rows))
	for _, row := range rows {
		keep := true
		for dim, set := range sets {
			if _, ok := set[row.Get(dim).Display()]; !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

func copyFilters(filters map[string][]string) map[string][]string {
	out := make(map[string][]string, len(filters))
	for dim, vals := range filters {
		cp := make([]string, len(vals))
		copy(cp, vals)
		out[dim] = cp
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
