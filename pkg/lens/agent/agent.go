// Package agent classifies a single utterance against the current dataset
// snapshot and emits a filter mutation, a column explanation or a chart
// recommendation. It is stateless and pure: the caller inspects the reply
// and applies any mutation through the provider's setters.
package agent

import (
	"crypto/rand"
	"fmt"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/lens/pkg/lens/config"
	"github.com/cognicore/lens/pkg/lens/provider"
	"github.com/cognicore/lens/pkg/lens/schema"
)

// Agent is the local, heuristic stand-in for the backend's networked
// assistant: no round-trip, no model, just bilingual keyword matching over
// discovered columns.
type Agent struct {
	cfg     *config.Config
	lang    string
	entropy *ulid.MonotonicEntropy
}

// New creates an agent answering in the configured language.
func New(cfg *config.Config) *Agent {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Agent{
		cfg:     cfg,
		lang:    cfg.Language,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// ChartRecommendation names a chart family with its metric and dimension.
type ChartRecommendation struct {
	ChartType string
	MetricID  string
	Dimension string
	Reason    string
}

// ColumnExplanation summarizes one resolved column.
type ColumnExplanation struct {
	Column      string
	Display     string
	DType       schema.DType
	Stats       *schema.NumericStats
	Samples     []string
	UniqueCount int
}

// Reply is the agent's answer. At most one of FiltersToSet, FiltersToClear,
// Chart and Explanation is populated, always alongside human-readable Text
// in the active language.
type Reply struct {
	ID             string
	Intent         string
	Text           string
	FiltersToSet   map[string][]string
	FiltersToClear []string
	Chart          *ChartRecommendation
	Explanation    *ColumnExplanation
}

// request carries everything one Ask computes up front.
type request struct {
	question   string
	normalized string
	snap       provider.Snapshot
	columns    []schema.ColumnDescriptor
	resolved   *schema.ColumnDescriptor
}

// intent is one (predicate, handler) entry of the classification table.
type intent struct {
	name   string
	match  func(a *Agent, r *request) bool
	handle func(a *Agent, r *request) Reply
}

// The table is evaluated top to bottom and the first match wins. Filter
// intent deliberately precedes chart intent: an utterance matching both is
// treated as a filter request.
var intents = []intent{
	{"list-columns", (*Agent).matchListColumns, (*Agent).handleListColumns},
	{"explain-column", (*Agent).matchExplain, (*Agent).handleExplain},
	{"clear-filter", (*Agent).matchClear, (*Agent).handleClear},
	{"set-filter", (*Agent).matchSetFilter, (*Agent).handleSetFilter},
	{"chart-recommendation", (*Agent).matchChart, (*Agent).handleChart},
	{"fallback", func(*Agent, *request) bool { return true }, (*Agent).handleFallback},
}

// Ask classifies one utterance against a snapshot. Column descriptors are
// recomputed fresh from the snapshot's bounded sample on every call.
func (a *Agent) Ask(question string, snap provider.Snapshot) Reply {
	r := &request{
		question:   question,
		normalized: normalize(question),
		snap:       snap,
		columns:    schema.Profile(snap.Rows, snap.Labels, a.cfg.Inference, a.cfg.Limits),
	}
	r.resolved = resolveColumn(r.normalized, r.columns)

	for _, in := range intents {
		if in.match(a, r) {
			reply := in.handle(a, r)
			reply.Intent = in.name
			reply.ID = ulid.MustNew(ulid.Now(), a.entropy).String()
			return reply
		}
	}
	// Unreachable: the fallback intent always matches.
	return Reply{}
}

func (a *Agent) matchListColumns(r *request) bool {
	return hasCue(r.normalized, listCues)
}

func (a *Agent) handleListColumns(r *request) Reply {
	limit := 8
	if len(r.columns) < limit {
		limit = len(r.columns)
	}
	var lines []string
	for _, col := range r.columns[:limit] {
		lines = append(lines, fmt.Sprintf("- %s (%s)", col.DisplayName(), col.DType))
	}
	header := a.pick("Discovered columns:", "الأعمدة المكتشفة:")
	if len(lines) == 0 {
		return Reply{Text: a.pick("No columns discovered in the current dataset.", "لا توجد أعمدة مكتشفة في البيانات الحالية.")}
	}
	return Reply{Text: header + "\n" + strings.Join(lines, "\n")}
}

func (a *Agent) matchExplain(r *request) bool {
	return hasCue(r.normalized, explainCues) && r.resolved != nil
}

func (a *Agent) handleExplain(r *request) Reply {
	col := r.resolved
	samples := col.Samples
	if len(samples) > 3 {
		samples = samples[:3]
	}
	exp := &ColumnExplanation{
		Column:      col.Key,
		Display:     col.DisplayName(),
		DType:       col.DType,
		Stats:       col.Stats,
		Samples:     samples,
		UniqueCount: col.UniqueCount,
	}

	var b strings.Builder
	fmt.Fprintf(&b, a.pick("%s is a %s column with %d distinct values.", "%s عمود من النوع %s يحوي %d قيمة مميزة."),
		exp.Display, exp.DType, exp.UniqueCount)
	if col.Stats != nil {
		fmt.Fprintf(&b, a.pick(" Range %g to %g, mean %.2f.", " النطاق من %g إلى %g والمتوسط %.2f."),
			col.Stats.Min, col.Stats.Max, col.Stats.Mean)
	}
	if len(samples) > 0 {
		fmt.Fprintf(&b, a.pick(" Examples: %s.", " أمثلة: %s."), strings.Join(samples, ", "))
	}
	return Reply{Text: b.String(), Explanation: exp}
}

func (a *Agent) matchClear(r *request) bool {
	return hasCue(r.normalized, clearCues)
}

func (a *Agent) handleClear(r *request) Reply {
	if r.resolved != nil {
		if _, active := r.snap.Filters[r.resolved.Key]; active {
			return Reply{
				Text:           fmt.Sprintf(a.pick("Cleared the filter on %s.", "تم مسح الفلتر عن %s."), r.resolved.DisplayName()),
				FiltersToClear: []string{r.resolved.Key},
			}
		}
	}
	if len(r.snap.Filters) > 0 {
		keys := make([]string, 0, len(r.snap.Filters))
		for dim := range r.snap.Filters {
			keys = append(keys, dim)
		}
		sort.Strings(keys)
		return Reply{
			Text:           fmt.Sprintf(a.pick("Cleared %d active filters.", "تم مسح %d من الفلاتر النشطة."), len(keys)),
			FiltersToClear: keys,
		}
	}
	return Reply{Text: a.pick("There are no active filters to clear.", "لا توجد فلاتر نشطة لمسحها.")}
}

func (a *Agent) matchSetFilter(r *request) bool {
	return hasCue(r.normalized, filterCues) && r.resolved != nil
}

func (a *Agent) handleSetFilter(r *request) Reply {
	col := r.resolved
	values := a.extractFilterValues(r.question, r.normalized, col)
	if len(values) == 0 {
		examples := col.Samples
		if len(examples) > 3 {
			examples = examples[:3]
		}
		return Reply{Text: fmt.Sprintf(
			a.pick("Which value of %s should I filter on? For example: %s.", "ما القيمة التي تريد تصفية %s عليها؟ مثلا: %s."),
			col.DisplayName(), strings.Join(examples, ", "))}
	}
	return Reply{
		Text: fmt.Sprintf(a.pick("Filtering %s to %s.", "تمت تصفية %s على %s."),
			col.DisplayName(), strings.Join(values, ", ")),
		FiltersToSet: map[string][]string{col.Key: values},
	}
}

func (a *Agent) matchChart(r *request) bool {
	// Explicit chart cue, or the fallthrough for a resolved column that
	// matched no earlier intent.
	return hasCue(r.normalized, chartCues) || r.resolved != nil
}

func (a *Agent) handleFallback(r *request) Reply {
	return Reply{Text: a.pick(
		"I can filter the data (\"show only جدة\"), explain a column (\"explain revenue\"), or suggest a chart (\"chart revenue by destination\").",
		"أستطيع تصفية البيانات (\"فلتر الوجهة على جدة\")، أو شرح عمود (\"اشرح الإيرادات\")، أو اقتراح رسم بياني (\"ارسم الإيرادات حسب الوجهة\").")}
}
