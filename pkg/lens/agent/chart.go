package agent

import (
	"fmt"
	"strings"

	"github.com/cognicore/lens/pkg/lens/formula"
	"github.com/cognicore/lens/pkg/lens/provider"
	"github.com/cognicore/lens/pkg/lens/schema"
)

func (a *Agent) handleChart(r *request) Reply {
	chartType, reason := a.chartType(r)
	metric := a.chooseMetric(r)
	dimension := a.chooseDimension(r)

	rec := &ChartRecommendation{
		ChartType: chartType,
		Dimension: dimension,
		Reason:    reason,
	}
	metricName := a.pick("the dataset", "البيانات")
	if metric != nil {
		rec.MetricID = metric.ID
		metricName = metric.Title
	}

	dimName := dimension
	if dimName == "" {
		dimName = a.pick("the data", "البيانات")
	}
	text := fmt.Sprintf(a.pick("Try a %s chart of %s by %s.", "جرب مخطط %s لـ%s حسب %s."),
		chartType, metricName, dimName)
	return Reply{Text: text, Chart: rec}
}

// chartType picks the chart family from keyword cues. A datetime-typed
// resolved column or a trend cue biases to a line chart; bar is the
// default.
func (a *Agent) chartType(r *request) (string, string) {
	for _, bucket := range chartTypeCues {
		if hasCue(r.normalized, bucket.cues) {
			return bucket.chartType, a.pick("matched an explicit chart cue", "تمت مطابقة نوع المخطط المطلوب")
		}
	}
	if hasCue(r.normalized, trendCues) || (r.resolved != nil && r.resolved.DType == schema.DTypeDatetime) {
		return "line", a.pick("time-based question", "سؤال زمني")
	}
	return "bar", a.pick("categorical comparison", "مقارنة فئوية")
}

// chooseMetric walks the keyword priority list, then falls back to a
// metric referencing the resolved numeric column, then to the first
// available metric.
func (a *Agent) chooseMetric(r *request) *provider.MetricSpec {
	metrics := r.snap.Metrics
	if len(metrics) == 0 {
		return nil
	}

	for _, bucket := range metricCues {
		if !containsAny(r.normalized, bucket) {
			continue
		}
		for i, m := range metrics {
			hay := normalize(m.ID + " " + m.Title + " " + m.Formula)
			if containsAny(hay, bucket) {
				return &metrics[i]
			}
		}
	}

	if r.resolved != nil && r.resolved.DType == schema.DTypeNumber {
		for i, m := range metrics {
			_, col := formula.Parse(m.Formula)
			if col == r.resolved.Key {
				return &metrics[i]
			}
		}
	}

	return &metrics[0]
}

// chooseDimension prefers the resolved non-numeric column, else the
// catalog's first categorical dimension.
func (a *Agent) chooseDimension(r *request) string {
	if r.resolved != nil && r.resolved.DType != schema.DTypeNumber {
		return r.resolved.Key
	}
	if len(r.snap.Catalog.Categorical) > 0 {
		return r.snap.Catalog.Categorical[0].Name
	}
	return ""
}

func containsAny(haystack string, needles []string) bool {
	padded := " " + haystack + " "
	for _, n := range needles {
		nn := normalize(n)
		if nn != "" && strings.Contains(padded, " "+nn+" ") {
			return true
		}
	}
	return false
}
