// Package recommend scores keyword buckets against a question to pick a
// visualization family for the intelligence bundle, and extracts the facts
// that support the pick.
package recommend

import (
	"crypto/rand"
	"fmt"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/lens/pkg/lens/provider"
)

// Kind is a visualization family.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindSankey     Kind = "sankey"
	KindAnomalies  Kind = "anomalies"
	KindPredictive Kind = "predictive"
)

// Suggestion is one visualization recommendation with supporting facts.
type Suggestion struct {
	ID         string
	Kind       Kind
	Reason     string
	Highlights []string
}

// Keyword buckets in fixed declared order; the first bucket with any
// matching token wins.
var buckets = []struct {
	kind Kind
	cues []string
}{
	{KindNetwork, []string{"network", "relationship", "connection", "related", "graph", "شبكة", "علاقة", "علاقات", "ارتباط"}},
	{KindSankey, []string{"flow", "sankey", "path", "movement", "route", "تدفق", "مسار", "حركة"}},
	{KindAnomalies, []string{"anomaly", "anomalies", "outlier", "unusual", "spike", "strange", "شذوذ", "غريب", "شاذة"}},
	{KindPredictive, []string{"forecast", "predict", "prediction", "future", "next", "توقع", "تنبؤ", "مستقبل"}},
}

// Recommender builds suggestions with stable monotonic IDs.
type Recommender struct {
	entropy *ulid.MonotonicEntropy
}

// New creates a Recommender.
func New() *Recommender {
	return &Recommender{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// SuggestVisualization picks a visualization family for the question. When
// no keyword bucket matches, the bundle's data richness decides: anomalies
// if any exist, predictive if more than one forecast series, network if
// more than three nodes, sankey otherwise.
func (r *Recommender) SuggestVisualization(question string, intel provider.Intelligence) Suggestion {
	q := " " + strings.ToLower(question) + " "

	for _, bucket := range buckets {
		for _, cue := range bucket.cues {
			if strings.Contains(q, cue) {
				return r.build(bucket.kind, "matched keyword \""+cue+"\"", intel)
			}
		}
	}

	switch {
	case len(intel.Anomalies) > 0:
		return r.build(KindAnomalies, "dataset contains anomalies", intel)
	case len(intel.Forecast) > 1:
		return r.build(KindPredictive, "multiple forecast series available", intel)
	case len(intel.Network.Nodes) > 3:
		return r.build(KindNetwork, "relationship network is rich", intel)
	default:
		return r.build(KindSankey, "default flow view", intel)
	}
}

func (r *Recommender) build(kind Kind, reason string, intel provider.Intelligence) Suggestion {
	return Suggestion{
		ID:         ulid.MustNew(ulid.Now(), r.entropy).String(),
		Kind:       kind,
		Reason:     reason,
		Highlights: highlights(kind, intel),
	}
}

// highlights extracts the top supporting facts per family: top-3 network
// nodes by score, top-3 flow links by value, the first 3 anomalies, or the
// first 3 forecast points.
func highlights(kind Kind, intel provider.Intelligence) []string {
	var out []string
	switch kind {
	case KindNetwork:
		nodes := make([]provider.NetworkNode, len(intel.Network.Nodes))
		copy(nodes, intel.Network.Nodes)
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Score > nodes[j].Score })
		for _, n := range top(len(nodes)) {
			out = append(out, fmt.Sprintf("%s (%.2f)", nodes[n].Label, nodes[n].Score))
		}
	case KindSankey:
		links := make([]provider.FlowLink, len(intel.Flows))
		copy(links, intel.Flows)
		sort.Slice(links, func(i, j int) bool { return links[i].Value > links[j].Value })
		for _, i := range top(len(links)) {
			out = append(out, fmt.Sprintf("%s → %s", links[i].Source, links[i].Target))
		}
	case KindAnomalies:
		for _, i := range top(len(intel.Anomalies)) {
			a := intel.Anomalies[i]
			out = append(out, fmt.Sprintf("%s: %s", a.Timestamp, a.Label))
		}
	case KindPredictive:
		var points []provider.ForecastPoint
		for _, series := range intel.Forecast {
			points = append(points, series.Points...)
		}
		for _, i := range top(len(points)) {
			out = append(out, fmt.Sprintf("%s: %g", points[i].Timestamp, points[i].Value))
		}
	}
	return out
}

func top(n int) []int {
	if n > 3 {
		n = 3
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// filterVocabulary maps utterance tokens to dimension updates. Checks are
// independent and non-exclusive: one question can update several
// dimensions.
var filterVocabulary = []struct {
	tokens    []string
	dimension string
	value     string
}{
	{[]string{"جدة", "jeddah"}, "destination", "جدة"},
	{[]string{"الرياض", "riyadh"}, "destination", "الرياض"},
	{[]string{"الدمام", "dammam"}, "destination", "الدمام"},
	{[]string{"مكة", "makkah", "mecca"}, "destination", "مكة"},
	{[]string{"credit card", "بطاقة"}, "payment_method", "CC"},
	{[]string{"cash on delivery", "الدفع عند الاستلام"}, "payment_method", "COD"},
	{[]string{"delivered", "تم التوصيل"}, "status", "Delivered"},
	{[]string{"returned", "مرتجع"}, "status", "Returned"},
	{[]string{"in transit", "في الطريق"}, "status", "In Transit"},
}

// InterpretFilterUpdate scans the question against a small fixed
// vocabulary and returns every implied dimension update.
func InterpretFilterUpdate(question string) map[string][]string {
	q := strings.ToLower(question)
	updates := make(map[string][]string)
	for _, entry := range filterVocabulary {
		for _, tok := range entry.tokens {
			if strings.Contains(q, tok) {
				updates[entry.dimension] = appendUnique(updates[entry.dimension], entry.value)
				break
			}
		}
	}
	return updates
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
