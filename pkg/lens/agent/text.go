package agent

import (
	"strings"
	"unicode"
)

// Cue vocabularies, English and Arabic. Classification is heuristic
// keyword matching over the normalized utterance; no NLP.
var (
	listCues = []string{
		"show fields", "list fields", "fields", "list columns", "columns",
		"what columns", "الأعمدة", "الاعمدة", "الحقول", "اعرض الحقول",
	}
	explainCues = []string{
		"explain", "describe", "tell me about", "what is",
		"اشرح", "وضح", "ما هو", "ما هي",
	}
	clearCues = []string{
		"clear filter", "clear filters", "clear the filter", "reset filter",
		"reset filters", "remove filter", "remove filters", "clear all",
		"امسح الفلتر", "امسح الفلاتر", "الغ الفلتر", "الغاء الفلتر",
		"ازل الفلتر", "اعادة تعيين",
	}
	filterCues = []string{
		"filter", "show only", "only show", "limit to", "just",
		"فلتر", "الفلتر", "صفي", "فقط", "اعرض فقط",
	}
	chartCues = []string{
		"chart", "plot", "graph", "visualize", "visualise", "draw",
		"رسم", "ارسم", "مخطط", "بياني", "رسم بياني",
	}
	trendCues = []string{
		"trend", "over time", "timeline", "monthly", "daily",
		"اتجاه", "عبر الزمن", "زمني", "شهري", "يومي",
	}
)

// Chart-type cue buckets, checked in order.
var chartTypeCues = []struct {
	chartType string
	cues      []string
}{
	{"pie", []string{"pie", "donut", "doughnut", "دائري", "نسبة", "حصة"}},
	{"funnel", []string{"funnel", "conversion", "قمع", "تحويل"}},
	{"treemap", []string{"treemap", "tree map", "خريطة شجرية"}},
	{"combo", []string{"combo", "combined", "مزدوج", "مركب"}},
	{"area", []string{"area", "stacked", "مساحي", "متراكم"}},
}

// Metric keyword priority list: the first bucket whose keyword appears in
// the utterance selects the first metric mentioning that keyword.
var metricCues = [][]string{
	{"revenue", "sales", "income", "إيراد", "الإيراد", "مبيعات"},
	{"cod", "cash on delivery", "الدفع عند الاستلام"},
	{"delivery", "shipping", "توصيل", "التوصيل", "شحن"},
	{"orders", "count", "طلبات", "عدد"},
}

// normalize lowercases, converts every non-letter non-digit rune to a
// space and collapses runs. Arabic letters survive unchanged, so the same
// pass serves both languages.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// hasCue reports whether any cue occurs in the normalized utterance as a
// word-bounded phrase.
func hasCue(normalized string, cues []string) bool {
	padded := " " + normalized + " "
	for _, cue := range cues {
		nc := normalize(cue)
		if nc == "" {
			continue
		}
		if strings.Contains(padded, " "+nc+" ") {
			return true
		}
	}
	return false
}

// pick returns the language-appropriate variant.
func (a *Agent) pick(en, ar string) string {
	if a.lang == "ar" {
		return ar
	}
	return en
}
