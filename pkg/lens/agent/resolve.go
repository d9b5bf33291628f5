package agent

import (
	"regexp"
	"strings"

	"github.com/cognicore/lens/pkg/lens/schema"
)

var numberLiteralRe = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// resolveColumn finds the column an utterance refers to. The utterance and
// every alias go through the same normalization; a match is substring
// containment, and ties break toward the longest alias so the most
// specific label wins.
func resolveColumn(normalized string, columns []schema.ColumnDescriptor) *schema.ColumnDescriptor {
	stripped := strings.ReplaceAll(normalized, " ", "")

	var best *schema.ColumnDescriptor
	bestLen := 0
	for i := range columns {
		col := &columns[i]
		for _, alias := range col.Aliases {
			na := normalize(alias)
			if na == "" || len(na) < 2 {
				continue
			}
			matched := strings.Contains(normalized, na)
			if !matched {
				// Whitespace-stripped variant catches snake_case keys the
				// user typed without separators.
				ns := strings.ReplaceAll(na, " ", "")
				matched = len(ns) >= 3 && strings.Contains(stripped, ns)
			}
			if matched && len(na) > bestLen {
				best = col
				bestLen = len(na)
			}
		}
	}
	return best
}

// extractFilterValues pulls candidate filter values for a resolved column
// out of the utterance: sample-value containment for every column, alias
// raw forms mapped to their canonical value, and numeric literals for
// numeric columns.
func (a *Agent) extractFilterValues(question, normalized string, col *schema.ColumnDescriptor) []string {
	var values []string
	seen := make(map[string]struct{})
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	for _, sample := range col.Samples {
		ns := normalize(sample)
		if ns == "" {
			continue
		}
		if strings.Contains(" "+normalized+" ", " "+ns+" ") {
			add(sample)
		}
	}

	// Raw alias spellings resolve to their canonical value even when the
	// canonical form itself is absent from the utterance.
	if table, ok := a.cfg.Aliases.Dimensions[col.Key]; ok {
		for raw, canon := range table {
			nr := normalize(raw)
			if nr != "" && strings.Contains(" "+normalized+" ", " "+nr+" ") {
				add(canon)
			}
		}
	}

	if len(values) == 0 && col.DType == schema.DTypeNumber {
		for _, lit := range numberLiteralRe.FindAllString(question, -1) {
			add(lit)
		}
	}

	return values
}
