package schema

import (
	"time"

	"github.com/cognicore/lens/pkg/lens/config"
)

// DType is the inferred column type.
type DType string

const (
	DTypeString   DType = "string"
	DTypeNumber   DType = "number"
	DTypeDatetime DType = "datetime"
	DTypeBoolean  DType = "boolean"
)

// Date layouts tried during inference, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2006-01",
}

// InferDType votes over a column's non-null values. The thresholds are
// heuristic constants taken from configuration: a column is numeric when at
// least NumericThreshold of its values parse as numbers, datetime at
// DateThreshold, boolean at BoolThreshold, and a string otherwise.
func InferDType(values []Value, inf config.Inference) DType {
	var total, numeric, date, boolean int
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		total++
		if _, ok := v.AsNumber(); ok {
			numeric++
		}
		if v.kind == KindString && isDateLike(v.str) {
			date++
		}
		if _, ok := v.AsBool(); ok {
			boolean++
		}
	}
	if total == 0 {
		return DTypeString
	}

	n := float64(total)
	switch {
	case float64(numeric)/n >= inf.NumericThreshold:
		return DTypeNumber
	case float64(date)/n >= inf.DateThreshold:
		return DTypeDatetime
	case float64(boolean)/n >= inf.BoolThreshold:
		return DTypeBoolean
	default:
		return DTypeString
	}
}

func isDateLike(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
