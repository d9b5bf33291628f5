package formula

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/lens/pkg/lens/internalerr"
)

// Aggregator is a reduction over a numeric column.
type Aggregator string

const (
	Sum Aggregator = "SUM"
	Avg Aggregator = "AVG"
	Max Aggregator = "MAX"
	Min Aggregator = "MIN"
)

var formulaRe = regexp.MustCompile(`^\s*([A-Za-z]+)\s*\(\s*([^()]+?)\s*\)\s*$`)

// Parse recognizes the AGG(column) metric formula. Input that does not
// match the grammar is treated as a bare column name aggregated with SUM.
func Parse(formula string) (Aggregator, string) {
	if m := formulaRe.FindStringSubmatch(formula); m != nil {
		if agg, ok := parseAggregator(m[1]); ok {
			return agg, m[2]
		}
	}
	return Sum, strings.TrimSpace(formula)
}

func parseAggregator(name string) (Aggregator, bool) {
	switch Aggregator(strings.ToUpper(name)) {
	case Sum:
		return Sum, true
	case Avg:
		return Avg, true
	case Max:
		return Max, true
	case Min:
		return Min, true
	}
	return "", false
}

// Aggregate reduces values with the given aggregator. SUM and AVG of no
// values are 0; MAX and MIN of no values are an error, never a silent
// infinity.
func Aggregate(values []float64, agg Aggregator) (float64, error) {
	switch agg {
	case Sum, "":
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum, nil
	case Avg:
		if len(values) == 0 {
			return 0, nil
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), nil
	case Max:
		if len(values) == 0 {
			return 0, fmt.Errorf("max: %w", internalerr.ErrEmptyInput)
		}
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, nil
	case Min:
		if len(values) == 0 {
			return 0, fmt.Errorf("min: %w", internalerr.ErrEmptyInput)
		}
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min, nil
	default:
		return 0, fmt.Errorf("aggregator %q: %w", agg, internalerr.ErrInvalidInput)
	}
}
