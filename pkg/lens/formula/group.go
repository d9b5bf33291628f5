package formula

import (
	"sort"

	"github.com/cognicore/lens/pkg/lens/schema"
)

// Entry is one aggregated group.
type Entry struct {
	Label string
	Value float64
	Share float64
	Count int
}

// GroupByDimension groups rows by the dimension key's stringified value,
// aggregates the column within each group and returns entries sorted
// descending by value. Share is value/total, or 0 for every entry when the
// total is 0. Rows whose aggregation cell is missing or non-numeric are
// excluded from the reduction, never coerced to 0.
func GroupByDimension(rows []schema.Row, column, dimension string, agg Aggregator) ([]Entry, error) {
	entries, err := group(rows, column, dimension, agg)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Label < entries[j].Label
	})
	return entries, nil
}

// GroupByTime groups rows by the time key's label and returns entries
// sorted ascending by the label's lexicographic order. Callers must supply
// comparably formatted timestamps (ISO-style) for the ordering to be
// chronological.
func GroupByTime(rows []schema.Row, column, timeKey string, agg Aggregator) ([]Entry, error) {
	entries, err := group(rows, column, timeKey, agg)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Label < entries[j].Label
	})
	return entries, nil
}

func group(rows []schema.Row, column, key string, agg Aggregator) ([]Entry, error) {
	groups := make(map[string][]float64)
	var order []string
	for _, row := range rows {
		label := row.Get(key).Display()
		if label == "" {
			continue
		}
		val, ok := row.Get(column).AsNumber()
		if !ok {
			continue
		}
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], val)
	}

	entries := make([]Entry, 0, len(order))
	var total float64
	for _, label := range order {
		vals := groups[label]
		agged, err := Aggregate(vals, agg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Label: label, Value: agged, Count: len(vals)})
		total += agged
	}

	if total != 0 {
		for i := range entries {
			entries[i].Share = entries[i].Value / total
		}
	}
	return entries, nil
}
