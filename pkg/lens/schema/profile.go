package schema

import (
	"sort"
	"strings"

	"github.com/cognicore/lens/pkg/lens/canonical"
	"github.com/cognicore/lens/pkg/lens/config"
)

// NumericStats summarizes a numeric column.
type NumericStats struct {
	Min  float64
	Max  float64
	Mean float64
}

// ColumnDescriptor is the derived, per-call view of one discovered column.
// It is never persisted: Profile recomputes descriptors from a bounded
// sample on every agent call.
type ColumnDescriptor struct {
	Key         string
	Label       canonical.LabelParts
	DType       DType
	Samples     []string
	UniqueCount int
	Stats       *NumericStats
	Aliases     []string
}

// DisplayName returns the label shown in replies, falling back to the key.
func (d ColumnDescriptor) DisplayName() string {
	if d.Label.Combined != "" {
		return d.Label.Combined
	}
	return d.Key
}

// Profile discovers columns from the first Limits.SampleRows rows and
// derives a descriptor per column: inferred dtype, up to Limits.MaxSamples
// distinct sample values, unique count, numeric summary and the alias set
// used for utterance matching. Columns keep first-seen order.
func Profile(rows []Row, labels map[string]canonical.LabelParts, inf config.Inference, lim config.Limits) []ColumnDescriptor {
	sample := rows
	if len(sample) > lim.SampleRows {
		sample = sample[:lim.SampleRows]
	}

	// First-seen row order, alphabetical within a row: map iteration over a
	// row's keys is not deterministic on its own.
	var order []string
	columns := make(map[string][]Value)
	for _, row := range sample {
		var fresh []string
		for key := range row {
			if _, seen := columns[key]; !seen {
				columns[key] = nil
				fresh = append(fresh, key)
			}
		}
		sort.Strings(fresh)
		order = append(order, fresh...)
	}
	for _, row := range sample {
		for _, key := range order {
			if val, ok := row[key]; ok {
				columns[key] = append(columns[key], val)
			}
		}
	}

	descriptors := make([]ColumnDescriptor, 0, len(order))
	for _, key := range order {
		values := columns[key]
		d := ColumnDescriptor{
			Key:   key,
			Label: labels[key],
			DType: InferDType(values, inf),
		}
		if d.Label.Primary == "" {
			d.Label = canonical.DecodeLabel("", key)
		}

		seen := make(map[string]struct{})
		var sum float64
		var count int
		stats := &NumericStats{}
		for _, v := range values {
			if v.IsNull() {
				continue
			}
			disp := v.Display()
			if _, ok := seen[disp]; !ok {
				seen[disp] = struct{}{}
				if len(d.Samples) < lim.MaxSamples {
					d.Samples = append(d.Samples, disp)
				}
			}
			if f, ok := v.AsNumber(); ok {
				if count == 0 || f < stats.Min {
					stats.Min = f
				}
				if count == 0 || f > stats.Max {
					stats.Max = f
				}
				sum += f
				count++
			}
		}
		d.UniqueCount = len(seen)
		if d.DType == DTypeNumber && count > 0 {
			stats.Mean = sum / float64(count)
			d.Stats = stats
		}
		d.Aliases = buildAliases(d)
		descriptors = append(descriptors, d)
	}
	return descriptors
}

// buildAliases collects every name the column answers to: the key, the key
// with separators as spaces, both label languages, and whitespace-stripped
// variants of each.
func buildAliases(d ColumnDescriptor) []string {
	candidates := []string{
		d.Key,
		strings.NewReplacer("_", " ", "-", " ").Replace(d.Key),
		d.Label.Primary,
		d.Label.Secondary,
	}

	seen := make(map[string]struct{})
	var aliases []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		aliases = append(aliases, s)
	}
	for _, c := range candidates {
		add(c)
		add(strings.ReplaceAll(c, " ", ""))
	}
	return aliases
}
