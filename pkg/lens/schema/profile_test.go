package schema

import (
	"fmt"
	"testing"

	"github.com/cognicore/lens/pkg/lens/canonical"
	"github.com/cognicore/lens/pkg/lens/config"
)

func testLimits() config.Limits {
	return config.Default().Limits
}

func testInference() config.Inference {
	return config.Default().Inference
}

func TestInferDTypeMajorityVote(t *testing.T) {
	inf := testInference()

	numbers := []Value{Number(1), Number(2), String("3.5"), String("n/a"), Null()}
	if got := InferDType(numbers, inf); got != DTypeNumber {
		t.Errorf("numeric column = %v", got)
	}

	dates := []Value{String("2024-01-02"), String("2024-02-03"), String("later"), String("tbd"), String("none")}
	if got := InferDType(dates, inf); got != DTypeDatetime {
		t.Errorf("date column = %v", got)
	}

	bools := []Value{Bool(true), String("yes"), String("no"), String("maybe")}
	if got := InferDType(bools, inf); got != DTypeBoolean {
		t.Errorf("bool column = %v", got)
	}

	strs := []Value{String("a"), String("b"), String("c")}
	if got := InferDType(strs, inf); got != DTypeString {
		t.Errorf("string column = %v", got)
	}

	if got := InferDType(nil, inf); got != DTypeString {
		t.Errorf("empty column = %v, want string", got)
	}
}

func TestProfileDescriptors(t *testing.T) {
	rows := []Row{
		{"destination": String("جدة"), "revenue": Number(100), "delivered": Bool(true)},
		{"destination": String("الرياض"), "revenue": Number(300), "delivered": Bool(false)},
		{"destination": String("جدة"), "revenue": String("n/a"), "delivered": Bool(true)},
		{"destination": String("الدمام"), "revenue": Number(200), "delivered": Bool(true)},
	}
	labels := map[string]canonical.LabelParts{
		"destination": canonical.DecodeLabel("{'en': 'Destination', 'ar': 'الوجهة'}", "destination"),
	}

	descriptors := Profile(rows, labels, testInference(), testLimits())
	if len(descriptors) != 3 {
		t.Fatalf("descriptor count = %d", len(descriptors))
	}

	byKey := make(map[string]ColumnDescriptor)
	for _, d := range descriptors {
		byKey[d.Key] = d
	}

	dest := byKey["destination"]
	if dest.DType != DTypeString {
		t.Errorf("destination dtype = %v", dest.DType)
	}
	if dest.UniqueCount != 3 {
		t.Errorf("destination unique = %d", dest.UniqueCount)
	}
	found := false
	for _, a := range dest.Aliases {
		if a == "الوجهة" {
			found = true
		}
	}
	if !found {
		t.Errorf("destination aliases missing Arabic label: %v", dest.Aliases)
	}

	rev := byKey["revenue"]
	if rev.DType != DTypeNumber {
		t.Errorf("revenue dtype = %v", rev.DType)
	}
	if rev.Stats == nil {
		t.Fatal("revenue stats missing")
	}
	if rev.Stats.Min != 100 || rev.Stats.Max != 300 || rev.Stats.Mean != 200 {
		t.Errorf("revenue stats = %+v", *rev.Stats)
	}

	if byKey["delivered"].DType != DTypeBoolean {
		t.Errorf("delivered dtype = %v", byKey["delivered"].DType)
	}
}

func TestProfileSampleBounds(t *testing.T) {
	lim := testLimits()
	lim.SampleRows = 10
	lim.MaxSamples = 3

	var rows []Row
	for i := 0; i < 50; i++ {
		rows = append(rows, Row{"sku": String(fmt.Sprintf("sku-%d", i))})
	}
	descriptors := Profile(rows, nil, testInference(), lim)
	if len(descriptors) != 1 {
		t.Fatalf("descriptor count = %d", len(descriptors))
	}
	d := descriptors[0]
	if len(d.Samples) != 3 {
		t.Errorf("samples = %d, want capped at 3", len(d.Samples))
	}
	if d.UniqueCount != 10 {
		t.Errorf("unique count = %d, want 10 (sample rows bound)", d.UniqueCount)
	}
}

func TestProfileStatelessAcrossCalls(t *testing.T) {
	rows := []Row{{"a": Number(1)}, {"a": Number(2)}}
	first := Profile(rows, nil, testInference(), testLimits())
	second := Profile(rows, nil, testInference(), testLimits())
	if len(first) != len(second) || first[0].UniqueCount != second[0].UniqueCount {
		t.Errorf("profiles differ across calls: %+v vs %+v", first, second)
	}
}
