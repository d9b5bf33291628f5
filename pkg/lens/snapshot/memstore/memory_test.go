package memstore

import (
	"context"
	"testing"

	"github.com/cognicore/lens/pkg/lens/snapshot"
)

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	if err := s.Put(ctx, "run-1", snapshot.ResourceDataset, []byte(`[{"a":1}]`)); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Get(ctx, "run-1", snapshot.ResourceDataset)
	if err != nil || !ok {
		t.Fatalf("Get: %v ok=%v", err, ok)
	}
	if string(got) != `[{"a":1}]` {
		t.Errorf("payload = %s", got)
	}

	// Different run or resource misses.
	if _, ok, _ := s.Get(ctx, "run-2", snapshot.ResourceDataset); ok {
		t.Error("unexpected hit for run-2")
	}
	if _, ok, _ := s.Get(ctx, "run-1", snapshot.ResourceMetrics); ok {
		t.Error("unexpected hit for metrics")
	}
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	s.Put(ctx, "run-1", snapshot.ResourceMetrics, []byte("old"))
	s.Put(ctx, "run-1", snapshot.ResourceMetrics, []byte("new"))

	got, _, _ := s.Get(ctx, "run-1", snapshot.ResourceMetrics)
	if string(got) != "new" {
		t.Errorf("payload = %s, want new", got)
	}
}
