package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/lens/pkg/lens/snapshot"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.Put(ctx, "run-9", snapshot.ResourceInsights, []byte(`{"insights":[]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(ctx, "run-9", snapshot.ResourceInsights)
	if err != nil || !ok {
		t.Fatalf("Get: %v ok=%v", err, ok)
	}
	if string(got) != `{"insights":[]}` {
		t.Errorf("payload = %s", got)
	}

	if _, ok, _ := store.Get(ctx, "run-9", snapshot.ResourceDataset); ok {
		t.Error("unexpected hit for dataset")
	}
}

func TestSQLiteUpsert(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	store.Put(ctx, "r", snapshot.ResourceDataset, []byte("v1"))
	store.Put(ctx, "r", snapshot.ResourceDataset, []byte("v2"))

	got, _, _ := store.Get(ctx, "r", snapshot.ResourceDataset)
	if string(got) != "v2" {
		t.Errorf("payload = %s, want v2", got)
	}
}
