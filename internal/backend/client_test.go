package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cognicore/lens/pkg/lens/internalerr"
)

func newTestServer(routes map[string]string) *httptest.Server {
	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}
	return httptest.NewServer(mux)
}

func TestDatasetBareArray(t *testing.T) {
	srv := newTestServer(map[string]string{
		"/runs/r1/dataset": `[{"destination": "جدة", "revenue": 100}]`,
	})
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	rows, err := c.Dataset(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if len(rows) != 1 || rows[0].Get("destination").Display() != "جدة" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestDatasetWrappedRows(t *testing.T) {
	srv := newTestServer(map[string]string{
		"/runs/r1/dataset": `{"rows": [{"a": 1}, {"a": 2}], "row_count": 2}`,
	})
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	rows, err := c.Dataset(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("row count = %d", len(rows))
	}
}

func TestDatasetBadShape(t *testing.T) {
	srv := newTestServer(map[string]string{
		"/runs/r1/dataset": `{"unexpected": true}`,
	})
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	if _, err := c.Dataset(context.Background(), "r1"); !errors.Is(err, internalerr.ErrInvalidShape) {
		t.Errorf("err = %v, want ErrInvalidShape", err)
	}
}

func TestMetricsWrapped(t *testing.T) {
	srv := newTestServer(map[string]string{
		"/runs/r1/metrics": `{"metrics": [{"id": "m1", "title": "Revenue", "formula": "SUM(revenue)"}], "generated_at": "2024-01-01"}`,
	})
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	metrics, err := c.Metrics(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if len(metrics) != 1 || metrics[0].ID != "m1" {
		t.Errorf("metrics = %+v", metrics)
	}
}

func TestDimensionsRequiresKnownKeys(t *testing.T) {
	srv := newTestServer(map[string]string{
		"/runs/r1/dimensions": `{"categorical": [{"name": "destination"}], "row_count": 9}`,
		"/runs/r2/dimensions": `{"something": []}`,
	})
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	catalog, err := c.Dimensions(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if len(catalog.Categorical) != 1 || catalog.RowCount != 9 {
		t.Errorf("catalog = %+v", catalog)
	}

	if _, err := c.Dimensions(context.Background(), "r2"); !errors.Is(err, internalerr.ErrInvalidShape) {
		t.Errorf("err = %v, want ErrInvalidShape", err)
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	if _, err := c.Insights(context.Background(), "r1"); err == nil {
		t.Error("want error on 500 status")
	}
}
