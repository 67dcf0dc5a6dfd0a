package prom

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/colgrid/pkg/grid"
)

func TestScenarioMetrics(t *testing.T) {
	ctx := context.Background()
	m := New("colgrid")

	m.OnScenarioStart(ctx, "basic", 3)
	m.OnFlush(ctx, "basic", grid.Stats{Passes: 2, Distributions: 1, Resizes: 1})
	m.OnScenarioComplete(ctx, "basic", 1, time.Millisecond, nil)
	m.OnScenarioComplete(ctx, "broken", 0, time.Millisecond, errors.New("bad"))

	if got := testutil.ToFloat64(m.columns); got != 3 {
		t.Errorf("columns = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.passes.WithLabelValues("basic")); got != 2 {
		t.Errorf("passes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.counters.WithLabelValues("basic", "resize")); got != 1 {
		t.Errorf("resize counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.scenarios.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.scenarios.WithLabelValues("error")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
}

func TestCacheMetrics(t *testing.T) {
	ctx := context.Background()
	m := New("colgrid")

	m.OnCacheMiss(ctx, "result")
	m.OnCacheSet(ctx, "result", 512)
	m.OnCacheHit(ctx, "result")
	m.OnCacheHit(ctx, "result")

	if got := testutil.ToFloat64(m.cache.WithLabelValues("result", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheSize); got != 512 {
		t.Errorf("written bytes = %v, want 512", got)
	}
}

func TestWriteFile(t *testing.T) {
	m := New("colgrid")
	m.OnScenarioStart(context.Background(), "basic", 4)

	path := filepath.Join(t.TempDir(), "colgrid.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "colgrid_scenario_columns 4") {
		t.Errorf("textfile missing columns gauge:\n%s", data)
	}
}
