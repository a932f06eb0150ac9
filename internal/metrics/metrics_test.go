package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRun(t *testing.T) {
	m := New()
	m.ObserveRun(3*time.Second, nil)
	m.ObserveRun(time.Second, errors.New("merge failed"))
	m.ObserveRun(2*time.Second, nil)

	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues(ResultSuccess)); got != 2 {
		t.Errorf("success runs = %g, want 2", got)
	}
	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues(ResultFailure)); got != 1 {
		t.Errorf("failed runs = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.lastRun); got != 2 {
		t.Errorf("last run = %g, want 2", got)
	}
	if testutil.ToFloat64(m.lastSuccess) <= 0 {
		t.Error("last success timestamp not set")
	}
}

func TestObserveStage(t *testing.T) {
	m := New()
	m.ObserveStage("merge", 10*time.Second, nil)
	m.ObserveStage("watermark", 4*time.Second, errors.New("boom"))

	if got := testutil.ToFloat64(m.stageFailures.WithLabelValues("watermark")); got != 1 {
		t.Errorf("watermark failures = %g, want 1", got)
	}
	if got := testutil.CollectAndCount(m.stageDuration); got != 2 {
		t.Errorf("stage duration series = %d, want 2", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRun(time.Second, nil)

	path := filepath.Join(t.TempDir(), "textfile", "vidmaker.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `vidmaker_runs_total{result="success"} 1`) {
		t.Errorf("textfile content:\n%s", b)
	}
}
