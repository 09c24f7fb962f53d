package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/leonberkemeier/financial-data-pipeline/internal/pipeline"
)

type stubPipeline struct {
	name string
	fail bool
	runs *atomic.Int32
	rows int
}

func (s *stubPipeline) Name() string { return s.name }

func (s *stubPipeline) Run(ctx context.Context) pipeline.Result {
	if s.runs != nil {
		s.runs.Add(1)
	}
	res := pipeline.Result{Pipeline: s.name, Status: pipeline.StatusSucceeded, Loaded: s.rows}
	if s.fail {
		res.Status = pipeline.StatusFailed
		res.Err = "provider rejected request"
	}
	return res
}

func TestRunAllPartialFailureIsolation(t *testing.T) {
	ok := &stubPipeline{name: "bonds", rows: 5}
	broken := &stubPipeline{name: "stocks", fail: true}
	alsoOK := &stubPipeline{name: "crypto", rows: 3}

	orch := New(Options{}, nil)
	report := orch.RunAll(context.Background(), []pipeline.Pipeline{ok, broken, alsoOK})

	if report.Status != StatusPartial {
		t.Fatalf("status = %v, want partial", report.Status)
	}
	if len(report.Results) != 3 {
		t.Fatalf("results = %d, want 3 (failure must not block siblings)", len(report.Results))
	}
	if report.Succeeded() {
		t.Error("Succeeded() should be false for a partial run")
	}

	loaded := 0
	for _, res := range report.Results {
		loaded += res.Loaded
	}
	if loaded != 8 {
		t.Errorf("loaded = %d, want 8 from the two healthy pipelines", loaded)
	}
}

func TestRunAllAllSucceeded(t *testing.T) {
	orch := New(Options{}, nil)
	report := orch.RunAll(context.Background(), []pipeline.Pipeline{
		&stubPipeline{name: "bonds"},
		&stubPipeline{name: "crypto"},
	})

	if report.Status != StatusAllSucceeded {
		t.Errorf("status = %v, want all_succeeded", report.Status)
	}
	if !report.Succeeded() {
		t.Error("Succeeded() should be true")
	}
	if report.RunID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("run id should be assigned")
	}
}

func TestRunAllAllFailed(t *testing.T) {
	orch := New(Options{}, nil)
	report := orch.RunAll(context.Background(), []pipeline.Pipeline{
		&stubPipeline{name: "bonds", fail: true},
		&stubPipeline{name: "crypto", fail: true},
	})

	if report.Status != StatusAllFailed {
		t.Errorf("status = %v, want all_failed", report.Status)
	}
}

func TestRunAllStopOnFirstError(t *testing.T) {
	var laterRuns atomic.Int32

	orch := New(Options{StopOnFirstError: true}, nil)
	report := orch.RunAll(context.Background(), []pipeline.Pipeline{
		&stubPipeline{name: "stocks", fail: true},
		&stubPipeline{name: "crypto", runs: &laterRuns},
	})

	if got := laterRuns.Load(); got != 0 {
		t.Errorf("later pipeline ran %d times, want 0 after abort", got)
	}
	if len(report.Results) != 1 {
		t.Errorf("results = %d, want 1", len(report.Results))
	}
	if report.Status != StatusAllFailed {
		t.Errorf("status = %v, want all_failed", report.Status)
	}
}

func TestRunAllConcurrent(t *testing.T) {
	var runs atomic.Int32
	pipelines := []pipeline.Pipeline{
		&stubPipeline{name: "bonds", runs: &runs},
		&stubPipeline{name: "crypto", runs: &runs},
		&stubPipeline{name: "economic", runs: &runs},
		&stubPipeline{name: "commodities", runs: &runs},
	}

	orch := New(Options{Concurrency: 3}, nil)
	report := orch.RunAll(context.Background(), pipelines)

	if got := runs.Load(); got != 4 {
		t.Errorf("runs = %d, want 4", got)
	}
	if report.Status != StatusAllSucceeded {
		t.Errorf("status = %v, want all_succeeded", report.Status)
	}
	if len(report.Results) != 4 {
		t.Errorf("results = %d, want 4", len(report.Results))
	}
}

func TestRunAllConcurrentPartial(t *testing.T) {
	orch := New(Options{Concurrency: 2}, nil)
	report := orch.RunAll(context.Background(), []pipeline.Pipeline{
		&stubPipeline{name: "bonds"},
		&stubPipeline{name: "stocks", fail: true},
		&stubPipeline{name: "crypto"},
	})

	if report.Status != StatusPartial {
		t.Errorf("status = %v, want partial", report.Status)
	}
	if len(report.Results) != 3 {
		t.Errorf("results = %d, want 3", len(report.Results))
	}
}
