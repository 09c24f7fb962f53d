package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leonberkemeier/financial-data-pipeline/internal/pipeline"
)

// RunStatus summarizes a whole run across all pipelines.
type RunStatus string

const (
	StatusAllSucceeded RunStatus = "all_succeeded"
	StatusPartial      RunStatus = "partial"
	StatusAllFailed    RunStatus = "all_failed"
)

// Options control how a run executes.
type Options struct {
	// StopOnFirstError aborts the run after the first failed pipeline.
	// The default is to run every pipeline and report a partial outcome.
	StopOnFirstError bool

	// Concurrency is the number of pipelines run in parallel. Zero or one
	// runs them sequentially in the order given.
	Concurrency int
}

// Report is the record of one orchestrated run.
type Report struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Elapsed   time.Duration
	Status    RunStatus
	Results   []pipeline.Result
}

// Succeeded reports whether every pipeline in the run succeeded.
func (r Report) Succeeded() bool { return r.Status == StatusAllSucceeded }

// Orchestrator runs a set of source pipelines as one unit.
type Orchestrator struct {
	opts   Options
	logger *slog.Logger
}

// New creates an orchestrator.
func New(opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{opts: opts, logger: logger}
}

// RunAll executes the given pipelines and returns the aggregated report.
// A pipeline failure is captured in its Result and never aborts siblings
// unless StopOnFirstError is set.
func (o *Orchestrator) RunAll(ctx context.Context, pipelines []pipeline.Pipeline) Report {
	report := Report{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}

	o.logger.Info("run started",
		"run_id", report.RunID.String(),
		"pipelines", len(pipelines),
	)

	if o.opts.Concurrency > 1 {
		report.Results = o.runConcurrent(ctx, pipelines)
	} else {
		report.Results = o.runSequential(ctx, pipelines)
	}

	report.Elapsed = time.Since(report.StartedAt)
	report.Status = statusOf(report.Results, len(pipelines))
	return report
}

func (o *Orchestrator) runSequential(ctx context.Context, pipelines []pipeline.Pipeline) []pipeline.Result {
	results := make([]pipeline.Result, 0, len(pipelines))
	for _, p := range pipelines {
		res := o.runOne(ctx, p)
		results = append(results, res)
		if res.Status == pipeline.StatusFailed && o.opts.StopOnFirstError {
			o.logger.Warn("run aborted on first failure", "pipeline", p.Name())
			break
		}
	}
	return results
}

func (o *Orchestrator) runConcurrent(ctx context.Context, pipelines []pipeline.Pipeline) []pipeline.Result {
	results := make([]pipeline.Result, len(pipelines))

	var mu sync.Mutex
	var failed bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Concurrency)

	for i, p := range pipelines {
		i, p := i, p
		g.Go(func() error {
			mu.Lock()
			skip := failed && o.opts.StopOnFirstError
			mu.Unlock()
			if skip {
				return nil
			}

			res := o.runOne(gctx, p)

			mu.Lock()
			results[i] = res
			if res.Status == pipeline.StatusFailed {
				failed = true
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	// Drop slots for pipelines that never ran.
	out := results[:0]
	for _, res := range results {
		if res.Pipeline != "" {
			out = append(out, res)
		}
	}
	return out
}

func (o *Orchestrator) runOne(ctx context.Context, p pipeline.Pipeline) pipeline.Result {
	o.logger.Info("pipeline started", "pipeline", p.Name())
	res := p.Run(ctx)

	if res.Status == pipeline.StatusFailed {
		o.logger.Error("pipeline failed",
			"pipeline", res.Pipeline,
			"elapsed", res.Elapsed.String(),
			"error", res.Err,
		)
		return res
	}

	o.logger.Info("pipeline succeeded",
		"pipeline", res.Pipeline,
		"extracted", res.Extracted,
		"accepted", res.Accepted,
		"rejected", res.Rejected,
		"loaded", res.Loaded,
		"inserted", res.Inserted,
		"updated", res.Updated,
		"elapsed", res.Elapsed.String(),
	)
	return res
}

func statusOf(results []pipeline.Result, planned int) RunStatus {
	succeeded := 0
	for _, res := range results {
		if res.Status == pipeline.StatusSucceeded {
			succeeded++
		}
	}
	switch {
	case succeeded == planned:
		return StatusAllSucceeded
	case succeeded == 0:
		return StatusAllFailed
	default:
		return StatusPartial
	}
}
