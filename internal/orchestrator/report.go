package orchestrator

import (
	"log/slog"

	"github.com/leonberkemeier/financial-data-pipeline/internal/pipeline"
)

// Log writes the run summary and one line per pipeline result.
func (r Report) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("run finished",
		"run_id", r.RunID.String(),
		"status", string(r.Status),
		"pipelines", len(r.Results),
		"succeeded", r.countStatus(pipeline.StatusSucceeded),
		"failed", r.countStatus(pipeline.StatusFailed),
		"elapsed", r.Elapsed.String(),
	)

	for _, res := range r.Results {
		if res.Status == pipeline.StatusFailed {
			logger.Error("pipeline result",
				"run_id", r.RunID.String(),
				"pipeline", res.Pipeline,
				"status", string(res.Status),
				"error", res.Err,
			)
			continue
		}
		logger.Info("pipeline result",
			"run_id", r.RunID.String(),
			"pipeline", res.Pipeline,
			"status", string(res.Status),
			"extracted", res.Extracted,
			"accepted", res.Accepted,
			"rejected", res.Rejected,
			"inserted", res.Inserted,
			"updated", res.Updated,
		)
	}
}

func (r Report) countStatus(s pipeline.Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}
