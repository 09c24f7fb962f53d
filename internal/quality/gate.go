package quality

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
)

// Rule checks one row and returns a non-nil error when the row must be
// rejected. The error text becomes the rejection reason.
type Rule[T model.Row] func(T) error

// Rejection is one excluded row together with why it was excluded. Soft
// rejections (superseded duplicates) are audit records, not data errors.
type Rejection[T model.Row] struct {
	Row    T
	Reason string
	Soft   bool
}

// Report is the outcome of validating one extraction batch.
type Report[T model.Row] struct {
	Total    int
	Accepted []T
	Rejected []Rejection[T]
}

// PassRatio returns the fraction of rows that passed, 0 for an empty batch.
func (r Report[T]) PassRatio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(len(r.Accepted)) / float64(r.Total)
}

// Meets reports whether the batch clears the minimum pass-ratio policy.
// Zero accepted rows never clears it, whatever the ratio says.
func (r Report[T]) Meets(minRatio float64) bool {
	return len(r.Accepted) > 0 && r.PassRatio() >= minRatio
}

// Gate validates extraction batches against a fixed rule set.
type Gate[T model.Row] struct {
	rules  []Rule[T]
	logger *slog.Logger
}

// NewGate creates a gate from a rule set.
func NewGate[T model.Row](rules []Rule[T], logger *slog.Logger) *Gate[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate[T]{rules: rules, logger: logger}
}

type batchKey struct {
	key string
	day time.Time
}

// Validate checks every row of the batch. Duplicate (key, date) rows collapse
// to the last occurrence; earlier ones are reported as soft rejections.
func (g *Gate[T]) Validate(batch []T) Report[T] {
	report := Report[T]{Total: len(batch)}

	// Last occurrence of each (key, date) wins.
	last := make(map[batchKey]int, len(batch))
	for i, row := range batch {
		last[batchKey{key: row.Key(), day: row.Day()}] = i
	}

	for i, row := range batch {
		if last[batchKey{key: row.Key(), day: row.Day()}] != i {
			report.Rejected = append(report.Rejected, Rejection[T]{
				Row:    row,
				Reason: fmt.Sprintf("duplicate (%s, %s): superseded by a later row", row.Key(), row.Day().Format("2006-01-02")),
				Soft:   true,
			})
			continue
		}

		if reason := g.check(row); reason != "" {
			report.Rejected = append(report.Rejected, Rejection[T]{Row: row, Reason: reason})
			continue
		}

		report.Accepted = append(report.Accepted, row)
	}

	for _, rej := range report.Rejected {
		level := slog.LevelWarn
		if rej.Soft {
			level = slog.LevelDebug
		}
		g.logger.Log(context.Background(), level, "row rejected",
			"key", rej.Row.Key(),
			"date", rej.Row.Day().Format("2006-01-02"),
			"reason", rej.Reason,
		)
	}

	return report
}

// check runs the rules in order and returns the first failure reason.
func (g *Gate[T]) check(row T) string {
	for _, rule := range g.rules {
		if err := rule(row); err != nil {
			return err.Error()
		}
	}
	return ""
}
