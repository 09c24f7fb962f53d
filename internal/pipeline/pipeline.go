package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/leonberkemeier/financial-data-pipeline/internal/quality"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
)

// Status is the outcome of one pipeline invocation.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Result is the record of one pipeline invocation: row counts per stage,
// elapsed time, and the captured failure reason if any.
type Result struct {
	Pipeline  string
	Status    Status
	Extracted int
	Accepted  int
	Rejected  int
	Loaded    int
	Inserted  int
	Updated   int
	Elapsed   time.Duration
	Err       string
}

// Pipeline is one runnable source pipeline.
type Pipeline interface {
	Name() string
	Run(ctx context.Context) Result
}

// Deps bundles the collaborators shared by every source pipeline.
type Deps struct {
	Resolver     *warehouse.Resolver
	Upserter     *warehouse.Upserter
	MinPassRatio float64
	Logger       *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

type runner interface {
	Name() string
	execute(ctx context.Context, res *Result) error
}

// run wraps a pipeline body with timing and fault capture. A panic inside
// the body becomes a failed Result, never a crash of sibling pipelines.
func run(ctx context.Context, r runner) (res Result) {
	start := time.Now()
	res.Pipeline = r.Name()

	defer func() {
		res.Elapsed = time.Since(start)
		if p := recover(); p != nil {
			res.Status = StatusFailed
			res.Err = fmt.Sprintf("panic: %v", p)
		}
	}()

	if err := r.execute(ctx, &res); err != nil {
		res.Status = StatusFailed
		res.Err = err.Error()
		return res
	}

	res.Status = StatusSucceeded
	return res
}

// gateErr names why a batch failed the acceptance policy.
func gateErr(accepted int, ratio, minRatio float64) error {
	if accepted == 0 {
		return errors.New("quality gate rejected all rows")
	}
	return fmt.Errorf("quality gate pass ratio %.2f below minimum %.2f", ratio, minRatio)
}

// loadPriceBars resolves dimensions and upserts one fact per accepted bar.
// The attrs function supplies the descriptive attributes of the subject
// dimension for its asset class.
func loadPriceBars(
	ctx context.Context,
	d Deps,
	table warehouse.FactTable,
	subjectDim warehouse.DimensionType,
	source string,
	bars []model.PriceBar,
	attrs func(model.PriceBar) warehouse.Attributes,
	res *Result,
) error {
	sourceID, err := d.Resolver.Resolve(ctx, warehouse.DimDataSource, source, warehouse.Attributes{"source_type": "API"})
	if err != nil {
		return err
	}

	for _, bar := range bars {
		if err := ctx.Err(); err != nil {
			return err
		}

		subjectID, err := d.Resolver.Resolve(ctx, subjectDim, bar.Symbol, attrs(bar))
		if err != nil {
			return err
		}

		var exchangeID int64
		if bar.Exchange != "" {
			exchangeID, err = d.Resolver.Resolve(ctx, warehouse.DimExchange, bar.Exchange, nil)
			if err != nil {
				return err
			}
		}

		dateID, err := d.Resolver.ResolveDate(ctx, bar.Date)
		if err != nil {
			return err
		}

		fact := warehouse.PriceFact{
			SubjectID:  subjectID,
			DateID:     dateID,
			SourceID:   sourceID,
			ExchangeID: exchangeID,
			Open:       bar.Open,
			High:       bar.High,
			Low:        bar.Low,
			Close:      bar.Close.Decimal,
			AdjClose:   bar.AdjClose,
			Volume:     bar.Volume,
		}

		loaded, err := d.Upserter.UpsertPrice(ctx, table, fact, bar.Date)
		if err != nil {
			return err
		}

		res.Loaded++
		if loaded == warehouse.Inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	return nil
}

// loadObservations is the observation-fact counterpart of loadPriceBars.
func loadObservations(
	ctx context.Context,
	d Deps,
	table warehouse.FactTable,
	subjectDim warehouse.DimensionType,
	source string,
	points []model.ObservationPoint,
	attrs func(model.ObservationPoint) warehouse.Attributes,
	res *Result,
) error {
	sourceID, err := d.Resolver.Resolve(ctx, warehouse.DimDataSource, source, warehouse.Attributes{"source_type": "API"})
	if err != nil {
		return err
	}

	for _, point := range points {
		if err := ctx.Err(); err != nil {
			return err
		}

		subjectID, err := d.Resolver.Resolve(ctx, subjectDim, point.SeriesID, attrs(point))
		if err != nil {
			return err
		}

		dateID, err := d.Resolver.ResolveDate(ctx, point.Date)
		if err != nil {
			return err
		}

		fact := warehouse.ObservationFact{
			SubjectID: subjectID,
			DateID:    dateID,
			SourceID:  sourceID,
			Value:     point.Value.Decimal,
		}

		loaded, err := d.Upserter.UpsertObservation(ctx, table, fact, point.Date)
		if err != nil {
			return err
		}

		res.Loaded++
		if loaded == warehouse.Inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	return nil
}

// applyGate validates a batch and applies the acceptance policy, recording
// the counts on the result.
func applyGate[T model.Row](d Deps, rules []quality.Rule[T], batch []T, res *Result) ([]T, error) {
	gate := quality.NewGate(rules, d.logger())
	report := gate.Validate(batch)

	res.Extracted = report.Total
	res.Accepted = len(report.Accepted)
	res.Rejected = len(report.Rejected)

	if !report.Meets(d.MinPassRatio) {
		return nil, gateErr(len(report.Accepted), report.PassRatio(), d.MinPassRatio)
	}
	return report.Accepted, nil
}
