package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/leonberkemeier/financial-data-pipeline/internal/quality"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
)

// IndicatorSource provides economic indicator observations.
type IndicatorSource interface {
	Name() string
	Indicators(ctx context.Context, codes []string, start, end time.Time) ([]model.ObservationPoint, error)
}

// Economic loads economic indicators into fact_economic_indicator.
type Economic struct {
	deps       Deps
	source     IndicatorSource
	indicators []string
	days       int
}

// NewEconomic creates the economic indicator pipeline.
func NewEconomic(deps Deps, source IndicatorSource, indicators []string, days int) *Economic {
	return &Economic{deps: deps, source: source, indicators: indicators, days: days}
}

func (p *Economic) Name() string { return "economic" }

// Run executes fetch -> gate -> resolve -> upsert for all configured indicators.
func (p *Economic) Run(ctx context.Context) Result { return run(ctx, p) }

func (p *Economic) execute(ctx context.Context, res *Result) error {
	end := model.DayOf(time.Now())
	start := end.AddDate(0, 0, -p.days)

	points, err := p.source.Indicators(ctx, p.indicators, start, end)
	if err != nil {
		return fmt.Errorf("fetch indicators: %w", err)
	}

	accepted, err := applyGate(p.deps, quality.IndicatorRules(), points, res)
	if err != nil {
		return err
	}

	return loadObservations(ctx, p.deps, warehouse.FactEconomicIndicator, warehouse.DimIndicator, p.source.Name(), accepted,
		func(o model.ObservationPoint) warehouse.Attributes {
			return warehouse.Attributes{
				"name":      o.Name,
				"units":     o.Units,
				"frequency": o.Frequency,
				"category":  o.Category,
			}
		}, res)
}
