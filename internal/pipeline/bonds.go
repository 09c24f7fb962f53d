package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/leonberkemeier/financial-data-pipeline/internal/quality"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
)

// BondSource provides treasury yield observations.
type BondSource interface {
	Name() string
	TreasuryYields(ctx context.Context, maturities []string, start, end time.Time) ([]model.ObservationPoint, error)
}

// Bonds loads treasury yields into fact_bond_yield.
type Bonds struct {
	deps       Deps
	source     BondSource
	maturities []string
	days       int
}

// NewBonds creates the bond yield pipeline.
func NewBonds(deps Deps, source BondSource, maturities []string, days int) *Bonds {
	return &Bonds{deps: deps, source: source, maturities: maturities, days: days}
}

func (p *Bonds) Name() string { return "bonds" }

// Run executes fetch -> gate -> resolve -> upsert for all configured maturities.
func (p *Bonds) Run(ctx context.Context) Result { return run(ctx, p) }

func (p *Bonds) execute(ctx context.Context, res *Result) error {
	end := model.DayOf(time.Now())
	start := end.AddDate(0, 0, -p.days)

	points, err := p.source.TreasuryYields(ctx, p.maturities, start, end)
	if err != nil {
		return fmt.Errorf("fetch treasury yields: %w", err)
	}

	accepted, err := applyGate(p.deps, quality.YieldRules(), points, res)
	if err != nil {
		return err
	}

	return loadObservations(ctx, p.deps, warehouse.FactBondYield, warehouse.DimBond, p.source.Name(), accepted,
		func(o model.ObservationPoint) warehouse.Attributes {
			return warehouse.Attributes{
				"name":     o.Name,
				"maturity": o.Maturity,
				"units":    o.Units,
			}
		}, res)
}
