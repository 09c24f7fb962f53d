package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/leonberkemeier/financial-data-pipeline/internal/quality"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
)

// CommoditySource provides commodity spot prices.
type CommoditySource interface {
	Name() string
	CommodityPrices(ctx context.Context, seriesIDs []string, start, end time.Time) ([]model.PriceBar, error)
}

// Commodities loads commodity spot prices into fact_commodity_price.
type Commodities struct {
	deps    Deps
	source  CommoditySource
	symbols []string
	days    int
}

// NewCommodities creates the commodity pipeline.
func NewCommodities(deps Deps, source CommoditySource, symbols []string, days int) *Commodities {
	return &Commodities{deps: deps, source: source, symbols: symbols, days: days}
}

func (p *Commodities) Name() string { return "commodities" }

// Run executes fetch -> gate -> resolve -> upsert for all configured series.
func (p *Commodities) Run(ctx context.Context) Result { return run(ctx, p) }

func (p *Commodities) execute(ctx context.Context, res *Result) error {
	end := model.DayOf(time.Now())
	start := end.AddDate(0, 0, -p.days)

	bars, err := p.source.CommodityPrices(ctx, p.symbols, start, end)
	if err != nil {
		return fmt.Errorf("fetch commodity prices: %w", err)
	}

	accepted, err := applyGate(p.deps, quality.PriceBarRules(), bars, res)
	if err != nil {
		return err
	}

	return loadPriceBars(ctx, p.deps, warehouse.FactCommodityPrice, warehouse.DimCommodity, p.source.Name(), accepted,
		func(b model.PriceBar) warehouse.Attributes {
			return warehouse.Attributes{
				"name":     b.Name,
				"category": b.Category,
				"units":    b.Units,
			}
		}, res)
}
