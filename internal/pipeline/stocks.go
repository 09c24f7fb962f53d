package pipeline

import (
	"context"
	"fmt"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/leonberkemeier/financial-data-pipeline/internal/provider"
	"github.com/leonberkemeier/financial-data-pipeline/internal/quality"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
)

// StockSource provides daily equity bars and company metadata.
type StockSource interface {
	Name() string
	Daily(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Overview(ctx context.Context, symbol string) (provider.CompanyInfo, error)
}

// Stocks loads daily equity prices into fact_stock_price.
type Stocks struct {
	deps    Deps
	source  StockSource
	tickers []string
	days    int
}

// NewStocks creates the equity pipeline.
func NewStocks(deps Deps, source StockSource, tickers []string, days int) *Stocks {
	return &Stocks{deps: deps, source: source, tickers: tickers, days: days}
}

func (p *Stocks) Name() string { return "stocks" }

// Run executes fetch -> gate -> resolve -> upsert for all configured tickers.
func (p *Stocks) Run(ctx context.Context) Result { return run(ctx, p) }

func (p *Stocks) execute(ctx context.Context, res *Result) error {
	var bars []model.PriceBar
	for _, ticker := range p.tickers {
		tickerBars, err := p.source.Daily(ctx, ticker, p.days)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", ticker, err)
		}

		info, err := p.source.Overview(ctx, ticker)
		if err != nil {
			return fmt.Errorf("fetch %s overview: %w", ticker, err)
		}
		for i := range tickerBars {
			tickerBars[i].Name = info.Name
			tickerBars[i].Exchange = info.Exchange
			tickerBars[i].Sector = info.Sector
			tickerBars[i].Industry = info.Industry
			tickerBars[i].Country = info.Country
		}

		bars = append(bars, tickerBars...)
	}

	accepted, err := applyGate(p.deps, quality.PriceBarRules(), bars, res)
	if err != nil {
		return err
	}

	return loadPriceBars(ctx, p.deps, warehouse.FactStockPrice, warehouse.DimCompany, p.source.Name(), accepted,
		func(b model.PriceBar) warehouse.Attributes {
			return warehouse.Attributes{
				"name":     b.Name,
				"sector":   b.Sector,
				"industry": b.Industry,
				"country":  b.Country,
			}
		}, res)
}
