package pipeline

import (
	"context"
	"fmt"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/leonberkemeier/financial-data-pipeline/internal/quality"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
)

// CryptoSource provides daily cryptocurrency bars.
type CryptoSource interface {
	Name() string
	MarketChart(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
}

// Crypto loads daily cryptocurrency prices into fact_crypto_price.
type Crypto struct {
	deps    Deps
	source  CryptoSource
	symbols []string
	days    int
}

// NewCrypto creates the cryptocurrency pipeline.
func NewCrypto(deps Deps, source CryptoSource, symbols []string, days int) *Crypto {
	return &Crypto{deps: deps, source: source, symbols: symbols, days: days}
}

func (p *Crypto) Name() string { return "crypto" }

// Run executes fetch -> gate -> resolve -> upsert for all configured symbols.
func (p *Crypto) Run(ctx context.Context) Result { return run(ctx, p) }

func (p *Crypto) execute(ctx context.Context, res *Result) error {
	var bars []model.PriceBar
	for _, symbol := range p.symbols {
		symbolBars, err := p.source.MarketChart(ctx, symbol, p.days)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", symbol, err)
		}
		bars = append(bars, symbolBars...)
	}

	accepted, err := applyGate(p.deps, quality.PriceBarRules(), bars, res)
	if err != nil {
		return err
	}

	return loadPriceBars(ctx, p.deps, warehouse.FactCryptoPrice, warehouse.DimCryptoAsset, p.source.Name(), accepted,
		func(b model.PriceBar) warehouse.Attributes {
			return warehouse.Attributes{
				"name":     b.Name,
				"category": b.Category,
			}
		}, res)
}
