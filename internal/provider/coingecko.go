package provider

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/shopspring/decimal"
)

// coinIDs maps common ticker symbols to CoinGecko coin identifiers.
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
	"BNB":  "binancecoin",
	"SOL":  "solana",
	"XRP":  "ripple",
	"ADA":  "cardano",
	"DOGE": "dogecoin",
	"DOT":  "polkadot",
	"LTC":  "litecoin",
	"AVAX": "avalanche-2",
	"LINK": "chainlink",
}

// CoinGecko fetches daily cryptocurrency prices.
type CoinGecko struct {
	c *Client
}

// NewCoinGecko wraps a rate-limited client for the CoinGecko API.
func NewCoinGecko(c *Client) *CoinGecko {
	return &CoinGecko{c: c}
}

// Name returns the provenance name of the underlying client.
func (g *CoinGecko) Name() string { return g.c.Name() }

type geckoMarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// MarketChart fetches daily close prices and volumes for one symbol over the
// trailing days window. An unmapped symbol is a permanent error: retrying
// cannot make CoinGecko recognize it.
func (g *CoinGecko) MarketChart(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	coinID, ok := coinIDs[strings.ToUpper(symbol)]
	if !ok {
		return nil, &PermanentError{
			Provider: g.c.name,
			Op:       "fetch " + symbol,
			Err:      fmt.Errorf("unknown symbol %q", symbol),
		}
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))
	query.Set("interval", "daily")

	var resp geckoMarketChart
	path := "/coins/" + coinID + "/market_chart"
	if err := g.c.get(ctx, "market chart "+symbol, path, query, nil, &resp); err != nil {
		return nil, err
	}

	// One close per day; market_chart emits millisecond timestamps and the
	// current (partial) day last, which overwrites the earlier sample.
	type daySample struct {
		close  decimal.Decimal
		volume int64
	}
	byDay := make(map[time.Time]daySample, len(resp.Prices))
	for _, p := range resp.Prices {
		day := model.DayOf(time.UnixMilli(int64(p[0])))
		s := byDay[day]
		s.close = decimal.NewFromFloat(p[1])
		byDay[day] = s
	}
	for _, v := range resp.TotalVolumes {
		day := model.DayOf(time.UnixMilli(int64(v[0])))
		s, ok := byDay[day]
		if !ok {
			continue
		}
		s.volume = int64(v[1])
		byDay[day] = s
	}

	symbol = strings.ToUpper(symbol)
	bars := make([]model.PriceBar, 0, len(byDay))
	for day, s := range byDay {
		bars = append(bars, model.PriceBar{
			Symbol:   symbol,
			Name:     coinDisplayName(coinID),
			Category: "cryptocurrency",
			Date:     day,
			Close:    model.Dec(s.close),
			Volume:   s.volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return bars, nil
}

// coinDisplayName derives a readable name from a CoinGecko coin id.
func coinDisplayName(coinID string) string {
	name := strings.ReplaceAll(coinID, "-", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
