package provider

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
)

// AlphaVantage fetches daily equity prices and company metadata.
//
// Alpha Vantage signals some failures inside a 200 response body:
// "Error Message" marks a bad request (permanent), "Note" marks the
// free-tier throttle (transient, surfaced for the orchestrator to retry
// the pipeline later).
type AlphaVantage struct {
	c *Client
}

// NewAlphaVantage wraps a rate-limited client for the Alpha Vantage API.
func NewAlphaVantage(c *Client) *AlphaVantage {
	return &AlphaVantage{c: c}
}

// Name returns the provenance name of the underlying client.
func (a *AlphaVantage) Name() string { return a.c.Name() }

type avDailyResponse struct {
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

type avOverviewResponse struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Symbol       string `json:"Symbol"`
	Name         string `json:"Name"`
	Exchange     string `json:"Exchange"`
	Sector       string `json:"Sector"`
	Industry     string `json:"Industry"`
	Country      string `json:"Country"`
}

// Daily fetches up to days of daily OHLCV bars for one symbol, newest first
// in the API, returned here in ascending date order.
func (a *AlphaVantage) Daily(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	query := url.Values{}
	query.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	query.Set("symbol", symbol)
	query.Set("outputsize", "compact")
	query.Set("apikey", a.c.apiKey)

	var resp avDailyResponse
	if err := a.c.get(ctx, "daily prices", "/query", query, nil, &resp); err != nil {
		return nil, err
	}
	if err := a.checkBody(symbol, resp.ErrorMessage, resp.Note); err != nil {
		return nil, err
	}

	cutoff := model.DayOf(time.Now()).AddDate(0, 0, -days)

	bars := make([]model.PriceBar, 0, len(resp.TimeSeries))
	for dateStr, fields := range resp.TimeSeries {
		day := model.ParseDay(dateStr)
		if day.IsZero() || day.Before(cutoff) {
			continue
		}
		bar := model.PriceBar{
			Symbol:   symbol,
			Date:     day,
			Open:     model.ParseDecimal(fields["1. open"]),
			High:     model.ParseDecimal(fields["2. high"]),
			Low:      model.ParseDecimal(fields["3. low"]),
			Close:    model.ParseDecimal(fields["4. close"]),
			AdjClose: model.ParseDecimal(fields["5. adjusted close"]),
		}
		if v := model.ParseDecimal(fields["6. volume"]); v.Valid {
			bar.Volume = v.Decimal.IntPart()
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return bars, nil
}

// CompanyInfo holds the descriptive attributes of a listed company.
type CompanyInfo struct {
	Name     string
	Exchange string
	Sector   string
	Industry string
	Country  string
}

// Overview fetches descriptive company attributes for one symbol.
func (a *AlphaVantage) Overview(ctx context.Context, symbol string) (CompanyInfo, error) {
	query := url.Values{}
	query.Set("function", "OVERVIEW")
	query.Set("symbol", symbol)
	query.Set("apikey", a.c.apiKey)

	var resp avOverviewResponse
	if err := a.c.get(ctx, "company overview", "/query", query, nil, &resp); err != nil {
		return CompanyInfo{}, err
	}
	if err := a.checkBody(symbol, resp.ErrorMessage, resp.Note); err != nil {
		return CompanyInfo{}, err
	}

	return CompanyInfo{
		Name:     resp.Name,
		Exchange: resp.Exchange,
		Sector:   resp.Sector,
		Industry: resp.Industry,
		Country:  resp.Country,
	}, nil
}

func (a *AlphaVantage) checkBody(symbol, errorMessage, note string) error {
	if errorMessage != "" {
		return &PermanentError{
			Provider: a.c.name,
			Op:       "fetch " + symbol,
			Err:      fmt.Errorf("provider rejected request: %s", errorMessage),
		}
	}
	if note != "" {
		return &TransientError{
			Provider: a.c.name,
			Op:       "fetch " + symbol,
			Err:      fmt.Errorf("rate limit note: %s", note),
		}
	}
	return nil
}
