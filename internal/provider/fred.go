package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
)

// treasurySeries maps maturity labels to FRED constant-maturity series.
var treasurySeries = map[string]struct {
	SeriesID string
	Name     string
}{
	"3MO": {"DGS3MO", "US Treasury 3-Month"},
	"2Y":  {"DGS2", "US Treasury 2-Year"},
	"5Y":  {"DGS5", "US Treasury 5-Year"},
	"10Y": {"DGS10", "US Treasury 10-Year"},
	"30Y": {"DGS30", "US Treasury 30-Year"},
}

// indicatorSeries describes the economic indicators the engine knows how to
// label. Unknown codes are still fetched, with the code as the display name.
var indicatorSeries = map[string]struct {
	Name      string
	Units     string
	Frequency string
	Category  string
}{
	"GDP":      {"Gross Domestic Product", "billions of dollars", "quarterly", "output"},
	"UNRATE":   {"Unemployment Rate", "percent", "monthly", "labor"},
	"CPIAUCSL": {"Consumer Price Index (All Urban)", "index 1982-84=100", "monthly", "prices"},
	"FEDFUNDS": {"Federal Funds Effective Rate", "percent", "monthly", "rates"},
	"M2SL":     {"M2 Money Stock", "billions of dollars", "monthly", "money"},
	"PAYEMS":   {"Total Nonfarm Payrolls", "thousands of persons", "monthly", "labor"},
}

// commoditySeries maps FRED commodity series to descriptive attributes.
var commoditySeries = map[string]struct {
	Name     string
	Category string
	Units    string
}{
	"DCOILWTICO":       {"Crude Oil WTI", "Energy", "dollars per barrel"},
	"DCOILBRENTEU":     {"Brent Crude Oil", "Energy", "dollars per barrel"},
	"DHHNGSP":          {"Natural Gas", "Energy", "dollars per million BTU"},
	"GOLDAMGBD228NLBM": {"Gold", "Metals", "dollars per troy ounce"},
	"SLVPRUSD":         {"Silver", "Metals", "dollars per troy ounce"},
	"PCOPPUSDM":        {"Copper", "Metals", "dollars per metric ton"},
	"PWHEAMTUSDM":      {"Wheat", "Agriculture", "dollars per metric ton"},
	"PSOYBUSDM":        {"Soybeans", "Agriculture", "dollars per metric ton"},
}

// FRED fetches observation series from the St. Louis Fed API: treasury
// yields, economic indicators and commodity spot prices.
type FRED struct {
	c *Client
}

// NewFRED wraps a rate-limited client for the FRED API.
func NewFRED(c *Client) *FRED {
	return &FRED{c: c}
}

// Name returns the provenance name of the underlying client.
func (f *FRED) Name() string { return f.c.Name() }

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// observations fetches raw dated values for one series. FRED reports missing
// values as "." which ParseDecimal maps to an invalid decimal; those rows are
// dropped here rather than sent to the quality gate.
func (f *FRED) observations(ctx context.Context, seriesID string, start, end time.Time) ([]model.ObservationPoint, error) {
	query := url.Values{}
	query.Set("series_id", seriesID)
	query.Set("api_key", f.c.apiKey)
	query.Set("file_type", "json")
	if !start.IsZero() {
		query.Set("observation_start", start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		query.Set("observation_end", end.Format("2006-01-02"))
	}

	var resp fredObservationsResponse
	if err := f.c.get(ctx, "observations "+seriesID, "/series/observations", query, nil, &resp); err != nil {
		return nil, err
	}

	points := make([]model.ObservationPoint, 0, len(resp.Observations))
	for _, obs := range resp.Observations {
		value := model.ParseDecimal(obs.Value)
		if !value.Valid {
			continue
		}
		points = append(points, model.ObservationPoint{
			SeriesID: seriesID,
			Date:     model.ParseDay(obs.Date),
			Value:    value,
		})
	}

	return points, nil
}

// TreasuryYields fetches constant-maturity treasury yields for the given
// maturity labels (e.g. "3MO", "10Y", "30Y").
func (f *FRED) TreasuryYields(ctx context.Context, maturities []string, start, end time.Time) ([]model.ObservationPoint, error) {
	var all []model.ObservationPoint
	for _, maturity := range maturities {
		series, ok := treasurySeries[maturity]
		if !ok {
			return nil, &PermanentError{
				Provider: f.c.name,
				Op:       "treasury yields",
				Err:      fmt.Errorf("unknown maturity %q", maturity),
			}
		}

		points, err := f.observations(ctx, series.SeriesID, start, end)
		if err != nil {
			return nil, err
		}
		for i := range points {
			points[i].Name = series.Name
			points[i].Maturity = maturity
			points[i].Units = "percent"
			points[i].Category = "treasury"
			points[i].Frequency = "daily"
		}
		all = append(all, points...)
	}
	return all, nil
}

// Indicators fetches economic indicator observations for the given codes.
func (f *FRED) Indicators(ctx context.Context, codes []string, start, end time.Time) ([]model.ObservationPoint, error) {
	var all []model.ObservationPoint
	for _, code := range codes {
		points, err := f.observations(ctx, code, start, end)
		if err != nil {
			return nil, err
		}

		meta, known := indicatorSeries[code]
		for i := range points {
			if known {
				points[i].Name = meta.Name
				points[i].Units = meta.Units
				points[i].Frequency = meta.Frequency
				points[i].Category = meta.Category
			} else {
				points[i].Name = code
			}
		}
		all = append(all, points...)
	}
	return all, nil
}

// CommodityPrices fetches commodity spot prices as price bars; FRED publishes
// a single daily value, loaded as the close.
func (f *FRED) CommodityPrices(ctx context.Context, seriesIDs []string, start, end time.Time) ([]model.PriceBar, error) {
	var all []model.PriceBar
	for _, seriesID := range seriesIDs {
		meta, ok := commoditySeries[seriesID]
		if !ok {
			return nil, &PermanentError{
				Provider: f.c.name,
				Op:       "commodity prices",
				Err:      fmt.Errorf("unknown commodity series %q", seriesID),
			}
		}

		points, err := f.observations(ctx, seriesID, start, end)
		if err != nil {
			return nil, err
		}
		for _, p := range points {
			all = append(all, model.PriceBar{
				Symbol:   seriesID,
				Name:     meta.Name,
				Category: meta.Category,
				Units:    meta.Units,
				Date:     p.Date,
				Close:    p.Value,
			})
		}
	}
	return all, nil
}
