package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is the minimal surface a normalized record exposes to the quality gate:
// the natural key of its subject and the calendar date of the observation.
type Row interface {
	Key() string
	Day() time.Time
}

// PriceBar is one day of OHLCV data for a priced asset (stock, crypto asset,
// commodity). Measurement fields other than Close are optional because not
// every provider supplies a full candle.
type PriceBar struct {
	Symbol   string // natural key (ticker, crypto symbol, commodity code)
	Exchange string // exchange code, empty when the provider does not report one
	Name     string
	Sector   string
	Industry string
	Category string
	Country  string
	Units    string // commodity series only (e.g. "dollars per barrel")
	Date     time.Time

	Open     decimal.NullDecimal
	High     decimal.NullDecimal
	Low      decimal.NullDecimal
	Close    decimal.NullDecimal
	AdjClose decimal.NullDecimal
	Volume   int64
}

func (b PriceBar) Key() string    { return b.Symbol }
func (b PriceBar) Day() time.Time { return b.Date }

// ObservationPoint is one dated value of a published series (treasury yield,
// economic indicator).
type ObservationPoint struct {
	SeriesID  string // natural key (e.g. "DGS10", "UNRATE")
	Name      string
	Units     string
	Frequency string
	Category  string
	Maturity  string // bond series only (e.g. "10Y")
	Date      time.Time

	Value decimal.NullDecimal
}

func (o ObservationPoint) Key() string    { return o.SeriesID }
func (o ObservationPoint) Day() time.Time { return o.Date }

// Filing is one regulatory filing record from SEC EDGAR.
type Filing struct {
	CIK             string
	CompanyName     string
	Ticker          string
	FormType        string
	AccessionNumber string // natural key, unique per filing
	FilingDate      time.Time
	FileURL         string
	SizeBytes       int64
}

func (f Filing) Key() string    { return f.AccessionNumber }
func (f Filing) Day() time.Time { return f.FilingDate }
