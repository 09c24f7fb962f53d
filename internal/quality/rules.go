package quality

import (
	"errors"
	"fmt"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/shopspring/decimal"
)

// PriceBarRules is the rule set for OHLCV rows (stocks, crypto, commodities).
func PriceBarRules() []Rule[model.PriceBar] {
	return []Rule[model.PriceBar]{
		priceBarRequiredFields,
		priceBarNonNegative,
		priceBarOHLCConsistent,
	}
}

// YieldRules is the rule set for bond yield observations. Yield magnitudes
// are never negative in the series this engine ingests.
func YieldRules() []Rule[model.ObservationPoint] {
	return []Rule[model.ObservationPoint]{
		observationRequiredFields,
		observationNonNegative,
	}
}

// IndicatorRules is the rule set for economic indicator observations.
// Indicator values may legitimately be negative (e.g. GDP change).
func IndicatorRules() []Rule[model.ObservationPoint] {
	return []Rule[model.ObservationPoint]{
		observationRequiredFields,
	}
}

// FilingRules is the rule set for SEC filing rows.
func FilingRules() []Rule[model.Filing] {
	return []Rule[model.Filing]{
		filingRequiredFields,
	}
}

func priceBarRequiredFields(b model.PriceBar) error {
	if b.Symbol == "" {
		return errors.New("missing field symbol")
	}
	if b.Date.IsZero() {
		return errors.New("missing field date")
	}
	if !b.Close.Valid {
		return errors.New("missing field close")
	}
	return nil
}

func priceBarNonNegative(b model.PriceBar) error {
	prices := []struct {
		name  string
		value decimal.NullDecimal
	}{
		{"open", b.Open},
		{"high", b.High},
		{"low", b.Low},
		{"close", b.Close},
		{"adj_close", b.AdjClose},
	}
	for _, p := range prices {
		if p.value.Valid && p.value.Decimal.IsNegative() {
			return fmt.Errorf("negative %s %s", p.name, p.value.Decimal)
		}
	}
	if b.Volume < 0 {
		return fmt.Errorf("negative volume %d", b.Volume)
	}
	return nil
}

// priceBarOHLCConsistent enforces low <= open, close <= high and low <= high.
// Only the fields present are checked.
func priceBarOHLCConsistent(b model.PriceBar) error {
	if b.High.Valid && b.Low.Valid && b.Low.Decimal.GreaterThan(b.High.Decimal) {
		return fmt.Errorf("ohlc inconsistent: low %s > high %s", b.Low.Decimal, b.High.Decimal)
	}
	if b.Open.Valid {
		if b.High.Valid && b.Open.Decimal.GreaterThan(b.High.Decimal) {
			return fmt.Errorf("ohlc inconsistent: open %s > high %s", b.Open.Decimal, b.High.Decimal)
		}
		if b.Low.Valid && b.Open.Decimal.LessThan(b.Low.Decimal) {
			return fmt.Errorf("ohlc inconsistent: open %s < low %s", b.Open.Decimal, b.Low.Decimal)
		}
	}
	if b.Close.Valid {
		if b.High.Valid && b.Close.Decimal.GreaterThan(b.High.Decimal) {
			return fmt.Errorf("ohlc inconsistent: close %s > high %s", b.Close.Decimal, b.High.Decimal)
		}
		if b.Low.Valid && b.Close.Decimal.LessThan(b.Low.Decimal) {
			return fmt.Errorf("ohlc inconsistent: close %s < low %s", b.Close.Decimal, b.Low.Decimal)
		}
	}
	return nil
}

func observationRequiredFields(o model.ObservationPoint) error {
	if o.SeriesID == "" {
		return errors.New("missing field series_id")
	}
	if o.Date.IsZero() {
		return errors.New("missing field date")
	}
	if !o.Value.Valid {
		return errors.New("missing field value")
	}
	return nil
}

func observationNonNegative(o model.ObservationPoint) error {
	if o.Value.Valid && o.Value.Decimal.IsNegative() {
		return fmt.Errorf("negative value %s", o.Value.Decimal)
	}
	return nil
}

func filingRequiredFields(f model.Filing) error {
	if f.CIK == "" {
		return errors.New("missing field cik")
	}
	if f.AccessionNumber == "" {
		return errors.New("missing field accession_number")
	}
	if f.FormType == "" {
		return errors.New("missing field form_type")
	}
	if f.FilingDate.IsZero() {
		return errors.New("missing field filing_date")
	}
	return nil
}
