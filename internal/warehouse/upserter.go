package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Upserter writes fact rows idempotently: one row per
// (subject, date, source), re-runs overwrite measurements instead of
// duplicating. It is the only component that writes fact tables.
type Upserter struct {
	store  Store
	logger *slog.Logger
}

// NewUpserter creates an upserter over a store.
func NewUpserter(store Store, logger *slog.Logger) *Upserter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Upserter{store: store, logger: logger}
}

// UpsertPrice loads one price fact, deriving day-over-day percent change
// from the latest prior close for the same subject and source. With no prior
// row the change stays unset: a first observation is not "no change".
func (u *Upserter) UpsertPrice(ctx context.Context, table FactTable, fact PriceFact, day time.Time) (LoadResult, error) {
	fact.ChangePct = u.changeFromPrior(ctx, table, fact.SubjectID, fact.SourceID, day, fact.Close)

	res, err := u.store.UpsertPriceFact(ctx, table, fact)
	if err != nil {
		return res, fmt.Errorf("upsert %s: %w", table, err)
	}
	return res, nil
}

// UpsertObservation loads one observation fact with the same derived-change
// semantics as UpsertPrice.
func (u *Upserter) UpsertObservation(ctx context.Context, table FactTable, fact ObservationFact, day time.Time) (LoadResult, error) {
	fact.ChangePct = u.changeFromPrior(ctx, table, fact.SubjectID, fact.SourceID, day, fact.Value)

	res, err := u.store.UpsertObservationFact(ctx, table, fact)
	if err != nil {
		return res, fmt.Errorf("upsert %s: %w", table, err)
	}
	return res, nil
}

// UpsertFiling loads one filing fact, keyed by accession number.
func (u *Upserter) UpsertFiling(ctx context.Context, fact FilingFact) (LoadResult, error) {
	res, err := u.store.UpsertFilingFact(ctx, fact)
	if err != nil {
		return res, fmt.Errorf("upsert %s: %w", FactSECFiling, err)
	}
	return res, nil
}

// changeFromPrior computes (current - prior) / prior * 100 against the
// latest fact before day. A missing or zero prior yields an unset change.
func (u *Upserter) changeFromPrior(ctx context.Context, table FactTable, subjectID, sourceID int64, day time.Time, current decimal.Decimal) decimal.NullDecimal {
	prior, ok, err := u.store.PriorMeasure(ctx, table, subjectID, sourceID, day)
	if err != nil {
		// Derived fields are best-effort; the measurement itself still loads.
		u.logger.Warn("prior measure lookup failed",
			"table", string(table),
			"subject_id", subjectID,
			"error", err,
		)
		return decimal.NullDecimal{}
	}
	if !ok || prior.IsZero() {
		return decimal.NullDecimal{}
	}

	change := current.Sub(prior).Div(prior).Mul(hundred).Round(4)
	return decimal.NullDecimal{Decimal: change, Valid: true}
}
