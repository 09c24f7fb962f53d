package warehouse

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDimensionExists is returned by InsertDimension (and InsertDate) when
// another writer created the row first. Callers recover by re-reading the
// winning row; the error never escapes the Resolver.
var ErrDimensionExists = errors.New("dimension row already exists")

// DimensionType names a dimension table.
type DimensionType string

const (
	DimCompany     DimensionType = "dim_company"
	DimCryptoAsset DimensionType = "dim_crypto_asset"
	DimBond        DimensionType = "dim_bond"
	DimIndicator   DimensionType = "dim_indicator"
	DimCommodity   DimensionType = "dim_commodity"
	DimExchange    DimensionType = "dim_exchange"
	DimDataSource  DimensionType = "dim_data_source"
	DimFilingType  DimensionType = "dim_filing_type"
)

// FactTable names a fact table.
type FactTable string

const (
	FactStockPrice        FactTable = "fact_stock_price"
	FactCryptoPrice       FactTable = "fact_crypto_price"
	FactCommodityPrice    FactTable = "fact_commodity_price"
	FactBondYield         FactTable = "fact_bond_yield"
	FactEconomicIndicator FactTable = "fact_economic_indicator"
	FactSECFiling         FactTable = "fact_sec_filing"
)

// Attributes are the descriptive, refreshable columns of a dimension row,
// keyed by column name. Unknown columns for a dimension type are ignored.
type Attributes map[string]string

// LoadResult reports whether an upsert created or overwrote a fact row.
type LoadResult int

const (
	Inserted LoadResult = iota
	Updated
)

func (r LoadResult) String() string {
	if r == Inserted {
		return "inserted"
	}
	return "updated"
}

// DateRow is one calendar-date dimension row. All attributes derive from the
// date itself, so the row never needs refreshing.
type DateRow struct {
	Day          time.Time
	Year         int
	Quarter      int
	Month        int
	Week         int
	DayOfMonth   int
	DayOfWeek    int // 0=Monday .. 6=Sunday
	DayName      string
	IsWeekend    bool
	IsQuarterEnd bool
	IsYearEnd    bool
}

// PriceFact is one OHLCV measurement bound to surrogate identifiers.
type PriceFact struct {
	SubjectID  int64
	DateID     int64
	SourceID   int64
	ExchangeID int64 // 0 when the asset has no exchange dimension

	Open      decimal.NullDecimal
	High      decimal.NullDecimal
	Low       decimal.NullDecimal
	Close     decimal.Decimal
	AdjClose  decimal.NullDecimal
	Volume    int64
	ChangePct decimal.NullDecimal
}

// ObservationFact is one single-valued measurement (yield, indicator value).
type ObservationFact struct {
	SubjectID int64
	DateID    int64
	SourceID  int64

	Value     decimal.Decimal
	ChangePct decimal.NullDecimal
}

// FilingFact is one SEC filing record, keyed by accession number.
type FilingFact struct {
	CompanyID    int64
	FilingTypeID int64
	DateID       int64
	SourceID     int64

	CIK             string
	AccessionNumber string
	FileURL         string
	SizeBytes       int64
}

// Store is the persistence boundary of the engine. Implementations must make
// InsertDimension and InsertDate atomic with respect to concurrent writers:
// at most one insert for a natural key succeeds, the rest get
// ErrDimensionExists.
type Store interface {
	// Init creates the schema. Idempotent.
	Init(ctx context.Context) error

	LookupDimension(ctx context.Context, typ DimensionType, key string) (int64, bool, error)
	InsertDimension(ctx context.Context, typ DimensionType, key string, attrs Attributes) (int64, error)
	RefreshDimension(ctx context.Context, typ DimensionType, id int64, attrs Attributes) error

	LookupDate(ctx context.Context, day time.Time) (int64, bool, error)
	InsertDate(ctx context.Context, row DateRow) (int64, error)
	// InsertDates bulk-inserts date rows, silently skipping existing days.
	InsertDates(ctx context.Context, rows []DateRow) error

	UpsertPriceFact(ctx context.Context, table FactTable, fact PriceFact) (LoadResult, error)
	UpsertObservationFact(ctx context.Context, table FactTable, fact ObservationFact) (LoadResult, error)
	UpsertFilingFact(ctx context.Context, fact FilingFact) (LoadResult, error)

	// PriorMeasure returns the headline measure (close for price tables,
	// value for observation tables) of the latest fact before the given day
	// for the same subject and source.
	PriorMeasure(ctx context.Context, table FactTable, subjectID, sourceID int64, before time.Time) (decimal.Decimal, bool, error)
}
