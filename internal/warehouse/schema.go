package warehouse

// dimKeyColumn names the unique natural-key column of each dimension table.
var dimKeyColumn = map[DimensionType]string{
	DimCompany:     "ticker",
	DimCryptoAsset: "symbol",
	DimBond:        "series_id",
	DimIndicator:   "indicator_code",
	DimCommodity:   "series_id",
	DimExchange:    "exchange_code",
	DimDataSource:  "source_name",
	DimFilingType:  "form_type",
}

// dimAttrColumns whitelists the refreshable descriptive columns per
// dimension type. Attributes outside this list are dropped.
var dimAttrColumns = map[DimensionType][]string{
	DimCompany:     {"name", "sector", "industry", "country"},
	DimCryptoAsset: {"name", "category"},
	DimBond:        {"name", "maturity", "units"},
	DimIndicator:   {"name", "units", "frequency", "category"},
	DimCommodity:   {"name", "category", "units"},
	DimExchange:    {"name", "country", "currency"},
	DimDataSource:  {"source_type", "description"},
	DimFilingType:  {"description"},
}

// factMeasureColumn names the headline measure used for day-over-day change.
var factMeasureColumn = map[FactTable]string{
	FactStockPrice:        "close",
	FactCryptoPrice:       "close",
	FactCommodityPrice:    "close",
	FactBondYield:         "value",
	FactEconomicIndicator: "value",
}

// priceFactTables marks which fact tables carry full OHLCV columns.
var priceFactTables = map[FactTable]bool{
	FactStockPrice:     true,
	FactCryptoPrice:    true,
	FactCommodityPrice: true,
}

// schemaStatements creates the star schema. Every statement is idempotent so
// Init can run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dim_company (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		ticker TEXT NOT NULL UNIQUE,
		name TEXT,
		sector TEXT,
		industry TEXT,
		country TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dim_crypto_asset (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		symbol TEXT NOT NULL UNIQUE,
		name TEXT,
		category TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dim_bond (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		series_id TEXT NOT NULL UNIQUE,
		name TEXT,
		maturity TEXT,
		units TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dim_indicator (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		indicator_code TEXT NOT NULL UNIQUE,
		name TEXT,
		units TEXT,
		frequency TEXT,
		category TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dim_commodity (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		series_id TEXT NOT NULL UNIQUE,
		name TEXT,
		category TEXT,
		units TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dim_exchange (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		exchange_code TEXT NOT NULL UNIQUE,
		name TEXT,
		country TEXT,
		currency TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dim_data_source (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		source_name TEXT NOT NULL UNIQUE,
		source_type TEXT,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dim_filing_type (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		form_type TEXT NOT NULL UNIQUE,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dim_date (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		day DATE NOT NULL UNIQUE,
		year INT NOT NULL,
		quarter INT NOT NULL,
		month INT NOT NULL,
		week INT NOT NULL,
		day_of_month INT NOT NULL,
		day_of_week INT NOT NULL,
		day_name TEXT NOT NULL,
		is_weekend BOOLEAN NOT NULL,
		is_quarter_end BOOLEAN NOT NULL,
		is_year_end BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fact_stock_price (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		subject_id BIGINT NOT NULL REFERENCES dim_company(id),
		date_id BIGINT NOT NULL REFERENCES dim_date(id),
		source_id BIGINT NOT NULL REFERENCES dim_data_source(id),
		exchange_id BIGINT REFERENCES dim_exchange(id),
		open NUMERIC(18,4),
		high NUMERIC(18,4),
		low NUMERIC(18,4),
		close NUMERIC(18,4) NOT NULL,
		adj_close NUMERIC(18,4),
		volume BIGINT,
		change_pct NUMERIC(12,4),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ,
		UNIQUE (subject_id, date_id, source_id)
	)`,
	`CREATE TABLE IF NOT EXISTS fact_crypto_price (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		subject_id BIGINT NOT NULL REFERENCES dim_crypto_asset(id),
		date_id BIGINT NOT NULL REFERENCES dim_date(id),
		source_id BIGINT NOT NULL REFERENCES dim_data_source(id),
		exchange_id BIGINT REFERENCES dim_exchange(id),
		open NUMERIC(24,8),
		high NUMERIC(24,8),
		low NUMERIC(24,8),
		close NUMERIC(24,8) NOT NULL,
		adj_close NUMERIC(24,8),
		volume BIGINT,
		change_pct NUMERIC(12,4),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ,
		UNIQUE (subject_id, date_id, source_id)
	)`,
	`CREATE TABLE IF NOT EXISTS fact_commodity_price (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		subject_id BIGINT NOT NULL REFERENCES dim_commodity(id),
		date_id BIGINT NOT NULL REFERENCES dim_date(id),
		source_id BIGINT NOT NULL REFERENCES dim_data_source(id),
		exchange_id BIGINT,
		open NUMERIC(18,4),
		high NUMERIC(18,4),
		low NUMERIC(18,4),
		close NUMERIC(18,4) NOT NULL,
		adj_close NUMERIC(18,4),
		volume BIGINT,
		change_pct NUMERIC(12,4),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ,
		UNIQUE (subject_id, date_id, source_id)
	)`,
	`CREATE TABLE IF NOT EXISTS fact_bond_yield (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		subject_id BIGINT NOT NULL REFERENCES dim_bond(id),
		date_id BIGINT NOT NULL REFERENCES dim_date(id),
		source_id BIGINT NOT NULL REFERENCES dim_data_source(id),
		value NUMERIC(20,6) NOT NULL,
		change_pct NUMERIC(12,4),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ,
		UNIQUE (subject_id, date_id, source_id)
	)`,
	`CREATE TABLE IF NOT EXISTS fact_economic_indicator (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		subject_id BIGINT NOT NULL REFERENCES dim_indicator(id),
		date_id BIGINT NOT NULL REFERENCES dim_date(id),
		source_id BIGINT NOT NULL REFERENCES dim_data_source(id),
		value NUMERIC(20,6) NOT NULL,
		change_pct NUMERIC(12,4),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ,
		UNIQUE (subject_id, date_id, source_id)
	)`,
	`CREATE TABLE IF NOT EXISTS fact_sec_filing (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES dim_company(id),
		filing_type_id BIGINT NOT NULL REFERENCES dim_filing_type(id),
		date_id BIGINT NOT NULL REFERENCES dim_date(id),
		source_id BIGINT NOT NULL REFERENCES dim_data_source(id),
		cik TEXT NOT NULL,
		accession_number TEXT NOT NULL UNIQUE,
		file_url TEXT,
		size_bytes BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_stock_price_subject ON fact_stock_price (subject_id, date_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_crypto_price_subject ON fact_crypto_price (subject_id, date_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_commodity_price_subject ON fact_commodity_price (subject_id, date_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_bond_yield_subject ON fact_bond_yield (subject_id, date_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_economic_indicator_subject ON fact_economic_indicator (subject_id, date_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_sec_filing_company ON fact_sec_filing (company_id, date_id)`,
}
