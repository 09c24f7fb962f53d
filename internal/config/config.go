package config

import "time"

// Config is the root configuration for a pipeline run.
type Config struct {
	Run       RunConfig       `yaml:"run"`
	Database  DBConfig        `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Pipelines PipelinesConfig `yaml:"pipelines"`
}

// RunConfig controls orchestration of a whole run.
type RunConfig struct {
	// StopOnFirstError aborts the run after the first failed pipeline
	// instead of letting the remaining pipelines finish.
	StopOnFirstError bool `yaml:"stop_on_first_error"`

	// Concurrency is the number of pipelines run in parallel.
	Concurrency int `yaml:"concurrency"`

	// MinPassRatio is the minimum accepted/extracted ratio a batch must
	// reach before it is loaded. At zero, the default, whatever passed is
	// loaded and a batch fails only when no row passed at all.
	MinPassRatio float64 `yaml:"min_pass_ratio"`

	// DatePreload pre-populates the date dimension this far back from
	// today. Zero skips pre-population; dates are then created on demand.
	DatePreloadDays int `yaml:"date_preload_days"`
}

// DBConfig holds the warehouse database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ProvidersConfig holds per-provider API settings.
type ProvidersConfig struct {
	AlphaVantage ProviderConfig `yaml:"alpha_vantage"`
	CoinGecko    ProviderConfig `yaml:"coingecko"`
	FRED         ProviderConfig `yaml:"fred"`
	EDGAR        ProviderConfig `yaml:"edgar"`
}

// ProviderConfig holds one upstream API's settings. RateDelay is the minimum
// interval between consecutive calls to the provider.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RateDelay  time.Duration `yaml:"rate_delay"`
	UserAgent  string        `yaml:"user_agent"` // required by EDGAR, unused elsewhere
}

// PipelinesConfig holds per-pipeline settings. Each pipeline runs unless
// marked disabled.
type PipelinesConfig struct {
	Stocks      StocksConfig      `yaml:"stocks"`
	Crypto      CryptoConfig      `yaml:"crypto"`
	Bonds       BondsConfig       `yaml:"bonds"`
	Economic    EconomicConfig    `yaml:"economic"`
	Commodities CommoditiesConfig `yaml:"commodities"`
	Filings     FilingsConfig     `yaml:"filings"`
}

// StocksConfig configures the equity price pipeline.
type StocksConfig struct {
	Disabled bool     `yaml:"disabled"`
	Tickers  []string `yaml:"tickers"`
	Days     int      `yaml:"days"`
}

// CryptoConfig configures the cryptocurrency price pipeline.
type CryptoConfig struct {
	Disabled bool     `yaml:"disabled"`
	Symbols  []string `yaml:"symbols"`
	Days     int      `yaml:"days"`
}

// BondsConfig configures the treasury yield pipeline.
type BondsConfig struct {
	Disabled   bool     `yaml:"disabled"`
	Maturities []string `yaml:"maturities"`
	Days       int      `yaml:"days"`
}

// EconomicConfig configures the economic indicator pipeline.
type EconomicConfig struct {
	Disabled   bool     `yaml:"disabled"`
	Indicators []string `yaml:"indicators"`
	Days       int      `yaml:"days"`
}

// CommoditiesConfig configures the commodity price pipeline.
type CommoditiesConfig struct {
	Disabled bool     `yaml:"disabled"`
	Series   []string `yaml:"series"`
	Days     int      `yaml:"days"`
}

// FilingsConfig configures the SEC filing pipeline.
type FilingsConfig struct {
	Disabled bool     `yaml:"disabled"`
	CIKs     []string `yaml:"ciks"`
	Forms    []string `yaml:"forms"`
}
