package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAlphaVantageURL   = "https://www.alphavantage.co"
	DefaultCoinGeckoURL      = "https://api.coingecko.com/api/v3"
	DefaultFREDURL           = "https://api.stlouisfed.org/fred"
	DefaultEDGARURL          = "https://data.sec.gov"
	DefaultProviderTimeout   = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultAlphaVantageDelay = 12 * time.Second // free tier allows 5 calls/min
	DefaultCoinGeckoDelay    = 6 * time.Second
	DefaultFREDDelay         = 1 * time.Second
	DefaultEDGARDelay        = 200 * time.Millisecond
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultHistoryDays       = 30
	DefaultIndicatorDays     = 365
)

// Default pipeline subjects, used when a pipeline section names none.
var (
	DefaultTickers     = []string{"AAPL", "MSFT"}
	DefaultSymbols     = []string{"BTC", "ETH"}
	DefaultMaturities  = []string{"3MO", "10Y", "30Y"}
	DefaultIndicators  = []string{"GDP", "UNRATE", "CPIAUCSL"}
	DefaultCommodities = []string{"DCOILWTICO", "GOLDAMGBD228NLBM"}
	DefaultForms       = []string{"10-K", "10-Q", "8-K"}
)

func (c *Config) applyDefaults() {
	// Run defaults
	if c.Run.Concurrency == 0 {
		c.Run.Concurrency = 1
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Provider defaults
	applyProviderDefaults(&c.Providers.AlphaVantage, DefaultAlphaVantageURL, DefaultAlphaVantageDelay)
	applyProviderDefaults(&c.Providers.CoinGecko, DefaultCoinGeckoURL, DefaultCoinGeckoDelay)
	applyProviderDefaults(&c.Providers.FRED, DefaultFREDURL, DefaultFREDDelay)
	applyProviderDefaults(&c.Providers.EDGAR, DefaultEDGARURL, DefaultEDGARDelay)

	// Pipeline defaults
	if len(c.Pipelines.Stocks.Tickers) == 0 {
		c.Pipelines.Stocks.Tickers = DefaultTickers
	}
	if c.Pipelines.Stocks.Days == 0 {
		c.Pipelines.Stocks.Days = DefaultHistoryDays
	}
	if len(c.Pipelines.Crypto.Symbols) == 0 {
		c.Pipelines.Crypto.Symbols = DefaultSymbols
	}
	if c.Pipelines.Crypto.Days == 0 {
		c.Pipelines.Crypto.Days = DefaultHistoryDays
	}
	if len(c.Pipelines.Bonds.Maturities) == 0 {
		c.Pipelines.Bonds.Maturities = DefaultMaturities
	}
	if c.Pipelines.Bonds.Days == 0 {
		c.Pipelines.Bonds.Days = DefaultHistoryDays
	}
	if len(c.Pipelines.Economic.Indicators) == 0 {
		c.Pipelines.Economic.Indicators = DefaultIndicators
	}
	if c.Pipelines.Economic.Days == 0 {
		c.Pipelines.Economic.Days = DefaultIndicatorDays
	}
	if len(c.Pipelines.Commodities.Series) == 0 {
		c.Pipelines.Commodities.Series = DefaultCommodities
	}
	if c.Pipelines.Commodities.Days == 0 {
		c.Pipelines.Commodities.Days = DefaultHistoryDays
	}
	if len(c.Pipelines.Filings.Forms) == 0 {
		c.Pipelines.Filings.Forms = DefaultForms
	}
}

func applyProviderDefaults(p *ProviderConfig, baseURL string, delay time.Duration) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultProviderTimeout
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.RateDelay == 0 {
		p.RateDelay = delay
	}
}
