package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
// API keys are only required for providers that an enabled pipeline uses.
func (c *Config) Validate() error {
	if c.Run.Concurrency < 1 {
		return errors.New("run.concurrency must be >= 1")
	}
	if c.Run.MinPassRatio < 0 || c.Run.MinPassRatio > 1 {
		return fmt.Errorf("run.min_pass_ratio must be between 0 and 1, got %v", c.Run.MinPassRatio)
	}
	if c.Run.DatePreloadDays < 0 {
		return errors.New("run.date_preload_days must be >= 0")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if !c.Pipelines.Stocks.Disabled && c.Providers.AlphaVantage.APIKey == "" {
		return errors.New("providers.alpha_vantage.api_key is required when the stocks pipeline is enabled")
	}
	fredUsed := !c.Pipelines.Bonds.Disabled || !c.Pipelines.Economic.Disabled || !c.Pipelines.Commodities.Disabled
	if fredUsed && c.Providers.FRED.APIKey == "" {
		return errors.New("providers.fred.api_key is required when the bonds, economic or commodities pipeline is enabled")
	}
	if !c.Pipelines.Filings.Disabled {
		if c.Providers.EDGAR.UserAgent == "" {
			return errors.New("providers.edgar.user_agent is required when the filings pipeline is enabled")
		}
		if len(c.Pipelines.Filings.CIKs) == 0 {
			return errors.New("pipelines.filings.ciks is required when the filings pipeline is enabled")
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
