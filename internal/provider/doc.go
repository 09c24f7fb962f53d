// Package provider implements rate-limited access to external data providers.
//
// A Client wraps one provider's HTTP API with:
//   - a minimum inter-call delay (per client instance, failed calls count too)
//   - bounded retry with exponential backoff and jitter for transient faults
//   - an error taxonomy that separates retryable from permanent failures
//
// Adapters (Alpha Vantage, CoinGecko, FRED, SEC EDGAR) translate each
// provider's wire format into the normalized row types of internal/model.
package provider
