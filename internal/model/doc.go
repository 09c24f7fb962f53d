// Package model defines the normalized row types shared across the ETL engine.
//
// Every provider adapter translates its wire format into one of these types
// before the quality gate or the warehouse ever sees the data.
//
// Conventions:
//   - Monetary and measurement values: decimal.Decimal (never float64)
//   - Observation dates: time.Time truncated to UTC midnight
//   - Optional measurements: decimal.NullDecimal (absent != zero)
package model
