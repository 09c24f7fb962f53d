// Package database provides connection pool management for the PostgreSQL
// warehouse. The star schema (dimension and fact tables) lives in the
// warehouse package; this package only builds and verifies the pool.
package database
