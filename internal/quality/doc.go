// Package quality implements the pre-load validation gate.
//
// The gate is read-only over an extraction batch: it partitions rows into
// accepted and rejected (each rejection carries a reason), collapses
// duplicate (natural key, date) rows to the last occurrence, and applies a
// minimum pass-ratio policy before any row reaches the warehouse.
package quality
