// Package warehouse implements the dimensionally-modeled store: dimension
// tables keyed by natural keys, fact tables keyed by (subject, date, source),
// and the two components allowed to write to them.
//
// The Resolver maps natural keys to surrogate identifiers, creating dimension
// rows on first sight. The Upserter writes fact rows idempotently and derives
// day-over-day change from the prior observation.
//
// Two Store implementations exist: PostgresStore (pgx, uniqueness enforced by
// constraints) and MemoryStore (mutex-guarded, used in tests). Both guarantee
// that concurrent first-time inserts of the same natural key produce exactly
// one row.
package warehouse
