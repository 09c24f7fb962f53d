package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type cacheKey struct {
	typ DimensionType
	key string
}

// Resolver maps natural keys to surrogate identifiers, creating dimension
// rows lazily on first sight. Resolution is idempotent under concurrent and
// repeated invocation: a creation race is recovered by re-reading the row
// the winner created.
type Resolver struct {
	store  Store
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[cacheKey]int64
}

// NewResolver creates a resolver over a store.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:  store,
		logger: logger,
		cache:  make(map[cacheKey]int64),
	}
}

// Resolve returns the surrogate identifier for a natural key, creating the
// dimension row if it does not exist yet. On an existing row the descriptive
// attributes are refreshed in place; the identifier and natural key never
// change. A cache hit skips the refresh: attributes were already written
// earlier in the run.
func (r *Resolver) Resolve(ctx context.Context, typ DimensionType, key string, attrs Attributes) (int64, error) {
	if key == "" {
		return 0, fmt.Errorf("%s: empty natural key", typ)
	}

	ck := cacheKey{typ: typ, key: key}
	r.mu.RLock()
	id, ok := r.cache[ck]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	id, found, err := r.store.LookupDimension(ctx, typ, key)
	if err != nil {
		return 0, fmt.Errorf("lookup %s %q: %w", typ, key, err)
	}
	if found {
		if len(attrs) > 0 {
			if err := r.store.RefreshDimension(ctx, typ, id, attrs); err != nil {
				return 0, fmt.Errorf("refresh %s %q: %w", typ, key, err)
			}
		}
		r.remember(ck, id)
		return id, nil
	}

	// The creation step is a single atomic insert: it either commits fully
	// or, on cancellation, is never attempted.
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	id, err = r.store.InsertDimension(ctx, typ, key, attrs)
	if err == nil {
		r.logger.Debug("dimension created", "type", string(typ), "key", key, "id", id)
		r.remember(ck, id)
		return id, nil
	}
	if !errors.Is(err, ErrDimensionExists) {
		return 0, fmt.Errorf("insert %s %q: %w", typ, key, err)
	}

	// Lost the creation race; the winner's row is the row.
	id, found, err = r.store.LookupDimension(ctx, typ, key)
	if err != nil {
		return 0, fmt.Errorf("re-read %s %q after conflict: %w", typ, key, err)
	}
	if !found {
		return 0, fmt.Errorf("%s %q: conflicting row vanished", typ, key)
	}
	r.remember(ck, id)
	return id, nil
}

// ResolveDate returns the surrogate identifier for a calendar date, creating
// the date dimension row on first sight. Date attributes derive entirely
// from the date, so existing rows are never refreshed.
func (r *Resolver) ResolveDate(ctx context.Context, day time.Time) (int64, error) {
	if day.IsZero() {
		return 0, errors.New("dim_date: zero date")
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	ck := cacheKey{typ: "dim_date", key: day.Format("2006-01-02")}
	r.mu.RLock()
	id, ok := r.cache[ck]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	id, found, err := r.store.LookupDate(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("lookup dim_date %s: %w", ck.key, err)
	}
	if found {
		r.remember(ck, id)
		return id, nil
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	id, err = r.store.InsertDate(ctx, DateRowFor(day))
	if err == nil {
		r.remember(ck, id)
		return id, nil
	}
	if !errors.Is(err, ErrDimensionExists) {
		return 0, fmt.Errorf("insert dim_date %s: %w", ck.key, err)
	}

	id, found, err = r.store.LookupDate(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("re-read dim_date %s after conflict: %w", ck.key, err)
	}
	if !found {
		return 0, fmt.Errorf("dim_date %s: conflicting row vanished", ck.key)
	}
	r.remember(ck, id)
	return id, nil
}

func (r *Resolver) remember(ck cacheKey, id int64) {
	r.mu.Lock()
	r.cache[ck] = id
	r.mu.Unlock()
}
