package warehouse

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestResolveCreatesOnFirstSight(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store, nil)

	id, err := r.Resolve(context.Background(), DimCompany, "AAPL", Attributes{"name": "Apple Inc"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id == 0 {
		t.Fatal("Resolve() returned zero id")
	}
	if got := store.DimensionCount(DimCompany); got != 1 {
		t.Errorf("dimension count = %d, want 1", got)
	}
	if name, _ := store.DimensionAttr(DimCompany, "AAPL", "name"); name != "Apple Inc" {
		t.Errorf("name attr = %q, want %q", name, "Apple Inc")
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store, nil)

	first, err := r.Resolve(context.Background(), DimCompany, "AAPL", nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	for i := 0; i < 5; i++ {
		id, err := r.Resolve(context.Background(), DimCompany, "AAPL", nil)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if id != first {
			t.Errorf("Resolve() = %d, want stable id %d", id, first)
		}
	}
	if got := store.DimensionCount(DimCompany); got != 1 {
		t.Errorf("dimension count = %d, want 1", got)
	}
}

func TestResolveConcurrentSameKey(t *testing.T) {
	store := NewMemoryStore()

	const workers = 20
	ids := make([]int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each worker gets its own resolver so every request hits the
			// store instead of a warm cache.
			r := NewResolver(store, nil)
			id, err := r.Resolve(context.Background(), DimCryptoAsset, "BTC", Attributes{"name": "Bitcoin"})
			if err != nil {
				t.Errorf("Resolve() error: %v", err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	if got := store.DimensionCount(DimCryptoAsset); got != 1 {
		t.Fatalf("dimension count = %d, want exactly 1 under concurrency", got)
	}
	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("ids diverged: %v", ids)
		}
	}
}

func TestResolveRefreshesAttributes(t *testing.T) {
	store := NewMemoryStore()

	r1 := NewResolver(store, nil)
	if _, err := r1.Resolve(context.Background(), DimCompany, "AAPL", Attributes{"name": "Apple"}); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	// A later run sees the existing row and refreshes its attributes.
	r2 := NewResolver(store, nil)
	if _, err := r2.Resolve(context.Background(), DimCompany, "AAPL", Attributes{"name": "Apple Inc", "sector": "TECHNOLOGY"}); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if name, _ := store.DimensionAttr(DimCompany, "AAPL", "name"); name != "Apple Inc" {
		t.Errorf("name attr = %q, want refreshed %q", name, "Apple Inc")
	}
	if sector, _ := store.DimensionAttr(DimCompany, "AAPL", "sector"); sector != "TECHNOLOGY" {
		t.Errorf("sector attr = %q, want %q", sector, "TECHNOLOGY")
	}
	if got := store.DimensionCount(DimCompany); got != 1 {
		t.Errorf("dimension count = %d, want 1", got)
	}
}

func TestResolveIgnoresUnknownAttributes(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store, nil)

	if _, err := r.Resolve(context.Background(), DimCompany, "AAPL", Attributes{"name": "Apple", "favorite_color": "blue"}); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if _, ok := store.DimensionAttr(DimCompany, "AAPL", "favorite_color"); ok {
		t.Error("unknown attribute should not be stored")
	}
}

func TestResolveEmptyKey(t *testing.T) {
	r := NewResolver(NewMemoryStore(), nil)
	if _, err := r.Resolve(context.Background(), DimCompany, "", nil); err == nil {
		t.Fatal("Resolve() expected error for empty key")
	}
}

func TestResolveDate(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store, nil)

	// Timestamps on the same calendar day map to one row.
	morning := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC)

	id1, err := r.ResolveDate(context.Background(), morning)
	if err != nil {
		t.Fatalf("ResolveDate() error: %v", err)
	}
	id2, err := r.ResolveDate(context.Background(), evening)
	if err != nil {
		t.Fatalf("ResolveDate() error: %v", err)
	}
	if id1 != id2 {
		t.Errorf("same day resolved to different ids: %d vs %d", id1, id2)
	}
}

func TestResolveDateZero(t *testing.T) {
	r := NewResolver(NewMemoryStore(), nil)
	if _, err := r.ResolveDate(context.Background(), time.Time{}); err == nil {
		t.Fatal("ResolveDate() expected error for zero date")
	}
}
