package warehouse

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memDimRow struct {
	id    int64
	key   string
	attrs Attributes
}

type factKey struct {
	subjectID int64
	dateID    int64
	sourceID  int64
}

// MemoryStore is an in-memory Store with the same uniqueness semantics as
// the Postgres implementation: natural keys are unique per dimension type,
// composite (subject, date, source) keys unique per fact table. All
// operations are guarded by one mutex, so a concurrent duplicate insert
// fails with ErrDimensionExists exactly like a constraint violation would.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64

	dims    map[DimensionType]map[string]*memDimRow
	dimByID map[DimensionType]map[int64]*memDimRow

	dates   map[time.Time]int64
	dayByID map[int64]time.Time

	priceFacts map[FactTable]map[factKey]PriceFact
	obsFacts   map[FactTable]map[factKey]ObservationFact
	filings    map[string]FilingFact
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		dims:       make(map[DimensionType]map[string]*memDimRow),
		dimByID:    make(map[DimensionType]map[int64]*memDimRow),
		dates:      make(map[time.Time]int64),
		dayByID:    make(map[int64]time.Time),
		priceFacts: make(map[FactTable]map[factKey]PriceFact),
		obsFacts:   make(map[FactTable]map[factKey]ObservationFact),
		filings:    make(map[string]FilingFact),
	}
}

// Init is a no-op; the maps are the schema.
func (s *MemoryStore) Init(ctx context.Context) error { return nil }

func (s *MemoryStore) LookupDimension(ctx context.Context, typ DimensionType, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.dims[typ][key]
	if !ok {
		return 0, false, nil
	}
	return row.id, true, nil
}

func (s *MemoryStore) InsertDimension(ctx context.Context, typ DimensionType, key string, attrs Attributes) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dims[typ][key]; ok {
		return 0, ErrDimensionExists
	}

	if s.dims[typ] == nil {
		s.dims[typ] = make(map[string]*memDimRow)
		s.dimByID[typ] = make(map[int64]*memDimRow)
	}

	s.nextID++
	row := &memDimRow{id: s.nextID, key: key, attrs: filterAttrs(typ, attrs)}
	s.dims[typ][key] = row
	s.dimByID[typ][row.id] = row
	return row.id, nil
}

func (s *MemoryStore) RefreshDimension(ctx context.Context, typ DimensionType, id int64, attrs Attributes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.dimByID[typ][id]
	if !ok {
		return nil
	}
	for k, v := range filterAttrs(typ, attrs) {
		row.attrs[k] = v
	}
	return nil
}

func (s *MemoryStore) LookupDate(ctx context.Context, day time.Time) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.dates[day]
	return id, ok, nil
}

func (s *MemoryStore) InsertDate(ctx context.Context, row DateRow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertDateLocked(row)
}

func (s *MemoryStore) InsertDates(ctx context.Context, rows []DateRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		if _, ok := s.dates[row.Day]; ok {
			continue
		}
		if _, err := s.insertDateLocked(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) insertDateLocked(row DateRow) (int64, error) {
	if _, ok := s.dates[row.Day]; ok {
		return 0, ErrDimensionExists
	}
	s.nextID++
	s.dates[row.Day] = s.nextID
	s.dayByID[s.nextID] = row.Day
	return s.nextID, nil
}

func (s *MemoryStore) UpsertPriceFact(ctx context.Context, table FactTable, fact PriceFact) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.priceFacts[table] == nil {
		s.priceFacts[table] = make(map[factKey]PriceFact)
	}

	k := factKey{subjectID: fact.SubjectID, dateID: fact.DateID, sourceID: fact.SourceID}
	_, existed := s.priceFacts[table][k]
	s.priceFacts[table][k] = fact
	if existed {
		return Updated, nil
	}
	return Inserted, nil
}

func (s *MemoryStore) UpsertObservationFact(ctx context.Context, table FactTable, fact ObservationFact) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.obsFacts[table] == nil {
		s.obsFacts[table] = make(map[factKey]ObservationFact)
	}

	k := factKey{subjectID: fact.SubjectID, dateID: fact.DateID, sourceID: fact.SourceID}
	_, existed := s.obsFacts[table][k]
	s.obsFacts[table][k] = fact
	if existed {
		return Updated, nil
	}
	return Inserted, nil
}

func (s *MemoryStore) UpsertFilingFact(ctx context.Context, fact FilingFact) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.filings[fact.AccessionNumber]
	s.filings[fact.AccessionNumber] = fact
	if existed {
		return Updated, nil
	}
	return Inserted, nil
}

func (s *MemoryStore) PriorMeasure(ctx context.Context, table FactTable, subjectID, sourceID int64, before time.Time) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		best    decimal.Decimal
		bestDay time.Time
		found   bool
	)

	if priceFactTables[table] {
		for k, fact := range s.priceFacts[table] {
			if k.subjectID != subjectID || k.sourceID != sourceID {
				continue
			}
			day, ok := s.dayByID[k.dateID]
			if !ok || !day.Before(before) {
				continue
			}
			if !found || day.After(bestDay) {
				best, bestDay, found = fact.Close, day, true
			}
		}
	} else {
		for k, fact := range s.obsFacts[table] {
			if k.subjectID != subjectID || k.sourceID != sourceID {
				continue
			}
			day, ok := s.dayByID[k.dateID]
			if !ok || !day.Before(before) {
				continue
			}
			if !found || day.After(bestDay) {
				best, bestDay, found = fact.Value, day, true
			}
		}
	}

	return best, found, nil
}

// DimensionCount returns the number of rows for a dimension type.
func (s *MemoryStore) DimensionCount(typ DimensionType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dims[typ])
}

// FactCount returns the number of rows in a fact table.
func (s *MemoryStore) FactCount(table FactTable) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if table == FactSECFiling {
		return len(s.filings)
	}
	if priceFactTables[table] {
		return len(s.priceFacts[table])
	}
	return len(s.obsFacts[table])
}

// PriceFactAt returns the stored price fact for a composite key.
func (s *MemoryStore) PriceFactAt(table FactTable, subjectID, dateID, sourceID int64) (PriceFact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fact, ok := s.priceFacts[table][factKey{subjectID: subjectID, dateID: dateID, sourceID: sourceID}]
	return fact, ok
}

// DimensionAttr returns one descriptive attribute of a dimension row.
func (s *MemoryStore) DimensionAttr(typ DimensionType, key, attr string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.dims[typ][key]
	if !ok {
		return "", false
	}
	v, ok := row.attrs[attr]
	return v, ok
}

// filterAttrs drops attributes that are not whitelisted columns for the type.
func filterAttrs(typ DimensionType, attrs Attributes) Attributes {
	allowed := dimAttrColumns[typ]
	out := make(Attributes, len(attrs))
	for _, col := range allowed {
		if v, ok := attrs[col]; ok && v != "" {
			out[col] = v
		}
	}
	return out
}
