package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/leonberkemeier/financial-data-pipeline/internal/provider"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
	"github.com/shopspring/decimal"
)

func testDeps(store *warehouse.MemoryStore) Deps {
	return Deps{
		Resolver:     warehouse.NewResolver(store, nil),
		Upserter:     warehouse.NewUpserter(store, nil),
		MinPassRatio: 0.8,
	}
}

func dec(s string) decimal.NullDecimal {
	d, _ := decimal.NewFromString(s)
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

type fakeStockSource struct {
	bars map[string][]model.PriceBar
	info map[string]provider.CompanyInfo
	err  error
}

func (f *fakeStockSource) Name() string { return "alphavantage" }

func (f *fakeStockSource) Daily(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bars[symbol], nil
}

func (f *fakeStockSource) Overview(ctx context.Context, symbol string) (provider.CompanyInfo, error) {
	if f.err != nil {
		return provider.CompanyInfo{}, f.err
	}
	return f.info[symbol], nil
}

func appleBars() []model.PriceBar {
	return []model.PriceBar{
		{
			Symbol: "AAPL",
			Date:   day("2024-01-02"),
			Open:   dec("186.06"), High: dec("186.74"), Low: dec("184.86"),
			Close: dec("185.64"), AdjClose: dec("184.92"), Volume: 82488700,
		},
		{
			Symbol: "AAPL",
			Date:   day("2024-01-03"),
			Open:   dec("184.35"), High: dec("185.88"), Low: dec("183.43"),
			Close: dec("184.25"), AdjClose: dec("183.54"), Volume: 58414500,
		},
	}
}

func TestStocksPipelineLoadsFacts(t *testing.T) {
	store := warehouse.NewMemoryStore()
	source := &fakeStockSource{
		bars: map[string][]model.PriceBar{"AAPL": appleBars()},
		info: map[string]provider.CompanyInfo{"AAPL": {
			Name: "Apple Inc", Exchange: "NASDAQ", Sector: "TECHNOLOGY", Country: "USA",
		}},
	}

	p := NewStocks(testDeps(store), source, []string{"AAPL"}, 30)
	res := p.Run(context.Background())

	if res.Status != StatusSucceeded {
		t.Fatalf("status = %v, err = %s", res.Status, res.Err)
	}
	if res.Extracted != 2 || res.Accepted != 2 || res.Loaded != 2 || res.Inserted != 2 {
		t.Errorf("unexpected counts: %+v", res)
	}

	if got := store.FactCount(warehouse.FactStockPrice); got != 2 {
		t.Errorf("fact count = %d, want 2", got)
	}
	if got := store.DimensionCount(warehouse.DimCompany); got != 1 {
		t.Errorf("company count = %d, want 1", got)
	}
	if got := store.DimensionCount(warehouse.DimExchange); got != 1 {
		t.Errorf("exchange count = %d, want 1", got)
	}
	if got := store.DimensionCount(warehouse.DimDataSource); got != 1 {
		t.Errorf("source count = %d, want 1", got)
	}
	if sector, _ := store.DimensionAttr(warehouse.DimCompany, "AAPL", "sector"); sector != "TECHNOLOGY" {
		t.Errorf("sector attr = %q, want TECHNOLOGY", sector)
	}
}

func TestStocksPipelineRerunIsIdempotent(t *testing.T) {
	store := warehouse.NewMemoryStore()
	source := &fakeStockSource{
		bars: map[string][]model.PriceBar{"AAPL": appleBars()},
		info: map[string]provider.CompanyInfo{"AAPL": {Name: "Apple Inc"}},
	}
	deps := testDeps(store)

	first := NewStocks(deps, source, []string{"AAPL"}, 30).Run(context.Background())
	if first.Status != StatusSucceeded {
		t.Fatalf("first run failed: %s", first.Err)
	}

	// A fresh pipeline over the same warehouse re-loads the same facts.
	second := NewStocks(testDeps(store), source, []string{"AAPL"}, 30).Run(context.Background())
	if second.Status != StatusSucceeded {
		t.Fatalf("second run failed: %s", second.Err)
	}
	if second.Inserted != 0 || second.Updated != 2 {
		t.Errorf("second run inserted=%d updated=%d, want 0/2", second.Inserted, second.Updated)
	}
	if got := store.FactCount(warehouse.FactStockPrice); got != 2 {
		t.Errorf("fact count = %d, want 2 after re-run", got)
	}
	if got := store.DimensionCount(warehouse.DimCompany); got != 1 {
		t.Errorf("company count = %d, want 1 after re-run", got)
	}
}

func TestStocksPipelineFetchFailure(t *testing.T) {
	store := warehouse.NewMemoryStore()
	source := &fakeStockSource{err: errors.New("boom")}

	res := NewStocks(testDeps(store), source, []string{"AAPL"}, 30).Run(context.Background())
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if !strings.Contains(res.Err, "fetch AAPL") {
		t.Errorf("err = %q, want fetch context", res.Err)
	}
	if got := store.FactCount(warehouse.FactStockPrice); got != 0 {
		t.Errorf("fact count = %d, want 0 on failure", got)
	}
}

func TestStocksPipelineGateBlocksBadBatch(t *testing.T) {
	bad := appleBars()
	// Corrupt one of two rows: pass ratio 0.5 falls below the 0.8 minimum.
	bad[1].Low = dec("999")

	store := warehouse.NewMemoryStore()
	source := &fakeStockSource{
		bars: map[string][]model.PriceBar{"AAPL": bad},
		info: map[string]provider.CompanyInfo{"AAPL": {Name: "Apple Inc"}},
	}

	res := NewStocks(testDeps(store), source, []string{"AAPL"}, 30).Run(context.Background())
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if !strings.Contains(res.Err, "quality gate") {
		t.Errorf("err = %q, want quality gate reason", res.Err)
	}
	if res.Rejected != 1 {
		t.Errorf("rejected = %d, want 1", res.Rejected)
	}
	if got := store.FactCount(warehouse.FactStockPrice); got != 0 {
		t.Errorf("fact count = %d, want 0 when batch blocked", got)
	}
}

func TestStocksPipelineDefaultPolicyLoadsPassingRows(t *testing.T) {
	bad := appleBars()
	bad[1].Low = dec("999")

	store := warehouse.NewMemoryStore()
	source := &fakeStockSource{
		bars: map[string][]model.PriceBar{"AAPL": bad},
		info: map[string]provider.CompanyInfo{"AAPL": {Name: "Apple Inc"}},
	}

	// No MinPassRatio set: whatever passed is loaded, the batch only fails
	// when every row is rejected.
	deps := Deps{
		Resolver: warehouse.NewResolver(store, nil),
		Upserter: warehouse.NewUpserter(store, nil),
	}

	res := NewStocks(deps, source, []string{"AAPL"}, 30).Run(context.Background())
	if res.Status != StatusSucceeded {
		t.Fatalf("status = %v, err = %s", res.Status, res.Err)
	}
	if res.Accepted != 1 || res.Rejected != 1 || res.Loaded != 1 {
		t.Errorf("unexpected counts: %+v", res)
	}
	if got := store.FactCount(warehouse.FactStockPrice); got != 1 {
		t.Errorf("fact count = %d, want 1", got)
	}
}

func TestStocksPipelineAllRowsRejectedFails(t *testing.T) {
	bad := appleBars()
	bad[0].Low = dec("999")
	bad[1].Low = dec("999")

	store := warehouse.NewMemoryStore()
	source := &fakeStockSource{
		bars: map[string][]model.PriceBar{"AAPL": bad},
		info: map[string]provider.CompanyInfo{"AAPL": {Name: "Apple Inc"}},
	}

	deps := Deps{
		Resolver: warehouse.NewResolver(store, nil),
		Upserter: warehouse.NewUpserter(store, nil),
	}

	res := NewStocks(deps, source, []string{"AAPL"}, 30).Run(context.Background())
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed when every row is rejected", res.Status)
	}
	if !strings.Contains(res.Err, "rejected all rows") {
		t.Errorf("err = %q", res.Err)
	}
	if got := store.FactCount(warehouse.FactStockPrice); got != 0 {
		t.Errorf("fact count = %d, want 0", got)
	}
}

type fakeFilingSource struct {
	filings map[string][]model.Filing
}

func (f *fakeFilingSource) Name() string { return "edgar" }

func (f *fakeFilingSource) RecentFilings(ctx context.Context, cik string, forms []string) ([]model.Filing, error) {
	return f.filings[cik], nil
}

func TestFilingsPipeline(t *testing.T) {
	store := warehouse.NewMemoryStore()
	source := &fakeFilingSource{filings: map[string][]model.Filing{
		"320193": {
			{
				CIK: "320193", CompanyName: "Apple Inc.", Ticker: "AAPL",
				FormType: "10-Q", AccessionNumber: "0000320193-24-000006",
				FilingDate: day("2024-02-02"), SizeBytes: 11741908,
			},
			{
				CIK: "320193", CompanyName: "Apple Inc.", Ticker: "AAPL",
				FormType: "8-K", AccessionNumber: "0000320193-24-000004",
				FilingDate: day("2024-01-25"),
			},
		},
	}}

	p := NewFilings(testDeps(store), source, []string{"320193"}, []string{"10-Q", "8-K"})
	res := p.Run(context.Background())

	if res.Status != StatusSucceeded {
		t.Fatalf("status = %v, err = %s", res.Status, res.Err)
	}
	if res.Loaded != 2 || res.Inserted != 2 {
		t.Errorf("unexpected counts: %+v", res)
	}
	if got := store.FactCount(warehouse.FactSECFiling); got != 2 {
		t.Errorf("filing count = %d, want 2", got)
	}
	// Company keyed by ticker, filing types each get a row.
	if got := store.DimensionCount(warehouse.DimCompany); got != 1 {
		t.Errorf("company count = %d, want 1", got)
	}
	if got := store.DimensionCount(warehouse.DimFilingType); got != 2 {
		t.Errorf("filing type count = %d, want 2", got)
	}
	if name, _ := store.DimensionAttr(warehouse.DimCompany, "AAPL", "name"); name != "Apple Inc." {
		t.Errorf("company name attr = %q", name)
	}
}

func TestFilingsPipelineUnlistedCompanyKeyedByCIK(t *testing.T) {
	store := warehouse.NewMemoryStore()
	source := &fakeFilingSource{filings: map[string][]model.Filing{
		"99": {{
			CIK: "99", CompanyName: "Private Holdings LLC",
			FormType: "8-K", AccessionNumber: "0000000099-24-000001",
			FilingDate: day("2024-03-01"),
		}},
	}}

	res := NewFilings(testDeps(store), source, []string{"99"}, nil).Run(context.Background())
	if res.Status != StatusSucceeded {
		t.Fatalf("status = %v, err = %s", res.Status, res.Err)
	}
	if _, ok := store.DimensionAttr(warehouse.DimCompany, "99", "name"); !ok {
		t.Error("company without ticker should be keyed by CIK")
	}
}

type fakeBondSource struct {
	points []model.ObservationPoint
}

func (f *fakeBondSource) Name() string { return "fred" }

func (f *fakeBondSource) TreasuryYields(ctx context.Context, maturities []string, start, end time.Time) ([]model.ObservationPoint, error) {
	return f.points, nil
}

func TestBondsPipeline(t *testing.T) {
	store := warehouse.NewMemoryStore()
	source := &fakeBondSource{points: []model.ObservationPoint{
		{SeriesID: "DGS10", Name: "US Treasury 10-Year", Maturity: "10Y", Units: "percent", Date: day("2024-01-02"), Value: dec("3.95")},
		{SeriesID: "DGS10", Name: "US Treasury 10-Year", Maturity: "10Y", Units: "percent", Date: day("2024-01-03"), Value: dec("3.91")},
	}}

	res := NewBonds(testDeps(store), source, []string{"10Y"}, 30).Run(context.Background())
	if res.Status != StatusSucceeded {
		t.Fatalf("status = %v, err = %s", res.Status, res.Err)
	}
	if got := store.FactCount(warehouse.FactBondYield); got != 2 {
		t.Errorf("fact count = %d, want 2", got)
	}
	if maturity, _ := store.DimensionAttr(warehouse.DimBond, "DGS10", "maturity"); maturity != "10Y" {
		t.Errorf("maturity attr = %q, want 10Y", maturity)
	}
}

func TestRunCapturesPanic(t *testing.T) {
	res := run(context.Background(), panicRunner{})
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if !strings.Contains(res.Err, "panic:") {
		t.Errorf("err = %q, want captured panic", res.Err)
	}
}

type panicRunner struct{}

func (panicRunner) Name() string { return "panicky" }

func (panicRunner) execute(ctx context.Context, res *Result) error {
	panic("unexpected provider payload")
}
