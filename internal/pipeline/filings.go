package pipeline

import (
	"context"
	"fmt"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
	"github.com/leonberkemeier/financial-data-pipeline/internal/quality"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
)

// FilingSource provides recent SEC filing indexes.
type FilingSource interface {
	Name() string
	RecentFilings(ctx context.Context, cik string, forms []string) ([]model.Filing, error)
}

// Filings loads SEC filing records into fact_sec_filing.
type Filings struct {
	deps   Deps
	source FilingSource
	ciks   []string
	forms  []string
}

// NewFilings creates the SEC filing pipeline.
func NewFilings(deps Deps, source FilingSource, ciks, forms []string) *Filings {
	return &Filings{deps: deps, source: source, ciks: ciks, forms: forms}
}

func (p *Filings) Name() string { return "filings" }

// Run executes fetch -> gate -> resolve -> upsert for all configured companies.
func (p *Filings) Run(ctx context.Context) Result { return run(ctx, p) }

func (p *Filings) execute(ctx context.Context, res *Result) error {
	var filings []model.Filing
	for _, cik := range p.ciks {
		companyFilings, err := p.source.RecentFilings(ctx, cik, p.forms)
		if err != nil {
			return fmt.Errorf("fetch filings for CIK %s: %w", cik, err)
		}
		filings = append(filings, companyFilings...)
	}

	accepted, err := applyGate(p.deps, quality.FilingRules(), filings, res)
	if err != nil {
		return err
	}

	sourceID, err := p.deps.Resolver.Resolve(ctx, warehouse.DimDataSource, p.source.Name(), warehouse.Attributes{"source_type": "API"})
	if err != nil {
		return err
	}

	for _, filing := range accepted {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Companies are keyed by ticker when EDGAR knows one, falling back
		// to the CIK for unlisted filers.
		companyKey := filing.Ticker
		if companyKey == "" {
			companyKey = filing.CIK
		}
		companyID, err := p.deps.Resolver.Resolve(ctx, warehouse.DimCompany, companyKey, warehouse.Attributes{"name": filing.CompanyName})
		if err != nil {
			return err
		}

		typeID, err := p.deps.Resolver.Resolve(ctx, warehouse.DimFilingType, filing.FormType, nil)
		if err != nil {
			return err
		}

		dateID, err := p.deps.Resolver.ResolveDate(ctx, filing.FilingDate)
		if err != nil {
			return err
		}

		loaded, err := p.deps.Upserter.UpsertFiling(ctx, warehouse.FilingFact{
			CompanyID:       companyID,
			FilingTypeID:    typeID,
			DateID:          dateID,
			SourceID:        sourceID,
			CIK:             filing.CIK,
			AccessionNumber: filing.AccessionNumber,
			FileURL:         filing.FileURL,
			SizeBytes:       filing.SizeBytes,
		})
		if err != nil {
			return err
		}

		res.Loaded++
		if loaded == warehouse.Inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	return nil
}
