package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/leonberkemeier/financial-data-pipeline/internal/model"
)

// archivesBaseURL is where filing documents live; the submissions index is
// served from a different host (data.sec.gov, the client base URL).
const archivesBaseURL = "https://www.sec.gov/Archives/edgar/data"

// EDGAR fetches company filing indexes from SEC EDGAR. The SEC requires a
// descriptive User-Agent identifying the caller.
type EDGAR struct {
	c         *Client
	userAgent string
}

// NewEDGAR wraps a rate-limited client for the EDGAR submissions API.
func NewEDGAR(c *Client, userAgent string) *EDGAR {
	return &EDGAR{c: c, userAgent: userAgent}
}

// Name returns the provenance name of the underlying client.
func (e *EDGAR) Name() string { return e.c.Name() }

type edgarSubmissionsResponse struct {
	CIK     any      `json:"cik"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
			Size            []int64  `json:"size"`
		} `json:"recent"`
	} `json:"filings"`
}

// RecentFilings fetches the recent filings index for one company and returns
// the filings matching the requested form types (all forms when empty).
func (e *EDGAR) RecentFilings(ctx context.Context, cik string, forms []string) ([]model.Filing, error) {
	padded, err := padCIK(cik)
	if err != nil {
		return nil, &PermanentError{Provider: e.c.name, Op: "recent filings", Err: err}
	}

	headers := http.Header{}
	headers.Set("User-Agent", e.userAgent)

	var resp edgarSubmissionsResponse
	path := "/submissions/CIK" + padded + ".json"
	if err := e.c.get(ctx, "recent filings "+cik, path, nil, headers, &resp); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(forms))
	for _, f := range forms {
		wanted[strings.ToUpper(f)] = true
	}

	recent := resp.Filings.Recent
	ticker := ""
	if len(resp.Tickers) > 0 {
		ticker = resp.Tickers[0]
	}

	// The recent block is parallel arrays; a truncated payload can leave
	// them ragged, so only the shared prefix is trusted.
	n := min(len(recent.AccessionNumber), len(recent.Form), len(recent.FilingDate), len(recent.PrimaryDocument))

	var filings []model.Filing
	for i := 0; i < n; i++ {
		form := recent.Form[i]
		if len(wanted) > 0 && !wanted[strings.ToUpper(form)] {
			continue
		}

		accession := recent.AccessionNumber[i]
		filing := model.Filing{
			CIK:             strings.TrimLeft(padded, "0"),
			CompanyName:     resp.Name,
			Ticker:          ticker,
			FormType:        form,
			AccessionNumber: accession,
			FilingDate:      model.ParseDay(recent.FilingDate[i]),
			FileURL:         filingURL(padded, accession, recent.PrimaryDocument[i]),
		}
		if i < len(recent.Size) {
			filing.SizeBytes = recent.Size[i]
		}
		filings = append(filings, filing)
	}

	return filings, nil
}

// padCIK left-pads a CIK number to the 10 digits the submissions API expects.
func padCIK(cik string) (string, error) {
	cik = strings.TrimSpace(cik)
	if cik == "" || len(cik) > 10 {
		return "", fmt.Errorf("invalid CIK %q", cik)
	}
	for _, r := range cik {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid CIK %q", cik)
		}
	}
	return strings.Repeat("0", 10-len(cik)) + cik, nil
}

// filingURL builds the archive URL of a filing's primary document.
func filingURL(paddedCIK, accession, primaryDoc string) string {
	cik := strings.TrimLeft(paddedCIK, "0")
	accessionPlain := strings.ReplaceAll(accession, "-", "")
	return fmt.Sprintf("%s/%s/%s/%s", archivesBaseURL, cik, accessionPlain, primaryDoc)
}
