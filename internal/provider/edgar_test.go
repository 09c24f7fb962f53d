package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPadCIK(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"320193", "0000320193", false},
		{"0000320193", "0000320193", false},
		{" 320193 ", "0000320193", false},
		{"", "", true},
		{"12345678901", "", true},
		{"32a193", "", true},
	}

	for _, tt := range tests {
		got, err := padCIK(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("padCIK(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("padCIK(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("padCIK(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilingURL(t *testing.T) {
	got := filingURL("0000320193", "0000320193-24-000006", "aapl-20231230.htm")
	want := "https://www.sec.gov/Archives/edgar/data/320193/000032019324000006/aapl-20231230.htm"
	if got != want {
		t.Errorf("filingURL() = %q, want %q", got, want)
	}
}

func TestRecentFilings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/submissions/CIK0000320193.json" {
			t.Errorf("path = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "data-pipeline admin@example.com" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte(`{
			"cik": 320193,
			"name": "Apple Inc.",
			"tickers": ["AAPL"],
			"filings": {"recent": {
				"accessionNumber": ["0000320193-24-000006", "0000320193-24-000005"],
				"filingDate": ["2024-02-02", "2024-01-15"],
				"form": ["10-Q", "4"],
				"primaryDocument": ["aapl-20231230.htm", "form4.xml"],
				"size": [11741908, 4991]
			}}
		}`))
	}))
	defer srv.Close()

	edgar := NewEDGAR(NewClient("edgar", srv.URL,
		WithRateLimit(time.Millisecond),
		WithRetries(0, time.Millisecond),
	), "data-pipeline admin@example.com")

	filings, err := edgar.RecentFilings(context.Background(), "320193", []string{"10-K", "10-Q"})
	if err != nil {
		t.Fatalf("RecentFilings() error: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("got %d filings, want 1 (form 4 filtered out)", len(filings))
	}

	f := filings[0]
	if f.CIK != "320193" || f.Ticker != "AAPL" || f.CompanyName != "Apple Inc." {
		t.Errorf("unexpected filing identity: %+v", f)
	}
	if f.FormType != "10-Q" || f.AccessionNumber != "0000320193-24-000006" {
		t.Errorf("unexpected filing record: %+v", f)
	}
	if f.SizeBytes != 11741908 {
		t.Errorf("size = %d, want 11741908", f.SizeBytes)
	}
	if f.FilingDate.Format("2006-01-02") != "2024-02-02" {
		t.Errorf("filing date = %v", f.FilingDate)
	}
}

func TestRecentFilingsNoFormFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "Example Corp",
			"tickers": [],
			"filings": {"recent": {
				"accessionNumber": ["0000000001-24-000001"],
				"filingDate": ["2024-03-01"],
				"form": ["8-K"],
				"primaryDocument": ["doc.htm"],
				"size": [100]
			}}
		}`))
	}))
	defer srv.Close()

	edgar := NewEDGAR(NewClient("edgar", srv.URL,
		WithRateLimit(time.Millisecond),
		WithRetries(0, time.Millisecond),
	), "data-pipeline admin@example.com")

	filings, err := edgar.RecentFilings(context.Background(), "1", nil)
	if err != nil {
		t.Fatalf("RecentFilings() error: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("got %d filings, want 1", len(filings))
	}
	if filings[0].Ticker != "" {
		t.Errorf("ticker = %q, want empty for unlisted filer", filings[0].Ticker)
	}
}

func TestRecentFilingsRaggedIndex(t *testing.T) {
	// Three accession numbers but only one complete entry across the other
	// parallel arrays; the incomplete tail must be dropped, not panic.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "Example Corp",
			"tickers": [],
			"filings": {"recent": {
				"accessionNumber": ["0000000001-24-000001", "0000000001-24-000002", "0000000001-24-000003"],
				"filingDate": ["2024-03-01", "2024-02-01"],
				"form": ["8-K"],
				"primaryDocument": ["doc.htm"],
				"size": []
			}}
		}`))
	}))
	defer srv.Close()

	edgar := NewEDGAR(NewClient("edgar", srv.URL,
		WithRateLimit(time.Millisecond),
		WithRetries(0, time.Millisecond),
	), "data-pipeline admin@example.com")

	filings, err := edgar.RecentFilings(context.Background(), "1", nil)
	if err != nil {
		t.Fatalf("RecentFilings() error: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("got %d filings, want 1", len(filings))
	}
	if filings[0].AccessionNumber != "0000000001-24-000001" {
		t.Errorf("accession = %q", filings[0].AccessionNumber)
	}
	if filings[0].SizeBytes != 0 {
		t.Errorf("size = %d, want 0 when absent", filings[0].SizeBytes)
	}
}

func TestRecentFilingsInvalidCIK(t *testing.T) {
	edgar := NewEDGAR(NewClient("edgar", "http://unused"), "ua")
	_, err := edgar.RecentFilings(context.Background(), "not-a-cik", nil)
	if !IsPermanent(err) {
		t.Errorf("error should be permanent, got %v", err)
	}
}
