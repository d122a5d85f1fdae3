package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/ypelletier/tally/pkg/config"
	"github.com/ypelletier/tally/pkg/models"
)

func rateServer(t *testing.T, rates map[string]string, calls map[string]int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date := strings.TrimPrefix(r.URL.Path, "/")
		if calls != nil {
			calls[date]++
		}
		rate, ok := rates[date]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"rates":{"CAD":%s}}`, rate)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestProcessor(t *testing.T, extension, providerURL string) *Processor {
	t.Helper()
	cfg := &config.Config{
		Extension:   extension,
		ProviderURL: providerURL,
		Timeout:     time.Second,
	}
	p, err := NewProcessor(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func writeDoc(t *testing.T, folder, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(folder, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func checkSet(t *testing.T, name string, got decimal.NullDecimal, want string) {
	t.Helper()
	if !got.Valid {
		t.Fatalf("%s: not set, want %s", name, want)
	}
	if w := decimal.RequireFromString(want); !got.Decimal.Equal(w) {
		t.Errorf("%s = %s, want %s", name, got.Decimal, w)
	}
}

func checkAbsent(t *testing.T, name string, got decimal.NullDecimal) {
	t.Helper()
	if got.Valid {
		t.Errorf("%s = %s, want absent", name, got.Decimal)
	}
}

func TestRunMixedCurrencies(t *testing.T) {
	srv := rateServer(t, map[string]string{"2025-01-01": "1.35"}, nil)
	folder := t.TempDir()
	writeDoc(t, folder, "2025-01-01.txt", "Invoice\nTotal Amount (USD): $100.00\n")
	writeDoc(t, folder, "2025-01-01 (2).txt", "Invoice\nTotal Amount (CAD) 50.00\n")

	p := newTestProcessor(t, "txt", srv.URL)
	result, err := p.Run(context.Background(), folder)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantKeys := []string{"2025-01-01", "2025-01-01 (2)"}
	if got := result.Keys(); len(got) != 2 || got[0] != wantKeys[0] || got[1] != wantKeys[1] {
		t.Fatalf("Keys() = %v, want %v", got, wantKeys)
	}

	usd := result.Conversions["2025-01-01"]
	checkSet(t, "usd record USD", usd.USD, "100.00")
	checkSet(t, "usd record rate", usd.Rate, "1.35")
	checkSet(t, "usd record CAD", usd.CAD, "135.00")
	checkSet(t, "usd record amount", usd.Amount, "135.00")

	cad := result.Conversions["2025-01-01 (2)"]
	checkAbsent(t, "cad record USD", cad.USD)
	checkAbsent(t, "cad record rate", cad.Rate)
	checkSet(t, "cad record CAD", cad.CAD, "50.00")
	checkSet(t, "cad record amount", cad.Amount, "50.00")

	want := Stats{FilesFound: 2, Extracted: 2}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}
}

func TestRunSkipsByReason(t *testing.T) {
	srv := rateServer(t, nil, nil)
	folder := t.TempDir()
	writeDoc(t, folder, "README.txt", "Total Amount (CAD): $1.00\n")
	writeDoc(t, folder, "2025-03-05.txt", "nothing labeled in here\n")
	writeDoc(t, folder, "2025-03-06.txt", "Total Amount (CAD): $5.00\n")

	p := newTestProcessor(t, "txt", srv.URL)
	result, err := p.Run(context.Background(), folder)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := Stats{FilesFound: 3, Extracted: 1, SkippedName: 1, SkippedNoAmount: 1}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}
	if len(result.Extractions) != 1 {
		t.Fatalf("len(Extractions) = %d, want 1", len(result.Extractions))
	}
	if _, ok := result.Extractions["2025-03-06"]; !ok {
		t.Errorf("missing record for surviving file, have %v", result.Keys())
	}
}

func TestRunCountsUnreadableDocuments(t *testing.T) {
	srv := rateServer(t, nil, nil)
	folder := t.TempDir()
	writeDoc(t, folder, "2025-03-07.xls", "not a spreadsheet at all")

	p := newTestProcessor(t, "xls", srv.URL)
	result, err := p.Run(context.Background(), folder)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := Stats{FilesFound: 1, SkippedUnreadable: 1}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}
}

func TestRunMissingFolder(t *testing.T) {
	srv := rateServer(t, nil, nil)
	p := newTestProcessor(t, "txt", srv.URL)

	result, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesFound != 0 || len(result.Extractions) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestRunEmptyFolder(t *testing.T) {
	srv := rateServer(t, nil, nil)
	p := newTestProcessor(t, "txt", srv.URL)

	result, err := p.Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesFound != 0 || len(result.Extractions) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestRunDuplicateKeyLastWins(t *testing.T) {
	srv := rateServer(t, nil, nil)
	folder := t.TempDir()
	// "2025-01-02 (1).txt" sorts before "2025-01-02.txt" and both share the
	// canonical key, so the bare-dated file is processed second and wins.
	writeDoc(t, folder, "2025-01-02 (1).txt", "Total Amount (USD): $10.00\n")
	writeDoc(t, folder, "2025-01-02.txt", "Total Amount (CAD): $30.00\n")

	p := newTestProcessor(t, "txt", srv.URL)
	result, err := p.Run(context.Background(), folder)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Extractions) != 1 {
		t.Fatalf("len(Extractions) = %d, want 1", len(result.Extractions))
	}
	ex := result.Extractions["2025-01-02"]
	if ex.Fact.Currency != models.CAD || !ex.Fact.Amount.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("surviving fact = %s %s, want 30 CAD", ex.Fact.Amount, ex.Fact.Currency)
	}

	want := Stats{FilesFound: 2, Extracted: 2, Duplicates: 1}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}
}

func TestRunKeepsUSDWhenRateUnavailable(t *testing.T) {
	srv := rateServer(t, nil, nil)
	folder := t.TempDir()
	writeDoc(t, folder, "2025-04-01.txt", "Total Amount (USD): $75.50\n")

	p := newTestProcessor(t, "txt", srv.URL)
	result, err := p.Run(context.Background(), folder)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	conv := result.Conversions["2025-04-01"]
	checkSet(t, "USD", conv.USD, "75.50")
	checkAbsent(t, "CAD", conv.CAD)
	checkAbsent(t, "amount", conv.Amount)
	checkAbsent(t, "rate", conv.Rate)

	if result.Stats.RatesUnavailable != 1 {
		t.Errorf("RatesUnavailable = %d, want 1", result.Stats.RatesUnavailable)
	}
}

func TestRunSharesRateCacheAcrossFolders(t *testing.T) {
	calls := make(map[string]int)
	srv := rateServer(t, map[string]string{"2025-01-15": "1.40"}, calls)

	p := newTestProcessor(t, "txt", srv.URL)
	for i := 0; i < 2; i++ {
		folder := t.TempDir()
		writeDoc(t, folder, "2025-01-15.txt", "Total Amount (USD): $20.00\n")
		if _, err := p.Run(context.Background(), folder); err != nil {
			t.Fatalf("Run() %d error = %v", i, err)
		}
	}

	if calls["2025-01-15"] != 1 {
		t.Errorf("provider called %d times, want 1", calls["2025-01-15"])
	}
}

func TestNewProcessorRejectsUnsupportedExtension(t *testing.T) {
	cfg := &config.Config{Extension: "docx", ProviderURL: "http://localhost", Timeout: time.Second}
	if _, err := NewProcessor(cfg, log.New(io.Discard)); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
