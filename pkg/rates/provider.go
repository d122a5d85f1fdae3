// Package rates resolves USD to CAD exchange rates by settlement date. A
// Cache wraps the HTTP provider so each date is fetched at most once per
// run, whether the lookup succeeds or fails.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Provider resolves the USD to CAD rate effective on a date (YYYY-MM-DD).
type Provider interface {
	RateFor(ctx context.Context, date string) (decimal.Decimal, error)
}

// Frankfurter fetches historical rates from a Frankfurter-compatible API.
type Frankfurter struct {
	baseURL string
	client  *http.Client
}

// NewFrankfurter creates a provider against the given base URL.
func NewFrankfurter(baseURL string, timeout time.Duration) *Frankfurter {
	return &Frankfurter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *Frankfurter) RateFor(ctx context.Context, date string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s?from=USD&to=CAD", f.baseURL, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error building rate request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error fetching rate for %s: %w", date, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("rate lookup for %s returned status %d", date, resp.StatusCode)
	}

	var payload struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("error decoding rate response: %w", err)
	}

	rate, ok := payload.Rates["CAD"]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("rate response for %s has no CAD rate", date)
	}
	return rate, nil
}
