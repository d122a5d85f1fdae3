package service

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/ypelletier/tally/pkg/models"
)

// Stats counts what happened to every candidate file during one run.
type Stats struct {
	FilesFound        int
	Extracted         int
	SkippedName       int
	SkippedNoAmount   int
	SkippedUnreadable int
	Duplicates        int
	RatesUnavailable  int
}

// Result is everything one folder scan produced: extractions and their CAD
// normalizations keyed by canonical file key, plus the run counters.
type Result struct {
	Folder      string
	Extractions map[string]models.Extraction
	Conversions map[string]models.Conversion
	Stats       Stats
}

func newResult(folder string) *Result {
	return &Result{
		Folder:      folder,
		Extractions: make(map[string]models.Extraction),
		Conversions: make(map[string]models.Conversion),
	}
}

// Keys returns the canonical keys in ascending string order, the order every
// report renders rows in.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Extractions))
	for key := range r.Extractions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// CurrencyTotal is the sum of extracted amounts in one original currency,
// before any normalization.
type CurrencyTotal struct {
	Currency models.Currency
	Total    decimal.Decimal
}

// CurrencyTotals sums the original amounts per currency, ordered by currency
// code.
func (r *Result) CurrencyTotals() []CurrencyTotal {
	byCurrency := make(map[models.Currency]decimal.Decimal)
	for _, ex := range r.Extractions {
		byCurrency[ex.Fact.Currency] = byCurrency[ex.Fact.Currency].Add(ex.Fact.Amount)
	}

	totals := make([]CurrencyTotal, 0, len(byCurrency))
	for currency, total := range byCurrency {
		totals = append(totals, CurrencyTotal{Currency: currency, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })
	return totals
}

// DailyTotal is the sum of extracted amounts sharing one settlement date and
// original currency, before any normalization.
type DailyTotal struct {
	Date     string
	Currency models.Currency
	Total    decimal.Decimal
}

// DailyTotals sums the original amounts per date and currency, ordered by
// date then currency.
func (r *Result) DailyTotals() []DailyTotal {
	type group struct {
		date     string
		currency models.Currency
	}
	byGroup := make(map[group]decimal.Decimal)
	for _, ex := range r.Extractions {
		g := group{date: ex.Key.Date, currency: ex.Fact.Currency}
		byGroup[g] = byGroup[g].Add(ex.Fact.Amount)
	}

	totals := make([]DailyTotal, 0, len(byGroup))
	for g, total := range byGroup {
		totals = append(totals, DailyTotal{Date: g.date, Currency: g.currency, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Date != totals[j].Date {
			return totals[i].Date < totals[j].Date
		}
		return totals[i].Currency < totals[j].Currency
	})
	return totals
}
