package rates

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

type entry struct {
	rate decimal.Decimal
	ok   bool
}

// Cache memoizes per-date lookups from an underlying provider. Failures are
// cached as well, so an unreachable date is asked about only once per run.
type Cache struct {
	provider Provider
	entries  map[string]entry
	logger   *log.Logger
}

// NewCache creates an empty cache over the given provider.
func NewCache(provider Provider, logger *log.Logger) *Cache {
	return &Cache{
		provider: provider,
		entries:  make(map[string]entry),
		logger:   logger,
	}
}

// RateFor returns the USD to CAD rate for a date, or false when the provider
// could not supply one this run.
func (c *Cache) RateFor(ctx context.Context, date string) (decimal.Decimal, bool) {
	if e, ok := c.entries[date]; ok {
		return e.rate, e.ok
	}

	rate, err := c.provider.RateFor(ctx, date)
	if err != nil {
		c.logger.Warn("exchange rate unavailable", "date", date, "error", err)
		c.entries[date] = entry{}
		return decimal.Decimal{}, false
	}

	c.logger.Debug("exchange rate fetched", "date", date, "rate", rate)
	c.entries[date] = entry{rate: rate, ok: true}
	return rate, true
}
