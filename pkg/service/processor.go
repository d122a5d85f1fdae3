// Package service drives the scan pipeline: enumerate candidate files,
// extract and parse their labeled totals, then normalize everything to CAD
// through the rate cache.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ypelletier/tally/pkg/config"
	"github.com/ypelletier/tally/pkg/extractor"
	"github.com/ypelletier/tally/pkg/filekey"
	"github.com/ypelletier/tally/pkg/models"
	"github.com/ypelletier/tally/pkg/parser"
	"github.com/ypelletier/tally/pkg/rates"
)

// Processor runs the pipeline over one or more folders. A single processor
// shares its rate cache across runs, so batch jobs never fetch a date twice.
type Processor struct {
	config    *config.Config
	logger    *log.Logger
	resolver  *filekey.Resolver
	extractor extractor.Extractor
	rates     *rates.Cache
}

// NewProcessor wires a processor from configuration. The configured
// extension must have a registered extractor.
func NewProcessor(cfg *config.Config, logger *log.Logger) (*Processor, error) {
	ex, err := extractor.ForExtension(cfg.Extension)
	if err != nil {
		return nil, err
	}

	provider := rates.NewFrankfurter(cfg.ProviderURL, cfg.Timeout)
	return &Processor{
		config:    cfg,
		logger:    logger,
		resolver:  filekey.NewResolver(cfg.Extension),
		extractor: ex,
		rates:     rates.NewCache(provider, logger),
	}, nil
}

// Run scans one folder and returns its result. A missing folder yields an
// empty result; only enumeration failures are fatal.
func (p *Processor) Run(ctx context.Context, folder string) (*Result, error) {
	logger := p.logger.With("run", uuid.NewString())
	result := newResult(folder)

	entries, err := os.ReadDir(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("folder not found", "folder", folder)
			return result, nil
		}
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), "."+p.config.Extension) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	result.Stats.FilesFound = len(names)

	if len(names) == 0 {
		logger.Info("no candidate files found", "folder", folder, "extension", p.config.Extension)
		return result, nil
	}

	for _, name := range names {
		p.processFile(ctx, logger, result, folder, name)
	}

	p.normalize(ctx, logger, result)
	return result, nil
}

func (p *Processor) processFile(ctx context.Context, logger *log.Logger, result *Result, folder, name string) {
	key, err := p.resolver.Resolve(name)
	if err != nil {
		logger.Warn("skipping file with unexpected name", "file", name, "error", err)
		result.Stats.SkippedName++
		return
	}

	path := filepath.Join(folder, name)
	logger.Info("processing file", "path", path)

	pages, err := p.extractor.Extract(ctx, path)
	if err != nil {
		logger.Error("error extracting text", "file", name, "error", err)
		result.Stats.SkippedUnreadable++
		return
	}

	fact, err := parser.ExtractAmount(parser.ConcatPages(pages))
	if err != nil {
		logger.Warn("no total amount found", "file", name)
		result.Stats.SkippedNoAmount++
		return
	}

	canonical := key.String()
	if _, exists := result.Extractions[canonical]; exists {
		logger.Warn("duplicate key overwrites earlier record", "key", canonical, "file", name)
		result.Stats.Duplicates++
	}
	result.Extractions[canonical] = models.Extraction{Key: key, Fact: fact}
	result.Stats.Extracted++

	logger.Info("found amount", "key", canonical, "amount", fact.Amount, "currency", fact.Currency)
}

// normalize fills result.Conversions in sorted key order. USD records go
// through the rate cache; a missing rate leaves the record degraded rather
// than failing the run.
func (p *Processor) normalize(ctx context.Context, logger *log.Logger, result *Result) {
	for _, canonical := range result.Keys() {
		ex := result.Extractions[canonical]
		conv := models.Conversion{Key: ex.Key}

		switch ex.Fact.Currency {
		case models.USD:
			conv.USD = decimal.NewNullDecimal(ex.Fact.Amount)
			if rate, ok := p.rates.RateFor(ctx, ex.Key.Date); ok {
				cad := ex.Fact.Amount.Mul(rate)
				conv.Rate = decimal.NewNullDecimal(rate)
				conv.CAD = decimal.NewNullDecimal(cad)
				conv.Amount = decimal.NewNullDecimal(cad)
				logger.Info("converted to CAD", "key", canonical, "usd", ex.Fact.Amount, "rate", rate, "cad", cad)
			} else {
				result.Stats.RatesUnavailable++
				logger.Warn("keeping USD amount unconverted", "key", canonical, "usd", ex.Fact.Amount)
			}
		case models.CAD:
			conv.CAD = decimal.NewNullDecimal(ex.Fact.Amount)
			conv.Amount = decimal.NewNullDecimal(ex.Fact.Amount)
		}

		result.Conversions[canonical] = conv
	}
}
