package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/ypelletier/tally/pkg/service"
)

var csvHeader = []string{"date", "occurrence", "USD", "CAD", "amount", "rate"}

// WriteCSV writes the conversion table, one row per key in canonical order.
// Amounts carry two decimal places, rates four; absent values stay empty.
func WriteCSV(w io.Writer, result *service.Result) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, key := range result.Keys() {
		conv := result.Conversions[key]
		record := []string{
			conv.Key.Date,
			strconv.Itoa(conv.Key.Occurrence),
			fixed(conv.USD, 2),
			fixed(conv.CAD, 2),
			fixed(conv.Amount, 2),
			fixed(conv.Rate, 4),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("error writing row for %s: %w", key, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// SaveCSV writes the table to path. No file is created when the scan saw no
// candidate files at all; a scan whose candidates all failed still produces
// the header-only table.
func SaveCSV(path string, result *service.Result) error {
	if result.Stats.FilesFound == 0 {
		return nil
	}

	output, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer output.Close()

	if err := WriteCSV(output, result); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return nil
}

func fixed(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(places)
}
