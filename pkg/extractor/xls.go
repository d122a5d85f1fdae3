package extractor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/extrame/xls"
)

// XLS renders a legacy spreadsheet's cell grid as a single text block, one
// row per line with cells joined by single spaces.
type XLS struct{}

func (XLS) Extract(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	workbook, err := xls.OpenReader(file, "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(1000)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	var sheet strings.Builder
	for _, row := range rows {
		line := strings.TrimSpace(strings.Join(row, " "))
		if line == "" {
			continue
		}
		sheet.WriteString(line)
		sheet.WriteByte('\n')
	}
	return []string{strings.TrimSuffix(sheet.String(), "\n")}, nil
}
