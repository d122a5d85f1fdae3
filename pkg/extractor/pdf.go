package extractor

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDF extracts the plain text of each page of a PDF document.
type PDF struct{}

func (PDF) Extract(ctx context.Context, path string) ([]string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening pdf: %w", err)
	}
	defer file.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("error reading pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
