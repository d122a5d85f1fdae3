package extractor

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Text reads plain-text documents. Pages are separated by form feeds, so a
// file without any reads as a single page.
type Text struct{}

func (Text) Extract(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return strings.Split(string(data), "\f"), nil
}
