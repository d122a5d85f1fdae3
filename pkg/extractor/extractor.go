// Package extractor turns document files into ordered per-page text blocks
// for the amount parser. An extraction failure is the pipeline's hard-failure
// signal, distinct from a document that merely lacks the labeled total.
package extractor

import (
	"context"
	"fmt"
	"strings"
)

// Extractor reads one document and returns its text, one block per page, in
// page order. Blocks may be empty when a page yields no text.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]string, error)
}

// ForExtension returns the extractor for a document extension, written
// without the dot and matched case-insensitively.
func ForExtension(ext string) (Extractor, error) {
	switch strings.ToLower(ext) {
	case "pdf":
		return PDF{}, nil
	case "xls":
		return XLS{}, nil
	case "txt":
		return Text{}, nil
	default:
		return nil, fmt.Errorf("no text extractor for %q documents", ext)
	}
}
