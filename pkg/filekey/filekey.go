package filekey

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ypelletier/tally/pkg/models"
)

// ErrBadName marks filenames that do not follow the YYYY-MM-DD naming
// convention for the configured document extension.
var ErrBadName = errors.New("filename does not match naming convention")

// Resolver derives file keys from filenames for one document extension.
type Resolver struct {
	pattern *regexp.Regexp
}

// NewResolver builds a resolver for the given extension, written without the
// dot. The extension match is case-insensitive. The date part is purely
// lexical; calendar validity is left to the rate provider.
func NewResolver(ext string) *Resolver {
	return &Resolver{
		pattern: regexp.MustCompile(`(?i)^(\d{4}-\d{2}-\d{2})(?:\s*\((\d+)\))?\.` + regexp.QuoteMeta(ext) + `$`),
	}
}

// Resolve validates a filename against the naming convention and returns its
// file key. The occurrence defaults to 1 when the filename carries no
// disambiguator; an explicit zero occurrence is rejected.
func (r *Resolver) Resolve(filename string) (models.FileKey, error) {
	m := r.pattern.FindStringSubmatch(filename)
	if m == nil {
		return models.FileKey{}, fmt.Errorf("%q: %w", filename, ErrBadName)
	}

	key := models.FileKey{Date: m[1], Occurrence: 1}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 {
			return models.FileKey{}, fmt.Errorf("%q: %w", filename, ErrBadName)
		}
		key.Occurrence = n
	}
	return key, nil
}
