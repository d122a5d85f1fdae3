package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ypelletier/tally/pkg/models"
)

// ErrNoAmount is returned when no labeled total appears in the text.
var ErrNoAmount = errors.New("no total amount found")

var (
	// strictAmount expects the number right after the label, with at most a
	// colon, whitespace, and a currency symbol in between.
	strictAmount = regexp.MustCompile(`(?i)total\s+amount\s*\((usd|cad)\)\s*[:\s]*\$?\s*([\d,]+\.?\d*)`)

	// looseAmount tolerates a run of prose between the label and the number.
	// Digits, "$", and "-" end the run, so a minus sign defeats the match and
	// a negative amount is never read as positive.
	looseAmount = regexp.MustCompile(`(?i)total\s+amount\s*\((usd|cad)\)[^\d$-]*\$?\s*([\d,]+\.?\d*)`)

	// Tried in order, first parsable match wins.
	matchers = []*regexp.Regexp{strictAmount, looseAmount}
)

// ConcatPages joins per-page text blocks in page order, each non-empty block
// terminated by a newline. Pages that yielded no text contribute nothing.
func ConcatPages(pages []string) string {
	var b strings.Builder
	for _, page := range pages {
		if page == "" {
			continue
		}
		b.WriteString(page)
		b.WriteByte('\n')
	}
	return b.String()
}

// ExtractAmount finds the labeled "Total Amount (USD|CAD)" in the
// concatenated document text. Matchers run in order and only the first match
// of the first grammar that yields a parsable number is used; additional
// totals in the same document are ignored.
func ExtractAmount(text string) (models.Fact, error) {
	for _, re := range matchers {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		raw := strings.ReplaceAll(m[2], ",", "")
		raw = strings.TrimSuffix(raw, ".")
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			// Matched a separator with no digits, e.g. a lone "$," fragment.
			continue
		}

		return models.Fact{
			Amount:   amount,
			Currency: models.Currency(strings.ToUpper(m[1])),
		}, nil
	}
	return models.Fact{}, ErrNoAmount
}
