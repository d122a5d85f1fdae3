package models

import "github.com/shopspring/decimal"

// Currency is the source currency of an extracted amount.
type Currency string

const (
	USD Currency = "USD"
	CAD Currency = "CAD"
)

// Fact is a raw parse result: the labeled total found in one document.
type Fact struct {
	Amount   decimal.Decimal
	Currency Currency
}

// Extraction ties a parsed fact to the file key it came from.
type Extraction struct {
	Key  FileKey
	Fact Fact
}

// Conversion is an extraction normalized into the reporting currency (CAD).
// Fields that do not apply stay invalid: a USD record whose rate lookup
// failed keeps USD only, a CAD record never carries USD or a rate.
type Conversion struct {
	Key    FileKey
	USD    decimal.NullDecimal
	CAD    decimal.NullDecimal
	Amount decimal.NullDecimal
	Rate   decimal.NullDecimal
}
