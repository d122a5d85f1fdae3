package models

import "fmt"

// FileKey identifies one extracted record: the date encoded in the source
// filename plus an occurrence index disambiguating same-day files.
type FileKey struct {
	Date       string
	Occurrence int
}

// String renders the canonical form used as the result map key: the bare
// date, or "date (N)" when the occurrence is above one.
func (k FileKey) String() string {
	if k.Occurrence > 1 {
		return fmt.Sprintf("%s (%d)", k.Date, k.Occurrence)
	}
	return k.Date
}
