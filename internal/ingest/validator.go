package ingest

import (
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/address"
)

// Validation reasons reported for dropped listings.
const (
	ReasonParseFailed       = "parse failed"
	ReasonIncompleteAddress = "incomplete address"
)

// ValidationResult partitions a raw batch into usable and dropped
// listings. Dropped listings are reported, never silently discarded.
type ValidationResult struct {
	Valid   []ValidListing
	Invalid []InvalidListing
}

// Summary returns total/valid/invalid counts.
func (v *ValidationResult) Summary() (total, valid, invalid int) {
	return len(v.Valid) + len(v.Invalid), len(v.Valid), len(v.Invalid)
}

// ValidateBatch applies the address parser to every listing. A listing is
// valid only when its province resolved and at least one of district or
// neighborhood resolved; everything else is dropped with a reason.
func ValidateBatch(listings []RawListing) *ValidationResult {
	result := &ValidationResult{}

	for _, listing := range listings {
		parsed := address.Parse(listing.Address)
		if parsed == nil {
			result.Invalid = append(result.Invalid, InvalidListing{
				ExternalID: listing.ID,
				Address:    listing.Address,
				Reason:     ReasonParseFailed,
			})
			continue
		}
		if !parsed.IsComplete() {
			result.Invalid = append(result.Invalid, InvalidListing{
				ExternalID: listing.ID,
				Address:    listing.Address,
				Reason:     ReasonIncompleteAddress,
			})
			continue
		}
		result.Valid = append(result.Valid, ValidListing{Listing: listing, Parsed: *parsed})
	}

	return result
}
