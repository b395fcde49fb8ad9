package ingest

import (
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/address"
)

// RegionKey is the (district, neighborhood) composite a sub-batch is
// grouped under. Either part may be empty when parsing was partial.
type RegionKey struct {
	District     string
	Neighborhood string
}

// RegionGroup is one per-neighborhood sub-batch, in original batch order.
type RegionGroup struct {
	Key      RegionKey
	Listings []ValidListing
}

// GroupByRegion restricts validated listings to the caller's target
// province and groups them by (district, neighborhood). Province matching
// goes through the rename table so a record parsed to the canonical name
// still matches a caller using the legacy name, and vice versa. Listings
// outside the target province are returned separately for reporting.
func GroupByRegion(targetProvince string, listings []ValidListing) ([]RegionGroup, []InvalidListing) {
	var groups []RegionGroup
	index := make(map[RegionKey]int)
	var skipped []InvalidListing

	for _, vl := range listings {
		if !address.SameProvince(vl.Parsed.Province, targetProvince) {
			skipped = append(skipped, InvalidListing{
				ExternalID: vl.Listing.ID,
				Address:    vl.Listing.Address,
				Reason:     "outside target province",
			})
			continue
		}

		key := RegionKey{District: vl.Parsed.District, Neighborhood: vl.Parsed.Neighborhood}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, RegionGroup{Key: key})
		}
		groups[i].Listings = append(groups[i].Listings, vl)
	}

	return groups, skipped
}
