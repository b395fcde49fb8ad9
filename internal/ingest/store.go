package ingest

import (
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

// Store is the persistence contract the pipeline needs from the property
// store. Implementations must signal unique-constraint violations
// distinctly (gorm.ErrDuplicatedKey) and may reject membership queries
// longer than the configured chunk size; callers never pass more than one
// chunk per call. No multi-statement transactions are required.
type Store interface {
	// ExistingIDMap returns external_id -> surrogate ID for the given
	// external identifiers that already exist in the neighborhood.
	ExistingIDMap(neighborhoodID int64, externalIDs []string) (map[string]int64, error)

	// InsertProperties bulk-inserts new rows and backfills surrogate IDs.
	InsertProperties(properties []*models.Property) error

	// UpdateProperty refreshes only the mutable attributes of one row.
	UpdateProperty(property *models.Property) error

	// FetchProperties loads rows by surrogate ID (for change detection).
	FetchProperties(ids []int64) ([]models.Property, error)

	InsertDetails(rows []models.PropertyDetails) error
	InsertPricing(rows []models.PropertyPricing) error
	InsertOccupancy(rows []models.PropertyOccupancy) error
	InsertImages(rows []models.PropertyImage) error
	InsertReviews(rows []models.PropertyReview) error
	InsertReviewSummaries(rows []models.PropertyReviewSummary) error
}

// chunkStrings splits ids into size-bounded chunks, preserving order.
func chunkStrings(ids []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// chunkListings splits listings into size-bounded chunks, preserving order.
func chunkListings(listings []RawListing, size int) [][]RawListing {
	if size <= 0 {
		size = 1
	}
	var chunks [][]RawListing
	for start := 0; start < len(listings); start += size {
		end := start + size
		if end > len(listings) {
			end = len(listings)
		}
		chunks = append(chunks, listings[start:end])
	}
	return chunks
}
