package ingest

import (
	"fmt"
)

// Classification partitions a sub-batch by external identifier presence.
// Order within each partition follows the original batch order. The
// ExistingIDs map carries the surrogate IDs the update path needs.
type Classification struct {
	ToInsert    []RawListing
	ToUpdate    []RawListing
	ExistingIDs map[string]int64
}

// Classifier splits a sub-batch into to-insert and to-update by querying
// the store for known external identifiers in size-bounded chunks. The
// store enforces a maximum list length for membership queries, so the
// chunk size is a fixed constant from configuration, never inferred.
type Classifier struct {
	store     Store
	chunkSize int
}

// NewClassifier creates a classifier with the given chunk size.
func NewClassifier(store Store, chunkSize int) *Classifier {
	return &Classifier{store: store, chunkSize: chunkSize}
}

// Classify queries existing external IDs chunk by chunk, unions the
// results, and partitions the listings. Chunk results are disjoint so the
// union needs no synchronization; fetches complete before any join.
func (c *Classifier) Classify(neighborhoodID int64, listings []RawListing) (*Classification, error) {
	externalIDs := make([]string, len(listings))
	for i, l := range listings {
		externalIDs[i] = l.ID
	}

	existing := make(map[string]int64)
	for i, chunk := range chunkStrings(externalIDs, c.chunkSize) {
		idMap, err := c.store.ExistingIDMap(neighborhoodID, chunk)
		if err != nil {
			return nil, fmt.Errorf("membership query for chunk %d failed: %w", i+1, err)
		}
		for externalID, id := range idMap {
			existing[externalID] = id
		}
	}

	cls := &Classification{ExistingIDs: existing}
	for _, l := range listings {
		if _, ok := existing[l.ID]; ok {
			cls.ToUpdate = append(cls.ToUpdate, l)
		} else {
			cls.ToInsert = append(cls.ToInsert, l)
		}
	}

	return cls, nil
}
