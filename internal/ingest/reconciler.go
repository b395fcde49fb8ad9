package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

// ChunkError reports one failed bulk chunk. Sibling chunks are still
// processed; the overall operation is not atomic.
type ChunkError struct {
	Stage   string `json:"stage"` // "insert" or "update"
	Chunk   int    `json:"chunk"` // 1-based chunk number
	Records int    `json:"records"`
	Message string `json:"message"`
}

func (e ChunkError) Error() string {
	return fmt.Sprintf("%s chunk %d (%d records): %s", e.Stage, e.Chunk, e.Records, e.Message)
}

// ReconcileResult summarizes one reconciliation pass over a sub-batch.
// Inserted maps external IDs to the surrogate IDs generated for newly
// created rows; only these feed the sub-entity fan-out. Updated holds the
// same mapping for rows whose update actually committed, so change
// tracking never logs a diff that a failed chunk threw away.
type ReconcileResult struct {
	Inserted      map[string]int64
	Updated       map[string]int64
	InsertedCount int
	UpdatedCount  int
	ChunkErrors   []ChunkError
}

// Reconciler bulk-inserts new property rows and updates existing ones in
// size-bounded chunks. A failed chunk is reported and skipped, previously
// committed chunks stay committed. Updates within a chunk run concurrently
// since external_id is unique per neighborhood, so no two writers ever
// target the same row.
type Reconciler struct {
	store     Store
	chunkSize int
	logger    *logrus.Logger
}

// NewReconciler creates a reconciler with the given chunk size.
func NewReconciler(store Store, chunkSize int, logger *logrus.Logger) *Reconciler {
	return &Reconciler{store: store, chunkSize: chunkSize, logger: logger}
}

// Reconcile processes the insert and update partitions of a
// classification. Cancellation is checked between chunks only; in-flight
// chunks run to completion, there is no mid-chunk rollback.
func (r *Reconciler) Reconcile(ctx context.Context, neighborhoodID int64, cls *Classification) *ReconcileResult {
	result := &ReconcileResult{
		Inserted: make(map[string]int64),
		Updated:  make(map[string]int64),
	}

	r.insertNew(ctx, neighborhoodID, cls.ToInsert, result)
	r.updateExisting(ctx, neighborhoodID, cls, result)

	return result
}

func (r *Reconciler) insertNew(ctx context.Context, neighborhoodID int64, listings []RawListing, result *ReconcileResult) {
	for i, chunk := range chunkListings(listings, r.chunkSize) {
		if err := ctx.Err(); err != nil {
			result.ChunkErrors = append(result.ChunkErrors, ChunkError{
				Stage: "insert", Chunk: i + 1, Records: len(chunk), Message: err.Error(),
			})
			continue
		}

		properties := make([]*models.Property, len(chunk))
		for j, l := range chunk {
			properties[j] = toProperty(neighborhoodID, l)
		}

		if err := r.store.InsertProperties(properties); err != nil {
			r.logger.WithError(err).WithField("chunk", i+1).Error("Bulk insert chunk failed")
			result.ChunkErrors = append(result.ChunkErrors, ChunkError{
				Stage: "insert", Chunk: i + 1, Records: len(chunk), Message: err.Error(),
			})
			continue
		}

		for _, p := range properties {
			result.Inserted[p.ExternalID] = p.ID
		}
		result.InsertedCount += len(chunk)
	}
}

func (r *Reconciler) updateExisting(ctx context.Context, neighborhoodID int64, cls *Classification, result *ReconcileResult) {
	for i, chunk := range chunkListings(cls.ToUpdate, r.chunkSize) {
		if err := ctx.Err(); err != nil {
			result.ChunkErrors = append(result.ChunkErrors, ChunkError{
				Stage: "update", Chunk: i + 1, Records: len(chunk), Message: err.Error(),
			})
			continue
		}

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			okCount  int
			firstErr error
			failed   int
		)

		for _, l := range chunk {
			surrogateID, ok := cls.ExistingIDs[l.ID]
			if !ok {
				// Classified as existing but missing from the ID map;
				// treat as a per-record failure rather than panicking.
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = fmt.Errorf("no surrogate ID for external ID %s", l.ID)
				}
				mu.Unlock()
				continue
			}

			wg.Add(1)
			go func(listing RawListing, id int64) {
				defer wg.Done()

				property := toProperty(neighborhoodID, listing)
				property.ID = id

				if err := r.store.UpdateProperty(property); err != nil {
					mu.Lock()
					failed++
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}

				mu.Lock()
				okCount++
				result.Updated[listing.ID] = id
				mu.Unlock()
			}(l, surrogateID)
		}

		wg.Wait()

		result.UpdatedCount += okCount
		if failed > 0 {
			r.logger.WithError(firstErr).WithFields(logrus.Fields{
				"chunk":  i + 1,
				"failed": failed,
			}).Error("Bulk update chunk had failures")
			result.ChunkErrors = append(result.ChunkErrors, ChunkError{
				Stage: "update", Chunk: i + 1, Records: failed, Message: firstErr.Error(),
			})
		}
	}
}
