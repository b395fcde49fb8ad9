package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/address"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/changes"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/region"
)

// Indexer pushes properties into the search index after a run. Indexing
// is best-effort and never fails a run.
type Indexer interface {
	IndexProperties(properties []models.Property) error
}

// ChangeRecorder persists detected field-level diffs, best-effort.
type ChangeRecorder interface {
	Record(detected []models.PropertyChange) error
}

// Request is the ingestion entry point payload.
type Request struct {
	Province     string       `json:"province" binding:"required"`
	District     string       `json:"district"`
	Neighborhood string       `json:"neighborhood"`
	Listings     []RawListing `json:"listings" binding:"required"`
}

// Summary is the always-produced best-effort result of a run. Failures at
// chunk and table granularity are collected here, never thrown away.
type Summary struct {
	Success               bool              `json:"success"`
	NewProperties         int               `json:"new_properties"`
	UpdatedProperties     int               `json:"updated_properties"`
	NeighborhoodID        int64             `json:"neighborhood_id"`
	ProcessingTimeSeconds float64           `json:"processing_time_seconds"`
	Error                 string            `json:"error,omitempty"`
	TotalListings         int               `json:"total_listings"`
	ValidListings         int               `json:"valid_listings"`
	InvalidListings       int               `json:"invalid_listings"`
	InvalidRecords        []InvalidListing  `json:"invalid_records,omitempty"`
	RegionErrors          []string          `json:"region_errors,omitempty"`
	ChunkErrors           []ChunkError      `json:"chunk_errors,omitempty"`
	FanoutFailures        map[string]string `json:"fanout_failures,omitempty"`
}

// Service runs the full ingestion pipeline: validate → group → resolve
// hierarchy → classify → reconcile → fan out. Stages are sequential; the
// only parallelism lives inside the reconciler and the fan-out, bounded
// by chunk count and table count.
type Service struct {
	store      Store
	resolver   *region.Resolver
	classifier *Classifier
	reconciler *Reconciler
	fanout     *Fanout
	search     Indexer
	changes    ChangeRecorder
	chunkSize  int
	logger     *logrus.Logger
}

// NewService wires the pipeline components around one store.
func NewService(store Store, resolver *region.Resolver, chunkSize int, logger *logrus.Logger) *Service {
	return &Service{
		store:      store,
		resolver:   resolver,
		classifier: NewClassifier(store, chunkSize),
		reconciler: NewReconciler(store, chunkSize, logger),
		fanout:     NewFanout(store, logger),
		chunkSize:  chunkSize,
		logger:     logger,
	}
}

// WithIndexer attaches a search indexer for post-run sync.
func (s *Service) WithIndexer(indexer Indexer) *Service {
	s.search = indexer
	return s
}

// WithChangeRecorder attaches best-effort change tracking for updates.
func (s *Service) WithChangeRecorder(recorder ChangeRecorder) *Service {
	s.changes = recorder
	return s
}

// Run executes one ingestion run against the caller's target region.
// It always returns a summary; the returned error is non-nil only for
// run-fatal conditions (nothing to ingest, or the top-level hierarchy
// node could not be resolved).
func (s *Service) Run(ctx context.Context, req *Request) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		TotalListings:  len(req.Listings),
		FanoutFailures: make(map[string]string),
	}

	validation := ValidateBatch(req.Listings)
	summary.InvalidRecords = validation.Invalid

	groups, skipped := GroupByRegion(req.Province, validation.Valid)
	summary.InvalidRecords = append(summary.InvalidRecords, skipped...)
	summary.InvalidListings = len(summary.InvalidRecords)
	summary.ValidListings = summary.TotalListings - summary.InvalidListings

	if len(groups) == 0 {
		summary.Error = "no usable listings for target province"
		summary.ProcessingTimeSeconds = time.Since(start).Seconds()
		return summary, fmt.Errorf("ingest: %s", summary.Error)
	}

	// Only a city-level failure is fatal: without the top node there is
	// nowhere to attach properties.
	city, err := s.resolver.ResolveCity(address.CanonicalProvince(req.Province))
	if err != nil {
		summary.Error = err.Error()
		summary.ProcessingTimeSeconds = time.Since(start).Seconds()
		return summary, err
	}

	var indexable []models.Property
	for _, group := range groups {
		indexable = append(indexable, s.runGroup(ctx, city.ID, req, group, summary)...)
	}

	if s.search != nil && len(indexable) > 0 {
		if err := s.search.IndexProperties(indexable); err != nil {
			s.logger.WithError(err).Warn("Search index sync failed")
		}
	}

	summary.Success = true
	summary.ProcessingTimeSeconds = time.Since(start).Seconds()

	s.logger.WithFields(logrus.Fields{
		"province": req.Province,
		"new":      summary.NewProperties,
		"updated":  summary.UpdatedProperties,
		"invalid":  summary.InvalidListings,
		"seconds":  summary.ProcessingTimeSeconds,
	}).Info("Ingestion run completed")

	return summary, nil
}

// runGroup processes one per-neighborhood sub-batch and returns the
// properties to push into the search index.
func (s *Service) runGroup(ctx context.Context, cityID int64, req *Request, group RegionGroup, summary *Summary) []models.Property {
	districtName := group.Key.District
	if districtName == "" {
		districtName = req.District
	}
	neighborhoodName := group.Key.Neighborhood
	if neighborhoodName == "" {
		neighborhoodName = req.Neighborhood
	}

	district, err := s.resolver.ResolveDistrict(cityID, districtName)
	if err != nil {
		summary.RegionErrors = append(summary.RegionErrors, err.Error())
		return nil
	}

	neighborhood, err := s.resolver.ResolveNeighborhood(district.ID, neighborhoodName, len(group.Listings))
	if err != nil {
		summary.RegionErrors = append(summary.RegionErrors, err.Error())
		return nil
	}

	// First group that matches the caller's target names wins the
	// summary's neighborhood_id; otherwise the first resolved group does.
	if summary.NeighborhoodID == 0 ||
		(neighborhoodName == req.Neighborhood && districtName == req.District) {
		summary.NeighborhoodID = neighborhood.ID
	}

	listings := make([]RawListing, len(group.Listings))
	for i, vl := range group.Listings {
		listings[i] = vl.Listing
	}

	cls, err := s.classifier.Classify(neighborhood.ID, listings)
	if err != nil {
		summary.RegionErrors = append(summary.RegionErrors,
			fmt.Sprintf("classify %s %s: %v", districtName, neighborhoodName, err))
		return nil
	}

	// Stored state must be read before the update pass or there is
	// nothing left to diff against.
	oldByID := s.fetchExistingState(cls)

	rec := s.reconciler.Reconcile(ctx, neighborhood.ID, cls)
	summary.NewProperties += rec.InsertedCount
	summary.UpdatedProperties += rec.UpdatedCount
	summary.ChunkErrors = append(summary.ChunkErrors, rec.ChunkErrors...)

	s.recordChanges(neighborhood.ID, cls, rec, oldByID)

	if len(rec.Inserted) > 0 {
		fr := s.fanout.Run(rec.Inserted, cls.ToInsert)
		for table, msg := range fr.Failed {
			entry := fmt.Sprintf("%s: %s", neighborhoodName, msg)
			if prev, ok := summary.FanoutFailures[table]; ok {
				entry = prev + "; " + entry
			}
			summary.FanoutFailures[table] = entry
		}
	}

	return s.collectIndexable(neighborhood.ID, cls, rec)
}

// fetchExistingState loads the stored rows of the update partition before
// the update pass overwrites them. Returns nil when change tracking is
// disabled or a fetch fails; tracking is entirely best-effort.
func (s *Service) fetchExistingState(cls *Classification) map[int64]models.Property {
	if s.changes == nil || len(cls.ToUpdate) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(cls.ToUpdate))
	for _, l := range cls.ToUpdate {
		if id, ok := cls.ExistingIDs[l.ID]; ok {
			ids = append(ids, id)
		}
	}

	oldByID := make(map[int64]models.Property, len(ids))
	for start := 0; start < len(ids); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		existing, err := s.store.FetchProperties(ids[start:end])
		if err != nil {
			s.logger.WithError(err).Warn("Change detection fetch failed")
			return nil
		}
		for _, p := range existing {
			oldByID[p.ID] = p
		}
	}
	return oldByID
}

// recordChanges diffs the update records whose write actually committed
// against their previous stored state and persists the differences.
// Records from failed update chunks are skipped so the change log never
// claims a change that was not applied.
func (s *Service) recordChanges(neighborhoodID int64, cls *Classification, rec *ReconcileResult, oldByID map[int64]models.Property) {
	if s.changes == nil || len(oldByID) == 0 {
		return
	}

	var detected []models.PropertyChange
	for _, l := range cls.ToUpdate {
		id, ok := rec.Updated[l.ID]
		if !ok {
			continue
		}
		old, ok := oldByID[id]
		if !ok {
			continue
		}
		incoming := toProperty(neighborhoodID, l)
		incoming.ID = id
		detected = append(detected, changes.Detect(old, incoming)...)
	}

	if err := s.changes.Record(detected); err != nil {
		s.logger.WithError(err).Warn("Recording property changes failed")
	}
}

// collectIndexable gathers the rows touched by this group for search sync.
func (s *Service) collectIndexable(neighborhoodID int64, cls *Classification, rec *ReconcileResult) []models.Property {
	var properties []models.Property
	for _, l := range cls.ToInsert {
		id, ok := rec.Inserted[l.ID]
		if !ok {
			continue
		}
		p := toProperty(neighborhoodID, l)
		p.ID = id
		properties = append(properties, *p)
	}
	for _, l := range cls.ToUpdate {
		id, ok := cls.ExistingIDs[l.ID]
		if !ok {
			continue
		}
		p := toProperty(neighborhoodID, l)
		p.ID = id
		properties = append(properties, *p)
	}
	return properties
}
