package ingest

import (
	"errors"
	"sync"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

var errInjected = errors.New("injected store failure")

// fakeStore is an in-memory Store with per-call failure injection.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64

	// external_id -> surrogate ID, single neighborhood per test
	known      map[string]int64
	properties map[int64]models.Property

	details   []models.PropertyDetails
	pricing   []models.PropertyPricing
	occupancy []models.PropertyOccupancy
	images    []models.PropertyImage
	reviews   []models.PropertyReview
	summaries []models.PropertyReviewSummary

	membershipCalls [][]string
	insertCalls     int

	existErr        error
	failInsertChunk int              // 1-based call number to fail, 0 disables
	updateErrFor    map[string]error // keyed by external_id
	tableErr        map[string]error // keyed by table name
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		known:        make(map[string]int64),
		properties:   make(map[int64]models.Property),
		updateErrFor: make(map[string]error),
		tableErr:     make(map[string]error),
	}
}

func (s *fakeStore) seed(externalIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range externalIDs {
		s.nextID++
		s.known[id] = s.nextID
		s.properties[s.nextID] = models.Property{ID: s.nextID, ExternalID: id}
	}
}

func (s *fakeStore) ExistingIDMap(neighborhoodID int64, externalIDs []string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existErr != nil {
		return nil, s.existErr
	}
	s.membershipCalls = append(s.membershipCalls, externalIDs)

	idMap := make(map[string]int64)
	for _, externalID := range externalIDs {
		if id, ok := s.known[externalID]; ok {
			idMap[externalID] = id
		}
	}
	return idMap, nil
}

func (s *fakeStore) InsertProperties(properties []*models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if s.failInsertChunk != 0 && s.insertCalls == s.failInsertChunk {
		return errInjected
	}
	for _, p := range properties {
		s.nextID++
		p.ID = s.nextID
		s.known[p.ExternalID] = p.ID
		s.properties[p.ID] = *p
	}
	return nil
}

func (s *fakeStore) UpdateProperty(property *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.updateErrFor[property.ExternalID]; ok {
		return err
	}
	s.properties[property.ID] = *property
	return nil
}

func (s *fakeStore) FetchProperties(ids []int64) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.Property
	for _, id := range ids {
		if p, ok := s.properties[id]; ok {
			rows = append(rows, p)
		}
	}
	return rows, nil
}

func (s *fakeStore) InsertDetails(rows []models.PropertyDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tableErr[TableDetails]; err != nil {
		return err
	}
	s.details = append(s.details, rows...)
	return nil
}

func (s *fakeStore) InsertPricing(rows []models.PropertyPricing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tableErr[TablePricing]; err != nil {
		return err
	}
	s.pricing = append(s.pricing, rows...)
	return nil
}

func (s *fakeStore) InsertOccupancy(rows []models.PropertyOccupancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tableErr[TableOccupancy]; err != nil {
		return err
	}
	s.occupancy = append(s.occupancy, rows...)
	return nil
}

func (s *fakeStore) InsertImages(rows []models.PropertyImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tableErr[TableImages]; err != nil {
		return err
	}
	s.images = append(s.images, rows...)
	return nil
}

func (s *fakeStore) InsertReviews(rows []models.PropertyReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tableErr[TableReviews]; err != nil {
		return err
	}
	s.reviews = append(s.reviews, rows...)
	return nil
}

func (s *fakeStore) InsertReviewSummaries(rows []models.PropertyReviewSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tableErr[TableReviewSummaries]; err != nil {
		return err
	}
	s.summaries = append(s.summaries, rows...)
	return nil
}
