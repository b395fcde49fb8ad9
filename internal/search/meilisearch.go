package search

import (
	"github.com/meilisearch/meilisearch-go"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "properties",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"name",
		"address",
		"building_type",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"external_id",
		"neighborhood_id",
		"building_type",
		"weekly_price",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"weekly_price",
		"crawled_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// Document is the denormalized search projection of a property.
type Document struct {
	ID             int64    `json:"id"`
	ExternalID     string   `json:"external_id"`
	NeighborhoodID int64    `json:"neighborhood_id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	BuildingType   string   `json:"building_type"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	WeeklyPrice    int      `json:"weekly_price"`
	CrawledAt      int64    `json:"crawled_at"`
}

func toDocument(p models.Property) Document {
	return Document{
		ID:             p.ID,
		ExternalID:     p.ExternalID,
		NeighborhoodID: p.NeighborhoodID,
		Name:           p.Name,
		Address:        p.Address,
		BuildingType:   p.BuildingType,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		WeeklyPrice:    p.WeeklyPrice,
		CrawledAt:      p.CrawledAt.Unix(),
	}
}

// IndexProperty indexes a single property
func (s *SearchClient) IndexProperty(property *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]Document{toDocument(*property)})
	return err
}

// IndexProperties indexes multiple properties
func (s *SearchClient) IndexProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	documents := make([]Document, len(properties))
	for i, p := range properties {
		documents[i] = toDocument(p)
	}
	_, err := s.client.Index(s.index).AddDocuments(documents)
	return err
}

// SearchRequest represents advanced search parameters
type SearchRequest struct {
	Query                string
	Limit                int64
	Offset               int64
	Filter               []string
	Sort                 []string
	FacetsFilter         []string
	AttributesToRetrieve []string
}

// SearchResult represents search results with facets
type SearchResult struct {
	Hits           []Document
	TotalHits      int64
	Facets         map[string]interface{}
	ProcessingTime int64
}

// Search searches for properties with basic options
func (s *SearchClient) Search(query string, limit int64) ([]Document, error) {
	result, err := s.AdvancedSearch(SearchRequest{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// AdvancedSearch performs advanced search with facets and filters
func (s *SearchClient) AdvancedSearch(req SearchRequest) (*SearchResult, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if len(req.Filter) > 0 {
		filterStr := ""
		for i, f := range req.Filter {
			if i > 0 {
				filterStr += " AND "
			}
			filterStr += f
		}
		searchReq.Filter = filterStr
	}

	if len(req.Sort) > 0 {
		searchReq.Sort = req.Sort
	}

	if len(req.FacetsFilter) > 0 {
		searchReq.Facets = req.FacetsFilter
	}

	if len(req.AttributesToRetrieve) > 0 {
		searchReq.AttributesToRetrieve = req.AttributesToRetrieve
	}

	searchRes, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, err
	}

	documents := make([]Document, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		documents = append(documents, parseDocumentFromHit(hit))
	}

	var facets map[string]interface{}
	if searchRes.FacetDistribution != nil {
		facets, _ = searchRes.FacetDistribution.(map[string]interface{})
	}

	result := &SearchResult{
		Hits:           documents,
		TotalHits:      searchRes.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}

	return result, nil
}

// parseDocumentFromHit converts a search hit to a Document
func parseDocumentFromHit(hit interface{}) Document {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return Document{}
	}

	document := Document{
		ExternalID:   getString(hitMap, "external_id"),
		Name:         getString(hitMap, "name"),
		Address:      getString(hitMap, "address"),
		BuildingType: getString(hitMap, "building_type"),
	}

	if id, ok := hitMap["id"].(float64); ok {
		document.ID = int64(id)
	}
	if nid, ok := hitMap["neighborhood_id"].(float64); ok {
		document.NeighborhoodID = int64(nid)
	}
	if lat, ok := hitMap["latitude"].(float64); ok {
		document.Latitude = &lat
	}
	if lng, ok := hitMap["longitude"].(float64); ok {
		document.Longitude = &lng
	}
	if price, ok := hitMap["weekly_price"].(float64); ok {
		document.WeeklyPrice = int(price)
	}
	if crawledAt, ok := hitMap["crawled_at"].(float64); ok {
		document.CrawledAt = int64(crawledAt)
	}

	return document
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetFacets retrieves facet distribution for specified fields
func (s *SearchClient) GetFacets(facets []string) (map[string]interface{}, error) {
	searchRes, err := s.client.Index(s.index).Search("", &meilisearch.SearchRequest{
		Limit:  0,
		Facets: facets,
	})
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
