package search

import (
	"fmt"
	"strings"
)

type FilterParams struct {
	Query          string
	MinWeeklyPrice *int
	MaxWeeklyPrice *int
	BuildingTypes  []string
	NeighborhoodID *int64
	SortBy         string
	Limit          int64
}

// FilterSearch performs advanced search with filters
func (s *SearchClient) FilterSearch(params FilterParams) ([]Document, error) {
	var filters []string

	// Weekly price range filter
	if params.MinWeeklyPrice != nil {
		filters = append(filters, fmt.Sprintf("weekly_price >= %d", *params.MinWeeklyPrice))
	}
	if params.MaxWeeklyPrice != nil {
		filters = append(filters, fmt.Sprintf("weekly_price <= %d", *params.MaxWeeklyPrice))
	}

	// Building type filter
	if len(params.BuildingTypes) > 0 {
		typeFilters := make([]string, len(params.BuildingTypes))
		for i, bt := range params.BuildingTypes {
			typeFilters[i] = fmt.Sprintf("building_type = '%s'", bt)
		}
		filters = append(filters, fmt.Sprintf("(%s)", strings.Join(typeFilters, " OR ")))
	}

	// Neighborhood filter
	if params.NeighborhoodID != nil {
		filters = append(filters, fmt.Sprintf("neighborhood_id = %d", *params.NeighborhoodID))
	}

	var sort []string
	if params.SortBy != "" {
		sort = []string{params.SortBy}
	}

	if params.Limit == 0 {
		params.Limit = 20
	}

	req := SearchRequest{
		Query:  params.Query,
		Limit:  params.Limit,
		Filter: filters,
		Sort:   sort,
	}

	result, err := s.AdvancedSearch(req)
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}
