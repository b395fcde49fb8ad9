package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB is the read-only PostgreSQL analytics store. The dashboard's stats
// endpoints can be pointed at a replica while MySQL stays the only write
// path for the ingestion pipeline.
type DB struct {
	conn *sql.DB
}

func NewDB(host, port, user, password, dbname, sslmode string) (*DB, error) {
	if sslmode == "" {
		sslmode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// NeighborhoodStats is one dashboard row per neighborhood.
type NeighborhoodStats struct {
	NeighborhoodID   int64   `json:"neighborhood_id"`
	Neighborhood     string  `json:"neighborhood"`
	District         string  `json:"district"`
	City             string  `json:"city"`
	PropertyCount    int     `json:"property_count"`
	AvgWeeklyPrice   float64 `json:"avg_weekly_price"`
	AvgOccupancyRate float64 `json:"avg_occupancy_rate"`
}

// GetNeighborhoodStats aggregates property counts, average weekly price
// and average occupancy per neighborhood, optionally filtered by city.
func (db *DB) GetNeighborhoodStats(city string) ([]NeighborhoodStats, error) {
	query := `
		SELECT n.id, n.name, d.name, c.name,
		       COUNT(p.id) AS property_count,
		       COALESCE(AVG(pp.weekly_price), 0) AS avg_weekly_price,
		       COALESCE(AVG(po.occupancy_rate), 0) AS avg_occupancy_rate
		FROM neighborhoods n
		JOIN districts d ON d.id = n.district_id
		JOIN cities c ON c.id = d.city_id
		LEFT JOIN properties p ON p.neighborhood_id = n.id
		LEFT JOIN property_pricing pp ON pp.property_id = p.id
		LEFT JOIN property_occupancy po ON po.property_id = p.id
		WHERE ($1 = '' OR c.name = $1)
		GROUP BY n.id, n.name, d.name, c.name
		ORDER BY property_count DESC
	`

	rows, err := db.conn.Query(query, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []NeighborhoodStats
	for rows.Next() {
		var s NeighborhoodStats
		if err := rows.Scan(&s.NeighborhoodID, &s.Neighborhood, &s.District, &s.City,
			&s.PropertyCount, &s.AvgWeeklyPrice, &s.AvgOccupancyRate); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PriceBucket is one histogram bar of the weekly price distribution.
type PriceBucket struct {
	RangeStart int `json:"range_start"`
	RangeEnd   int `json:"range_end"`
	Count      int `json:"count"`
}

// GetPriceDistribution buckets weekly prices into fixed-width ranges.
func (db *DB) GetPriceDistribution(bucketWidth int) ([]PriceBucket, error) {
	if bucketWidth <= 0 {
		bucketWidth = 100000
	}

	query := `
		SELECT (weekly_price / $1) * $1 AS range_start, COUNT(*) AS count
		FROM property_pricing
		WHERE weekly_price > 0
		GROUP BY range_start
		ORDER BY range_start
	`

	rows, err := db.conn.Query(query, bucketWidth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []PriceBucket
	for rows.Next() {
		var b PriceBucket
		if err := rows.Scan(&b.RangeStart, &b.Count); err != nil {
			return nil, err
		}
		b.RangeEnd = b.RangeStart + bucketWidth
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// RegionSummary is the dashboard's headline numbers.
type RegionSummary struct {
	TotalCities        int     `json:"total_cities"`
	TotalNeighborhoods int     `json:"total_neighborhoods"`
	TotalProperties    int     `json:"total_properties"`
	AvgWeeklyPrice     float64 `json:"avg_weekly_price"`
}

// GetRegionSummary returns aggregate counts across the whole store.
func (db *DB) GetRegionSummary() (RegionSummary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM cities),
			(SELECT COUNT(*) FROM neighborhoods),
			(SELECT COUNT(*) FROM properties),
			COALESCE((SELECT AVG(weekly_price) FROM property_pricing WHERE weekly_price > 0), 0)
	`

	var summary RegionSummary
	err := db.conn.QueryRow(query).Scan(
		&summary.TotalCities,
		&summary.TotalNeighborhoods,
		&summary.TotalProperties,
		&summary.AvgWeeklyPrice,
	)
	return summary, err
}
