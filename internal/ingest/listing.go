package ingest

import (
	"time"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/address"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

// RawListing is one scraped listing as delivered by the crawler. Every
// field except ID is optional; missing numerics default to zero and
// missing booleans to false when sub-entity rows are derived.
type RawListing struct {
	ID           string    `json:"id" binding:"required"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	BuildingType string    `json:"building_type"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	CrawledAt    time.Time `json:"crawled_at"`

	Details       *RawDetails       `json:"details,omitempty"`
	Pricing       *RawPricing       `json:"pricing,omitempty"`
	Occupancy     *RawOccupancy     `json:"occupancy,omitempty"`
	Images        []string          `json:"images,omitempty"`
	Reviews       []RawReview       `json:"reviews,omitempty"`
	ReviewSummary *RawReviewSummary `json:"review_summary,omitempty"`
}

// RawDetails mirrors the detail block of the source payload.
type RawDetails struct {
	RoomCount    int  `json:"room_count"`
	BathCount    int  `json:"bath_count"`
	KitchenCount int  `json:"kitchen_count"`
	HasElevator  bool `json:"has_elevator"`
	HasParking   bool `json:"has_parking"`
	IsSuperHost  bool `json:"is_super_host"`
}

// RawPricing mirrors the pricing block. Discounts index 0 is the 2-week
// tier, index 10 the 12-week tier; shorter slices leave the rest at zero.
type RawPricing struct {
	WeeklyPrice       int   `json:"weekly_price"`
	WeeklyMaintenance int   `json:"weekly_maintenance"`
	CleaningFee       int   `json:"cleaning_fee"`
	Discounts         []int `json:"discounts"`
}

// RawOccupancy mirrors the occupancy block (1/2/3-month rates).
type RawOccupancy struct {
	Rate  int `json:"rate"`
	Rate2 int `json:"rate_2"`
	Rate3 int `json:"rate_3"`
}

// RawReview is one source review.
type RawReview struct {
	UserName   string     `json:"user_name"`
	Score      float64    `json:"score"`
	Content    string     `json:"content"`
	ReviewedAt *time.Time `json:"reviewed_at"`
}

// RawReviewSummary is the aggregate block the source publishes.
type RawReviewSummary struct {
	Count        int        `json:"count"`
	AverageScore float64    `json:"average_score"`
	LatestAt     *time.Time `json:"latest_at"`
}

// ValidListing is a listing whose address passed batch validation,
// carrying its parse result for grouping.
type ValidListing struct {
	Listing RawListing
	Parsed  address.Result
}

// InvalidListing is a listing dropped by batch validation.
type InvalidListing struct {
	ExternalID string `json:"external_id"`
	Address    string `json:"address"`
	Reason     string `json:"reason"`
}

// toProperty maps a raw listing onto the core property row for the given
// neighborhood. The surrogate ID is left unset; bulk insert backfills it.
func toProperty(neighborhoodID int64, l RawListing) *models.Property {
	p := &models.Property{
		NeighborhoodID: neighborhoodID,
		ExternalID:     l.ID,
		Name:           l.Name,
		Address:        l.Address,
		BuildingType:   l.BuildingType,
		CrawledAt:      l.CrawledAt,
	}
	if l.Latitude != 0 || l.Longitude != 0 {
		lat, lng := l.Latitude, l.Longitude
		p.Latitude = &lat
		p.Longitude = &lng
	}
	if l.Pricing != nil {
		p.WeeklyPrice = l.Pricing.WeeklyPrice
	}
	if p.CrawledAt.IsZero() {
		p.CrawledAt = time.Now()
	}
	return p
}
