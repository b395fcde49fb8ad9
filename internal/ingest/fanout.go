package ingest

import (
	"github.com/sirupsen/logrus"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
)

// Sub-entity table names as reported in fan-out results.
const (
	TableDetails         = "property_details"
	TablePricing         = "property_pricing"
	TableOccupancy       = "property_occupancy"
	TableImages          = "property_images"
	TableReviews         = "property_reviews"
	TableReviewSummaries = "property_review_summaries"
)

// FanoutResult reports per-table outcomes. A failed table never cancels
// its siblings and never rolls back the committed property rows.
type FanoutResult struct {
	Succeeded []string
	Failed    map[string]string
}

// Fanout derives and bulk-writes the six dependent record sets for newly
// inserted properties. Existing properties are never touched: their
// sub-entity rows were written when they were first created.
type Fanout struct {
	store  Store
	logger *logrus.Logger
}

// NewFanout creates a fan-out writer.
func NewFanout(store Store, logger *logrus.Logger) *Fanout {
	return &Fanout{store: store, logger: logger}
}

type tableOutcome struct {
	table string
	err   error
}

// Run derives rows from the listings present in the inserted-ID map and
// issues the six bulk inserts concurrently, joining settled results. A
// listing with no images or reviews simply produces no row in the
// corresponding table.
func (f *Fanout) Run(inserted map[string]int64, listings []RawListing) *FanoutResult {
	var (
		details   []models.PropertyDetails
		pricing   []models.PropertyPricing
		occupancy []models.PropertyOccupancy
		images    []models.PropertyImage
		reviews   []models.PropertyReview
		summaries []models.PropertyReviewSummary
	)

	for _, l := range listings {
		propertyID, ok := inserted[l.ID]
		if !ok {
			continue
		}

		details = append(details, deriveDetails(propertyID, l.Details))
		pricing = append(pricing, derivePricing(propertyID, l.Pricing))
		occupancy = append(occupancy, deriveOccupancy(propertyID, l.Occupancy))

		if len(l.Images) > 0 {
			images = append(images, models.PropertyImage{
				PropertyID: propertyID,
				ImageURL:   l.Images[0],
				IsPrimary:  true,
			})
		}
		for _, rv := range l.Reviews {
			reviews = append(reviews, models.PropertyReview{
				PropertyID: propertyID,
				UserName:   rv.UserName,
				Score:      rv.Score,
				Content:    rv.Content,
				ReviewedAt: rv.ReviewedAt,
			})
		}
		if l.ReviewSummary != nil {
			summaries = append(summaries, models.PropertyReviewSummary{
				PropertyID:     propertyID,
				ReviewCount:    l.ReviewSummary.Count,
				AverageScore:   l.ReviewSummary.AverageScore,
				LatestReviewAt: l.ReviewSummary.LatestAt,
			})
		}
	}

	outcomes := make(chan tableOutcome, 6)

	go func() { outcomes <- tableOutcome{TableDetails, insertIfAny(len(details), func() error { return f.store.InsertDetails(details) })} }()
	go func() { outcomes <- tableOutcome{TablePricing, insertIfAny(len(pricing), func() error { return f.store.InsertPricing(pricing) })} }()
	go func() { outcomes <- tableOutcome{TableOccupancy, insertIfAny(len(occupancy), func() error { return f.store.InsertOccupancy(occupancy) })} }()
	go func() { outcomes <- tableOutcome{TableImages, insertIfAny(len(images), func() error { return f.store.InsertImages(images) })} }()
	go func() { outcomes <- tableOutcome{TableReviews, insertIfAny(len(reviews), func() error { return f.store.InsertReviews(reviews) })} }()
	go func() { outcomes <- tableOutcome{TableReviewSummaries, insertIfAny(len(summaries), func() error { return f.store.InsertReviewSummaries(summaries) })} }()

	result := &FanoutResult{Failed: make(map[string]string)}
	for i := 0; i < 6; i++ {
		outcome := <-outcomes
		if outcome.err != nil {
			f.logger.WithError(outcome.err).WithField("table", outcome.table).Error("Sub-entity bulk insert failed")
			result.Failed[outcome.table] = outcome.err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, outcome.table)
	}

	return result
}

func insertIfAny(count int, insert func() error) error {
	if count == 0 {
		return nil
	}
	return insert()
}

func deriveDetails(propertyID int64, raw *RawDetails) models.PropertyDetails {
	row := models.PropertyDetails{PropertyID: propertyID}
	if raw != nil {
		row.RoomCount = raw.RoomCount
		row.BathCount = raw.BathCount
		row.KitchenCount = raw.KitchenCount
		row.HasElevator = raw.HasElevator
		row.HasParking = raw.HasParking
		row.IsSuperHost = raw.IsSuperHost
	}
	return row
}

func derivePricing(propertyID int64, raw *RawPricing) models.PropertyPricing {
	row := models.PropertyPricing{PropertyID: propertyID}
	if raw == nil {
		return row
	}
	row.WeeklyPrice = raw.WeeklyPrice
	row.WeeklyMaintenance = raw.WeeklyMaintenance
	row.CleaningFee = raw.CleaningFee

	tiers := []*int{
		&row.Discount2Weeks, &row.Discount3Weeks, &row.Discount4Weeks,
		&row.Discount5Weeks, &row.Discount6Weeks, &row.Discount7Weeks,
		&row.Discount8Weeks, &row.Discount9Weeks, &row.Discount10Weeks,
		&row.Discount11Weeks, &row.Discount12Weeks,
	}
	for i, discount := range raw.Discounts {
		if i >= len(tiers) {
			break
		}
		*tiers[i] = discount
	}
	return row
}

func deriveOccupancy(propertyID int64, raw *RawOccupancy) models.PropertyOccupancy {
	row := models.PropertyOccupancy{PropertyID: propertyID}
	if raw != nil {
		row.OccupancyRate = raw.Rate
		row.Occupancy2Rate = raw.Rate2
		row.Occupancy3Rate = raw.Rate3
	}
	return row
}
