package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutWritesAllTables(t *testing.T) {
	store := newFakeStore()
	f := NewFanout(store, testLogger())

	reviewedAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	listings := []RawListing{
		{
			ID:      "p1",
			Details: &RawDetails{RoomCount: 2, HasElevator: true},
			Pricing: &RawPricing{WeeklyPrice: 350000, Discounts: []int{5, 7, 10}},
			Occupancy: &RawOccupancy{
				Rate: 80, Rate2: 75, Rate3: 70,
			},
			Images:        []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
			Reviews:       []RawReview{{UserName: "guest", Score: 4.5, ReviewedAt: &reviewedAt}},
			ReviewSummary: &RawReviewSummary{Count: 1, AverageScore: 4.5, LatestAt: &reviewedAt},
		},
	}

	result := f.Run(map[string]int64{"p1": 101}, listings)

	assert.Len(t, result.Succeeded, 6)
	assert.Empty(t, result.Failed)

	require.Len(t, store.details, 1)
	assert.Equal(t, int64(101), store.details[0].PropertyID)
	assert.True(t, store.details[0].HasElevator)

	require.Len(t, store.pricing, 1)
	assert.Equal(t, 350000, store.pricing[0].WeeklyPrice)
	assert.Equal(t, 5, store.pricing[0].Discount2Weeks)
	assert.Equal(t, 7, store.pricing[0].Discount3Weeks)
	assert.Equal(t, 10, store.pricing[0].Discount4Weeks)
	assert.Zero(t, store.pricing[0].Discount5Weeks)

	// Only the first image is kept, marked primary.
	require.Len(t, store.images, 1)
	assert.Equal(t, "https://img.example/1.jpg", store.images[0].ImageURL)
	assert.True(t, store.images[0].IsPrimary)

	require.Len(t, store.reviews, 1)
	require.Len(t, store.summaries, 1)
	assert.Equal(t, 80, store.occupancy[0].OccupancyRate)
}

func TestFanoutSkipsListingsNotInserted(t *testing.T) {
	store := newFakeStore()
	f := NewFanout(store, testLogger())

	listings := []RawListing{
		{ID: "p1", Details: &RawDetails{RoomCount: 1}},
		{ID: "p2", Details: &RawDetails{RoomCount: 2}},
	}

	// p2 never made it into the store; its rows must not be derived.
	result := f.Run(map[string]int64{"p1": 101}, listings)

	assert.Empty(t, result.Failed)
	require.Len(t, store.details, 1)
	assert.Equal(t, int64(101), store.details[0].PropertyID)
}

func TestFanoutMissingOptionalBlocksDefaultToZero(t *testing.T) {
	store := newFakeStore()
	f := NewFanout(store, testLogger())

	result := f.Run(map[string]int64{"p1": 101}, []RawListing{{ID: "p1"}})

	// No images, reviews or summary rows, but the three one-to-one tables
	// still get zero-valued rows.
	assert.Len(t, result.Succeeded, 6)
	assert.Empty(t, result.Failed)
	assert.Len(t, store.details, 1)
	assert.Len(t, store.pricing, 1)
	assert.Len(t, store.occupancy, 1)
	assert.Empty(t, store.images)
	assert.Empty(t, store.reviews)
	assert.Empty(t, store.summaries)
}

func TestFanoutIsolatesTableFailure(t *testing.T) {
	store := newFakeStore()
	store.tableErr[TablePricing] = errInjected
	f := NewFanout(store, testLogger())

	result := f.Run(map[string]int64{"p1": 101}, []RawListing{
		{ID: "p1", Pricing: &RawPricing{WeeklyPrice: 100000}},
	})

	assert.Len(t, result.Succeeded, 5)
	require.Contains(t, result.Failed, TablePricing)
	assert.Equal(t, errInjected.Error(), result.Failed[TablePricing])

	// Sibling tables committed despite the pricing failure.
	assert.Len(t, store.details, 1)
	assert.Empty(t, store.pricing)
}
