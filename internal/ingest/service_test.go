package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/changes"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/database"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/models"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/region"
)

func newTestService(t *testing.T) (*Service, *database.GormDB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	gdb := database.NewGormDBFromDB(db)
	require.NoError(t, gdb.InitSchema())

	logger := testLogger()
	resolver := region.NewResolver(db, logger)
	service := NewService(gdb, resolver, 1000, logger).
		WithChangeRecorder(changes.NewService(db, logger))

	return service, gdb
}

// newResolver builds a resolver on its own in-memory hierarchy store for
// tests that pair it with a fakeStore.
func newResolver(t *testing.T) *region.Resolver {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.NewGormDBFromDB(db).InitSchema())
	return region.NewResolver(db, testLogger())
}

type fakeIndexer struct {
	indexed []models.Property
}

func (f *fakeIndexer) IndexProperties(properties []models.Property) error {
	f.indexed = append(f.indexed, properties...)
	return nil
}

type recordingChanges struct {
	detected []models.PropertyChange
}

func (r *recordingChanges) Record(detected []models.PropertyChange) error {
	r.detected = append(r.detected, detected...)
	return nil
}

func seoulBatch() []RawListing {
	return []RawListing{
		{
			ID:      "p1",
			Name:    "역삼 스테이",
			Address: "서울특별시 강남구 역삼동 123-45",
			Details: &RawDetails{RoomCount: 1, HasElevator: true},
			Pricing: &RawPricing{WeeklyPrice: 350000},
		},
		{
			ID:      "p2",
			Name:    "역삼 하우스",
			Address: "서울특별시 강남구 역삼동 67-8",
			Pricing: &RawPricing{WeeklyPrice: 280000},
		},
		{
			ID:      "p3",
			Name:    "서초 룸",
			Address: "서울특별시 서초구 서초동 9-1",
		},
	}
}

func TestRunCreatesHierarchyAndProperties(t *testing.T) {
	service, gdb := newTestService(t)

	summary, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: seoulBatch(),
	})
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, 3, summary.NewProperties)
	assert.Zero(t, summary.UpdatedProperties)
	assert.Zero(t, summary.InvalidListings)
	assert.Empty(t, summary.ChunkErrors)
	assert.NotZero(t, summary.NeighborhoodID)

	var propertyCount int64
	gdb.DB().Model(&models.Property{}).Count(&propertyCount)
	assert.Equal(t, int64(3), propertyCount)

	// The hierarchy was created lazily: one city, two districts, two
	// neighborhoods, each neighborhood stamped with its group size.
	var neighborhoods []models.Neighborhood
	require.NoError(t, gdb.DB().Order("name").Find(&neighborhoods).Error)
	require.Len(t, neighborhoods, 2)
	counts := map[string]int{}
	for _, n := range neighborhoods {
		counts[n.Name] = n.PropertyCount
		assert.NotNil(t, n.LastSyncedAt)
	}
	assert.Equal(t, 2, counts["역삼동"])
	assert.Equal(t, 1, counts["서초동"])

	// Sub-entity rows fan out for every inserted property.
	var detailCount, pricingCount int64
	gdb.DB().Model(&models.PropertyDetails{}).Count(&detailCount)
	gdb.DB().Model(&models.PropertyPricing{}).Count(&pricingCount)
	assert.Equal(t, int64(3), detailCount)
	assert.Equal(t, int64(3), pricingCount)
}

func TestRunIsIdempotent(t *testing.T) {
	service, gdb := newTestService(t)

	_, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: seoulBatch(),
	})
	require.NoError(t, err)

	summary, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: seoulBatch(),
	})
	require.NoError(t, err)

	assert.Zero(t, summary.NewProperties)
	assert.Equal(t, 3, summary.UpdatedProperties)

	var propertyCount, detailCount int64
	gdb.DB().Model(&models.Property{}).Count(&propertyCount)
	gdb.DB().Model(&models.PropertyDetails{}).Count(&detailCount)
	assert.Equal(t, int64(3), propertyCount)
	// Sub-entities are write-once; the second run adds nothing.
	assert.Equal(t, int64(3), detailCount)
}

func TestRunReportsInvalidAndSkippedListings(t *testing.T) {
	service, _ := newTestService(t)

	listings := append(seoulBatch(),
		RawListing{ID: "bad1", Address: "not an address"},
		RawListing{ID: "bad2", Address: "서울특별시"},
		RawListing{ID: "out1", Address: "경기도 성남시 정자동 1"},
	)

	summary, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: listings,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.NewProperties)
	assert.Equal(t, 3, summary.InvalidListings)
	assert.Equal(t, 3, summary.ValidListings)
	require.Len(t, summary.InvalidRecords, 3)

	reasons := map[string]string{}
	for _, rec := range summary.InvalidRecords {
		reasons[rec.ExternalID] = rec.Reason
	}
	assert.Equal(t, ReasonParseFailed, reasons["bad1"])
	assert.Equal(t, ReasonIncompleteAddress, reasons["bad2"])
	assert.Equal(t, "outside target province", reasons["out1"])
}

func TestRunNoUsableListings(t *testing.T) {
	service, _ := newTestService(t)

	summary, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: []RawListing{{ID: "p1", Address: "경기도 성남시 정자동 1"}},
	})
	require.Error(t, err)
	assert.False(t, summary.Success)
	assert.NotEmpty(t, summary.Error)
}

func TestRunRecordsChangesOnUpdate(t *testing.T) {
	service, gdb := newTestService(t)

	batch := seoulBatch()
	_, err := service.Run(context.Background(), &Request{Province: "서울특별시", Listings: batch})
	require.NoError(t, err)

	batch[0].Name = "역삼 스테이 리뉴얼"
	_, err = service.Run(context.Background(), &Request{Province: "서울특별시", Listings: batch})
	require.NoError(t, err)

	var detected []models.PropertyChange
	require.NoError(t, gdb.DB().Find(&detected).Error)
	require.Len(t, detected, 1)
	assert.Equal(t, models.ChangeTypeName, detected[0].ChangeType)
	assert.Equal(t, "역삼 스테이", detected[0].OldValue)
	assert.Equal(t, "역삼 스테이 리뉴얼", detected[0].NewValue)
}

func TestRunIndexesWeeklyPrice(t *testing.T) {
	service, _ := newTestService(t)
	indexer := &fakeIndexer{}
	service.WithIndexer(indexer)

	_, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: seoulBatch(),
	})
	require.NoError(t, err)

	// Each indexed property carries its listing's weekly price so price
	// filters and sorts work against the search index.
	require.Len(t, indexer.indexed, 3)
	prices := map[string]int{}
	for _, p := range indexer.indexed {
		prices[p.ExternalID] = p.WeeklyPrice
	}
	assert.Equal(t, 350000, prices["p1"])
	assert.Equal(t, 280000, prices["p2"])
	assert.Zero(t, prices["p3"])
}

func TestRunSkipsChangeLogForFailedUpdates(t *testing.T) {
	store := newFakeStore()
	store.seed("p1", "p2")
	store.properties[store.known["p1"]] = models.Property{
		ID: store.known["p1"], ExternalID: "p1",
		Name: "역삼 구관", Address: "서울특별시 강남구 역삼동 1",
	}
	store.properties[store.known["p2"]] = models.Property{
		ID: store.known["p2"], ExternalID: "p2",
		Name: "역삼 신관", Address: "서울특별시 강남구 역삼동 2",
	}
	store.updateErrFor["p2"] = errInjected

	recorder := &recordingChanges{}
	service := NewService(store, newResolver(t), 1000, testLogger()).
		WithChangeRecorder(recorder)

	summary, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: []RawListing{
			{ID: "p1", Name: "역삼 본관", Address: "서울특별시 강남구 역삼동 1"},
			{ID: "p2", Name: "역삼 별관", Address: "서울특별시 강남구 역삼동 2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.UpdatedProperties)
	require.Len(t, summary.ChunkErrors, 1)

	// The failed update never reaches the change log.
	require.Len(t, recorder.detected, 1)
	assert.Equal(t, models.ChangeTypeName, recorder.detected[0].ChangeType)
	assert.Equal(t, store.known["p1"], recorder.detected[0].PropertyID)
	assert.Equal(t, "역삼 본관", recorder.detected[0].NewValue)
}

func TestRunAggregatesFanoutFailuresAcrossGroups(t *testing.T) {
	store := newFakeStore()
	store.tableErr[TablePricing] = errInjected

	service := NewService(store, newResolver(t), 1000, testLogger())

	summary, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: seoulBatch(),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.NewProperties)

	// Both groups failed the same table; neither message is dropped.
	msg := summary.FanoutFailures[TablePricing]
	assert.Contains(t, msg, "역삼동")
	assert.Contains(t, msg, "서초동")
	assert.Contains(t, msg, errInjected.Error())
}

func TestRunStampsPropertyCountWithBatchSize(t *testing.T) {
	service, gdb := newTestService(t)

	_, err := service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: seoulBatch(),
	})
	require.NoError(t, err)

	// A later smaller batch overwrites the stamp with its own size; the
	// stamp reflects the latest run, not the stored row count.
	_, err = service.Run(context.Background(), &Request{
		Province: "서울특별시",
		Listings: seoulBatch()[:1],
	})
	require.NoError(t, err)

	var neighborhood models.Neighborhood
	require.NoError(t, gdb.DB().Where("name = ?", "역삼동").First(&neighborhood).Error)
	assert.Equal(t, 1, neighborhood.PropertyCount)

	var stored int64
	gdb.DB().Model(&models.Property{}).Where("neighborhood_id = ?", neighborhood.ID).Count(&stored)
	assert.Equal(t, int64(2), stored)
}
