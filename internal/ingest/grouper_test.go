package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validated(t *testing.T, listings []RawListing) []ValidListing {
	t.Helper()
	result := ValidateBatch(listings)
	require.Empty(t, result.Invalid)
	return result.Valid
}

func TestGroupByRegionGroupsAndPreservesOrder(t *testing.T) {
	listings := validated(t, []RawListing{
		{ID: "p1", Address: "서울특별시 강남구 역삼동 1"},
		{ID: "p2", Address: "서울특별시 강남구 대치동 2"},
		{ID: "p3", Address: "서울특별시 강남구 역삼동 3"},
		{ID: "p4", Address: "서울특별시 서초구 서초동 4"},
	})

	groups, skipped := GroupByRegion("서울특별시", listings)
	assert.Empty(t, skipped)
	require.Len(t, groups, 3)

	// Groups appear in first-seen order, listings in batch order.
	assert.Equal(t, RegionKey{"강남구", "역삼동"}, groups[0].Key)
	require.Len(t, groups[0].Listings, 2)
	assert.Equal(t, "p1", groups[0].Listings[0].Listing.ID)
	assert.Equal(t, "p3", groups[0].Listings[1].Listing.ID)

	assert.Equal(t, RegionKey{"강남구", "대치동"}, groups[1].Key)
	assert.Equal(t, RegionKey{"서초구", "서초동"}, groups[2].Key)
}

func TestGroupByRegionSkipsOtherProvinces(t *testing.T) {
	listings := validated(t, []RawListing{
		{ID: "p1", Address: "서울특별시 강남구 역삼동 1"},
		{ID: "p2", Address: "경기도 성남시 정자동 2"},
	})

	groups, skipped := GroupByRegion("서울특별시", listings)
	require.Len(t, groups, 1)
	require.Len(t, skipped, 1)
	assert.Equal(t, "p2", skipped[0].ExternalID)
	assert.Equal(t, "outside target province", skipped[0].Reason)
}

func TestGroupByRegionProvinceRenameSymmetry(t *testing.T) {
	listings := validated(t, []RawListing{
		{ID: "p1", Address: "강원도 춘천시 퇴계동 1"},
		{ID: "p2", Address: "강원특별자치도 춘천시 퇴계동 2"},
	})

	// Caller using the legacy name matches both forms.
	groups, skipped := GroupByRegion("강원도", listings)
	assert.Empty(t, skipped)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Listings, 2)

	// Caller using the canonical name matches both forms too.
	groups, skipped = GroupByRegion("강원특별자치도", listings)
	assert.Empty(t, skipped)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Listings, 2)
}
