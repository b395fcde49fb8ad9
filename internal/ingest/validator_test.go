package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBatchPartitions(t *testing.T) {
	listings := []RawListing{
		{ID: "p1", Address: "서울특별시 강남구 역삼동 123"},
		{ID: "p2", Address: "no hangul here"},
		{ID: "p3", Address: "서울특별시"},
		{ID: "p4", Address: "강원도 춘천시 퇴계동 55"},
	}

	result := ValidateBatch(listings)

	require.Len(t, result.Valid, 2)
	assert.Equal(t, "p1", result.Valid[0].Listing.ID)
	assert.Equal(t, "p4", result.Valid[1].Listing.ID)
	assert.Equal(t, "강원특별자치도", result.Valid[1].Parsed.Province)

	require.Len(t, result.Invalid, 2)
	assert.Equal(t, "p2", result.Invalid[0].ExternalID)
	assert.Equal(t, ReasonParseFailed, result.Invalid[0].Reason)
	assert.Equal(t, "p3", result.Invalid[1].ExternalID)
	assert.Equal(t, ReasonIncompleteAddress, result.Invalid[1].Reason)

	total, valid, invalid := result.Summary()
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, valid)
	assert.Equal(t, 2, invalid)
}

func TestValidateBatchEmpty(t *testing.T) {
	result := ValidateBatch(nil)
	assert.Empty(t, result.Valid)
	assert.Empty(t, result.Invalid)
}
