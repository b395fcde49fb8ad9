package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullAddress(t *testing.T) {
	result := Parse("서울특별시 강남구 역삼동 123-45")
	require.NotNil(t, result)
	assert.Equal(t, "서울특별시", result.Province)
	assert.Equal(t, "강남구", result.District)
	assert.Equal(t, "역삼동", result.Neighborhood)
	assert.True(t, result.IsComplete())
	assert.Equal(t, "서울특별시 강남구 역삼동", result.FullAddress())
}

func TestParseProvinceRename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		province string
	}{
		{"gangwon legacy", "강원도 춘천시 퇴계동 123", "강원특별자치도"},
		{"jeonbuk legacy", "전라북도 전주시 효자동 55", "전북특별자치도"},
		{"jeju legacy", "제주도 제주시 이도동 1", "제주특별자치도"},
		{"already canonical", "강원특별자치도 춘천시 퇴계동", "강원특별자치도"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.input)
			require.NotNil(t, result)
			assert.Equal(t, tt.province, result.Province)
		})
	}
}

func TestParseDistrictAndNeighborhood(t *testing.T) {
	result := Parse("경기도 성남시 분당구 정자동 178-1")
	require.NotNil(t, result)
	assert.Equal(t, "경기도", result.Province)
	assert.Equal(t, "성남시", result.District)
	assert.Equal(t, "정자동", result.Neighborhood)
}

func TestParseSkipsBuildingUnitLabels(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		neighborhood string
	}{
		{"numeric dong after neighborhood", "서울특별시 강남구 대치동 은마아파트 101동", "대치동"},
		{"letter dong", "서울특별시 송파구 잠실동 리센츠 A동", "잠실동"},
		{"apartment dong only", "서울특별시 강남구 아파트3동", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.input)
			require.NotNil(t, result)
			assert.Equal(t, tt.neighborhood, result.Neighborhood)
		})
	}
}

func TestParseNumberedGaNeighborhood(t *testing.T) {
	result := Parse("서울특별시 중구 을지로5가 13-2")
	require.NotNil(t, result)
	assert.Equal(t, "중구", result.District)
	assert.Equal(t, "을지로5가", result.Neighborhood)
}

func TestParseRejectsBareGaSuffix(t *testing.T) {
	// 상가-style commercial names share the 가 ending but are not
	// administrative units.
	result := Parse("서울특별시 마포구 서교상가 3층")
	require.NotNil(t, result)
	assert.Equal(t, "마포구", result.District)
	assert.Empty(t, result.Neighborhood)
}

func TestParseIncompleteAddress(t *testing.T) {
	result := Parse("서울특별시")
	require.NotNil(t, result)
	assert.Equal(t, "서울특별시", result.Province)
	assert.Empty(t, result.District)
	assert.Empty(t, result.Neighborhood)
	assert.False(t, result.IsComplete())
}

func TestParseNoProvince(t *testing.T) {
	assert.Nil(t, Parse("강남구 역삼동 123"))
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("   "))
	assert.Nil(t, Parse("some english address"))
}

func TestParseRuralSuffixes(t *testing.T) {
	result := Parse("전라남도 담양군 담양읍 123")
	require.NotNil(t, result)
	assert.Equal(t, "전라남도", result.Province)
	assert.Equal(t, "담양군", result.District)
	assert.Equal(t, "담양읍", result.Neighborhood)
}

func TestCanonicalProvince(t *testing.T) {
	assert.Equal(t, "강원특별자치도", CanonicalProvince("강원도"))
	assert.Equal(t, "강원특별자치도", CanonicalProvince("강원특별자치도"))
	assert.Equal(t, "서울특별시", CanonicalProvince(" 서울특별시 "))
}

func TestSameProvince(t *testing.T) {
	assert.True(t, SameProvince("강원도", "강원특별자치도"))
	assert.True(t, SameProvince("강원특별자치도", "강원도"))
	assert.True(t, SameProvince("서울특별시", "서울특별시"))
	assert.False(t, SameProvince("서울특별시", "경기도"))
}
