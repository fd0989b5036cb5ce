package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func floatPtr(f float64) *float64 { return &f }

func testAd() *Ad {
	return &Ad{
		ID:           1,
		ExternalID:   "src-1",
		PropertyType: strPtr("apartment"),
		City:         strPtr("Київ"),
		Price:        15000,
		RoomsCount:   intPtr(2),
		ResourceURL:  "https://example.com/ads/1",
	}
}

func TestUserFilter_Matches_AllFieldsNilIsWildcard(t *testing.T) {
	f := &UserFilter{ID: 1, UserID: 10}
	assert.True(t, f.Matches(testAd()))

	noAttrs := &Ad{ID: 2, ExternalID: "src-2", Price: 1, ResourceURL: "https://example.com/ads/2"}
	assert.True(t, f.Matches(noAttrs))
}

func TestUserFilter_Matches_PriceBoundariesInclusive(t *testing.T) {
	f := &UserFilter{PriceMin: floatPtr(10000), PriceMax: floatPtr(15000)}

	ad := testAd()

	ad.Price = 10000
	assert.True(t, f.Matches(ad), "price exactly at min must match")

	ad.Price = 15000
	assert.True(t, f.Matches(ad), "price exactly at max must match")

	ad.Price = 9999
	assert.False(t, f.Matches(ad))

	ad.Price = 15001
	assert.False(t, f.Matches(ad))
}

func TestUserFilter_Matches_RoomsMembership(t *testing.T) {
	f := &UserFilter{RoomsCount: []int{1, 3}}

	ad := testAd()
	ad.RoomsCount = intPtr(3)
	assert.True(t, f.Matches(ad))

	ad.RoomsCount = intPtr(2)
	assert.False(t, f.Matches(ad))

	// Объявление без указанного количества комнат не проходит заполненный фильтр
	ad.RoomsCount = nil
	assert.False(t, f.Matches(ad))
}

func TestUserFilter_Matches_PropertyTypeAndCity(t *testing.T) {
	f := &UserFilter{PropertyType: strPtr("house"), City: strPtr("Львів")}
	assert.False(t, f.Matches(testAd()))

	ad := testAd()
	ad.PropertyType = strPtr("house")
	ad.City = strPtr("Львів")
	assert.True(t, f.Matches(ad))
}

func TestUserFilter_Matches_PausedNeverMatches(t *testing.T) {
	f := &UserFilter{IsPaused: true}
	assert.False(t, f.Matches(testAd()), "paused subscription must not match even a wildcard")
}
