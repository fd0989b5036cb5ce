package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "ScrapedAdsEvent/1.0.0", generateKeyFromPath("events/scraped-ads/v1.json"))
	assert.Equal(t, "AdNotificationEvent/1.0.0", generateKeyFromPath("events/ad-notification/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("events/broken.json"))
}

func TestValidateEvent_ScrapedAds(t *testing.T) {
	valid := []byte(`{
		"external_id": "kufar-123",
		"resource_url": "https://example.com/ads/123",
		"property_type": "apartment",
		"city": "Київ",
		"rooms_count": 2,
		"price": 450.5,
		"image_urls": ["https://example.com/img/1.jpg"],
		"phones": [{"phone": "+380441234567", "viber_link": null}]
	}`)
	require.NoError(t, ValidateEvent("ScrapedAdsEvent", "1.0.0", valid))

	missingID := []byte(`{"resource_url": "https://example.com/ads/123", "price": 100}`)
	assert.Error(t, ValidateEvent("ScrapedAdsEvent", "1.0.0", missingID))

	notJSON := []byte(`{broken`)
	assert.Error(t, ValidateEvent("ScrapedAdsEvent", "1.0.0", notJSON))
}

func TestValidateEvent_AdNotification(t *testing.T) {
	valid := []byte(`{
		"notification_id": "a3a1c2aa-9a35-4f5e-9f50-1a2b3c4d5e6f",
		"user_id": 7,
		"ad_id": 42,
		"platform": "telegram",
		"messenger_id": "100500",
		"text": "Нова квартира",
		"image_urls": [],
		"resource_url": "https://example.com/ads/42"
	}`)
	require.NoError(t, ValidateEvent("AdNotificationEvent", "1.0.0", valid))

	badPlatform := []byte(`{
		"notification_id": "a3a1c2aa-9a35-4f5e-9f50-1a2b3c4d5e6f",
		"user_id": 7,
		"ad_id": 42,
		"platform": "icq",
		"messenger_id": "100500",
		"text": "Нова квартира"
	}`)
	assert.Error(t, ValidateEvent("AdNotificationEvent", "1.0.0", badPlatform))
}

func TestValidateEvent_UnknownSchema(t *testing.T) {
	err := ValidateEvent("NoSuchEvent", "9.9.9", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
