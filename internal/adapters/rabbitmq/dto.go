package rabbitmq_adapter

import (
	"time"

	"realty-notify-system/internal/core/domain"
)

// ScrapedAdEventDTO - структура, которая соответствует JSON-схеме ScrapedAdsEvent
type ScrapedAdEventDTO struct {
	ExternalID   string            `json:"external_id"`
	ResourceURL  string            `json:"resource_url"`
	PropertyType *string           `json:"property_type,omitempty"`
	City         *string           `json:"city,omitempty"`
	Address      *string           `json:"address,omitempty"`
	RoomsCount   *int              `json:"rooms_count,omitempty"`
	Price        float64           `json:"price"`
	Currency     *string           `json:"currency,omitempty"`
	Area         *float64          `json:"area,omitempty"`
	Floor        *int              `json:"floor,omitempty"`
	TotalFloors  *int              `json:"total_floors,omitempty"`
	Description  *string           `json:"description,omitempty"`
	ImageURLs    []string          `json:"image_urls,omitempty"`
	Phones       []AdPhoneEventDTO `json:"phones,omitempty"`
	PublishedAt  *time.Time        `json:"published_at,omitempty"`
}

type AdPhoneEventDTO struct {
	Phone     string  `json:"phone"`
	ViberLink *string `json:"viber_link,omitempty"`
}

func toDomainAd(dto ScrapedAdEventDTO) *domain.Ad {
	ad := &domain.Ad{
		ExternalID:   dto.ExternalID,
		ResourceURL:  dto.ResourceURL,
		PropertyType: dto.PropertyType,
		City:         dto.City,
		Address:      dto.Address,
		RoomsCount:   dto.RoomsCount,
		Price:        dto.Price,
		Currency:     dto.Currency,
		SquareFeet:   dto.Area,
		Floor:        dto.Floor,
		TotalFloors:  dto.TotalFloors,
		Description:  dto.Description,
		ImageURLs:    dto.ImageURLs,
		InsertTime:   dto.PublishedAt,
	}
	for _, p := range dto.Phones {
		ad.Phones = append(ad.Phones, domain.AdPhone{Phone: p.Phone, ViberLink: p.ViberLink})
	}
	return ad
}
