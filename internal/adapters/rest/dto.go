package rest

import (
	"time"

	"realty-notify-system/internal/core/domain"
)

// SubscriptionRequest тело запроса на создание/обновление подписки.
// Отсутствующее поле означает "любое значение".
type SubscriptionRequest struct {
	PropertyType *string  `json:"property_type,omitempty"`
	City         *string  `json:"city,omitempty"`
	RoomsCount   []int    `json:"rooms_count,omitempty"`
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
}

// SubscriptionResponse карточка подписки в ответе
type SubscriptionResponse struct {
	ID           int64     `json:"id"`
	PropertyType *string   `json:"property_type,omitempty"`
	City         *string   `json:"city,omitempty"`
	RoomsCount   []int     `json:"rooms_count,omitempty"`
	PriceMin     *float64  `json:"price_min,omitempty"`
	PriceMax     *float64  `json:"price_max,omitempty"`
	IsPaused     bool      `json:"is_paused"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PaginatedSubscriptionsResponse список подписок с пагинацией
type PaginatedSubscriptionsResponse struct {
	Data   []SubscriptionResponse `json:"data"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// PauseRequest тело запроса на паузу/возобновление подписок
type PauseRequest struct {
	Paused bool `json:"paused"`
}

// AddFavoriteRequest тело запроса на добавление объявления в закладки
type AddFavoriteRequest struct {
	AdID int64 `json:"ad_id"`
}

// AdResponse карточка объявления в ответе
type AdResponse struct {
	ID           int64      `json:"id"`
	ExternalID   string     `json:"external_id"`
	PropertyType *string    `json:"property_type,omitempty"`
	City         *string    `json:"city,omitempty"`
	Address      *string    `json:"address,omitempty"`
	Price        float64    `json:"price"`
	Currency     *string    `json:"currency,omitempty"`
	Area         *float64   `json:"area,omitempty"`
	RoomsCount   *int       `json:"rooms_count,omitempty"`
	Floor        *int       `json:"floor,omitempty"`
	TotalFloors  *int       `json:"total_floors,omitempty"`
	Description  *string    `json:"description,omitempty"`
	ResourceURL  string     `json:"resource_url"`
	ImageURLs    []string   `json:"image_urls,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// PaginatedFavoritesResponse список закладок с пагинацией
type PaginatedFavoritesResponse struct {
	Data   []AdResponse `json:"data"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// RegisterContactRequest тело запроса привязки контакта мессенджера
type RegisterContactRequest struct {
	Platform    string `json:"platform"`
	MessengerID string `json:"messenger_id"`
}

// LinkAccountsRequest тело запроса слияния аккаунтов
type LinkAccountsRequest struct {
	Platform    string `json:"platform"`
	MessengerID string `json:"messenger_id"`
}

// UserResponse карточка пользователя в ответе
type UserResponse struct {
	ID                int64      `json:"id"`
	TelegramID        *string    `json:"telegram_id,omitempty"`
	ViberID           *string    `json:"viber_id,omitempty"`
	WhatsappID        *string    `json:"whatsapp_id,omitempty"`
	Email             *string    `json:"email,omitempty"`
	PhoneNumber       *string    `json:"phone_number,omitempty"`
	FreeUntil         *time.Time `json:"free_until,omitempty"`
	SubscriptionUntil *time.Time `json:"subscription_until,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toSubscriptionResponse(f *domain.UserFilter) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           f.ID,
		PropertyType: f.PropertyType,
		City:         f.City,
		RoomsCount:   f.RoomsCount,
		PriceMin:     f.PriceMin,
		PriceMax:     f.PriceMax,
		IsPaused:     f.IsPaused,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func toAdResponse(ad *domain.Ad) AdResponse {
	return AdResponse{
		ID:           ad.ID,
		ExternalID:   ad.ExternalID,
		PropertyType: ad.PropertyType,
		City:         ad.City,
		Address:      ad.Address,
		Price:        ad.Price,
		Currency:     ad.Currency,
		Area:         ad.SquareFeet,
		RoomsCount:   ad.RoomsCount,
		Floor:        ad.Floor,
		TotalFloors:  ad.TotalFloors,
		Description:  ad.Description,
		ResourceURL:  ad.ResourceURL,
		ImageURLs:    ad.ImageURLs,
		PublishedAt:  ad.InsertTime,
	}
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		TelegramID:        u.TelegramID,
		ViberID:           u.ViberID,
		WhatsappID:        u.WhatsappID,
		Email:             u.Email,
		PhoneNumber:       u.PhoneNumber,
		FreeUntil:         u.FreeUntil,
		SubscriptionUntil: u.SubscriptionUntil,
		CreatedAt:         u.CreatedAt,
	}
}
