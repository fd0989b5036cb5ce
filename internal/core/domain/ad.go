package domain

import "time"

// AdPhone телефон из объявления, опционально со ссылкой на Viber
type AdPhone struct {
	Phone     string
	ViberLink *string
}

// Ad нормализованное объявление о недвижимости
type Ad struct {
	ID          int64
	ExternalID  string // Уникальный идентификатор на платформе-источнике, ключ дедупликации
	PropertyType *string
	City        *string
	Address     *string
	Price       float64
	Currency    *string
	SquareFeet  *float64
	RoomsCount  *int
	Floor       *int
	TotalFloors *int
	Description *string
	ResourceURL string
	InsertTime  *time.Time // Время публикации на источнике
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ImageURLs []string
	Phones    []AdPhone
}

// Validate проверяет обязательные поля перед записью в хранилище
func (a *Ad) Validate() error {
	if a.ExternalID == "" || a.ResourceURL == "" {
		return ErrInvalidAd
	}
	if a.Price < 0 {
		return ErrInvalidAd
	}
	return nil
}

// LeadImage возвращает первую картинку объявления или пустую строку
func (a *Ad) LeadImage() string {
	if len(a.ImageURLs) == 0 {
		return ""
	}
	return a.ImageURLs[0]
}
