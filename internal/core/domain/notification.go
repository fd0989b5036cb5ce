package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationStatus статус записи в журнале уведомлений
type NotificationStatus string

const (
	NotificationEnqueued NotificationStatus = "enqueued"
	NotificationSent     NotificationStatus = "sent"
	NotificationFailed   NotificationStatus = "failed"
)

// NotificationRecord запись журнала уведомлений.
// Уникальность (user_id, ad_id, platform) гарантирует, что ретраи
// и повторный матчинг не приведут к повторной отправке.
type NotificationRecord struct {
	ID        string // UUID
	UserID    int64
	AdID      int64
	Platform  Platform
	Status    NotificationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SendTask задача на отправку одного уведомления через очередь
type SendTask struct {
	NotificationID string   `json:"notification_id"`
	UserID         int64    `json:"user_id"`
	AdID           int64    `json:"ad_id"`
	Platform       Platform `json:"platform"`
	MessengerID    string   `json:"messenger_id"`
	Text           string   `json:"text"`
	ImageURLs      []string `json:"image_urls"`
	ResourceURL    *string  `json:"resource_url"`
}

// BatchStats агрегированный результат обработки пачки объявлений
type BatchStats struct {
	Succeeded int
	Failed    int
	Enqueued  int // Количество поставленных задач на отправку
	Skipped   int // Уже уведомленные пары (user, ad, platform)
}

// IngestStats результат записи пачки объявлений в хранилище
type IngestStats struct {
	Created int
	Updated int
	Invalid int
}

const descriptionExcerptLen = 75

// FormatAdMessage собирает текст уведомления об объявлении
func FormatAdMessage(ad *Ad) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("💰 Ціна: %d грн.\n", int(ad.Price)))
	if ad.City != nil {
		b.WriteString(fmt.Sprintf("🏙️ Місто: %s\n", *ad.City))
	}
	if ad.Address != nil {
		b.WriteString(fmt.Sprintf("📍 Адреса: %s\n", *ad.Address))
	}
	if ad.RoomsCount != nil {
		b.WriteString(fmt.Sprintf("🛏️ Кіл-сть кімнат: %d\n", *ad.RoomsCount))
	}
	if ad.SquareFeet != nil {
		b.WriteString(fmt.Sprintf("📐 Площа: %g кв.м.\n", *ad.SquareFeet))
	}
	if ad.Floor != nil && ad.TotalFloors != nil {
		b.WriteString(fmt.Sprintf("🏢 Поверх: %d из %d\n", *ad.Floor, *ad.TotalFloors))
	} else if ad.Floor != nil {
		b.WriteString(fmt.Sprintf("🏢 Поверх: %d\n", *ad.Floor))
	}
	if ad.Description != nil && *ad.Description != "" {
		excerpt := []rune(*ad.Description)
		if len(excerpt) > descriptionExcerptLen {
			b.WriteString(fmt.Sprintf("📝 Опис: %s...\n", string(excerpt[:descriptionExcerptLen])))
		} else {
			b.WriteString(fmt.Sprintf("📝 Опис: %s\n", *ad.Description))
		}
	}

	return b.String()
}
