package domain

import "time"

// Platform закрытый набор платформ доставки
type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformViber    Platform = "viber"
	PlatformWhatsapp Platform = "whatsapp"
)

// Порядок выбора платформы для уведомления: первая привязанная побеждает
var platformPreference = []Platform{PlatformTelegram, PlatformViber, PlatformWhatsapp}

// Длительность бесплатного пробного периода с момента первого контакта
const TrialPeriod = 7 * 24 * time.Hour

// User идентичность пользователя и его права доступа
type User struct {
	ID                int64
	TelegramID        *string
	ViberID           *string
	WhatsappID        *string
	Email             *string
	PhoneNumber       *string
	EmailVerified     bool
	PhoneVerified     bool
	FreeUntil         *time.Time // Конец пробного периода
	SubscriptionUntil *time.Time // Конец оплаченного периода
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastActive        *time.Time
}

// IsActive сообщает, имеет ли пользователь право на уведомления.
// Сравнение строгое: граница периода ровно "сейчас" уже не активна.
func (u *User) IsActive(now time.Time) bool {
	if u.FreeUntil != nil && u.FreeUntil.After(now) {
		return true
	}
	if u.SubscriptionUntil != nil && u.SubscriptionUntil.After(now) {
		return true
	}
	return false
}

// MessengerID возвращает идентификатор пользователя на указанной платформе
func (u *User) MessengerID(platform Platform) *string {
	switch platform {
	case PlatformTelegram:
		return u.TelegramID
	case PlatformViber:
		return u.ViberID
	case PlatformWhatsapp:
		return u.WhatsappID
	}
	return nil
}

// PreferredPlatform выбирает ровно одну платформу для уведомления:
// telegram, затем viber, затем whatsapp. Возвращает ErrNoLinkedPlatform,
// если ни одна платформа не привязана.
func (u *User) PreferredPlatform() (Platform, string, error) {
	for _, p := range platformPreference {
		if id := u.MessengerID(p); id != nil && *id != "" {
			return p, *id, nil
		}
	}
	return "", "", ErrNoLinkedPlatform
}
