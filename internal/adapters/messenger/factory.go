package messenger_adapter

import (
	"fmt"

	"realty-notify-system/internal/configs"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

// NewMessenger собирает реализацию MessengerPort по имени платформы из конфига
func NewMessenger(cfg configs.MessengerConfig) (port.MessengerPort, error) {
	switch domain.Platform(cfg.Platform) {
	case domain.PlatformTelegram:
		return NewTelegramMessenger(cfg.TelegramBotToken)
	case domain.PlatformViber:
		return NewViberMessenger(cfg.ViberAuthToken, cfg.ViberBotName)
	case domain.PlatformWhatsapp:
		return NewWhatsappMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsappFrom)
	default:
		return nil, fmt.Errorf("unknown messenger platform: %q", cfg.Platform)
	}
}
