package messenger_adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramMessenger реализация MessengerPort поверх Telegram Bot API
type TelegramMessenger struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramMessenger создает клиента и проверяет токен запросом getMe
func NewTelegramMessenger(botToken string) (*TelegramMessenger, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot client: %w", err)
	}
	return &TelegramMessenger{bot: bot}, nil
}

func (m *TelegramMessenger) SendText(ctx context.Context, recipientID, text string) error {
	chatID, err := strconv.ParseInt(recipientID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid telegram chat id %q", domain.ErrPermanentDelivery, recipientID)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	_, err = m.bot.Send(msg)
	return m.classifyError(ctx, err)
}

func (m *TelegramMessenger) SendImage(ctx context.Context, recipientID, imageURL, caption string) error {
	chatID, err := strconv.ParseInt(recipientID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid telegram chat id %q", domain.ErrPermanentDelivery, recipientID)
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(imageURL))
	photo.Caption = caption
	_, err = m.bot.Send(photo)
	return m.classifyError(ctx, err)
}

// classifyError разделяет постоянные и временные отказы Telegram.
// 403 (бот заблокирован, пользователь деактивирован) и "chat not found" -
// постоянные, ретраить бессмысленно.
func (m *TelegramMessenger) classifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	logger := contextkeys.LoggerFromContext(ctx)

	msg := strings.ToLower(err.Error())
	permanent := strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "bot was blocked") ||
		strings.Contains(msg, "chat not found") ||
		strings.Contains(msg, "user is deactivated")
	if permanent {
		logger.Debug("Telegram rejected message permanently", port.Fields{"reason": err.Error()})
		return fmt.Errorf("%w: telegram: %s", domain.ErrPermanentDelivery, err.Error())
	}

	return fmt.Errorf("telegram send failed: %w", err)
}
