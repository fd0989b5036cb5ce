package usecases_port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

type RegisterContactUseCasePort interface {
	// Execute возвращает существующего или только что созданного пользователя
	Execute(ctx context.Context, platform domain.Platform, messengerID string) (*domain.User, error)
}

type LinkAccountsUseCasePort interface {
	// Execute сливает идентичность платформы absorbed-пользователя
	// в primary-пользователя и переносит его подписки
	Execute(ctx context.Context, primaryUserID int64, platform domain.Platform, messengerID string) error
}
