package port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

// UserStorePort контракт хранилища пользователей
type UserStorePort interface {
	FindByID(ctx context.Context, userID int64) (*domain.User, error)
	FindByMessengerID(ctx context.Context, platform domain.Platform, messengerID string) (*domain.User, error)
	FindByIDs(ctx context.Context, userIDs []int64) ([]*domain.User, error)

	// CreateWithTrial создает пользователя с пробным периодом 7 дней
	CreateWithTrial(ctx context.Context, platform domain.Platform, messengerID string) (*domain.User, error)

	// LinkPlatform привязывает идентификатор платформы к существующему пользователю
	LinkPlatform(ctx context.Context, userID int64, platform domain.Platform, messengerID string) error

	Delete(ctx context.Context, userID int64) error
	TouchLastActive(ctx context.Context, userID int64) error
}
