package port

import (
	"context"
	"time"

	"realty-notify-system/internal/core/domain"
)

// SubscriptionStorePort контракт хранилища подписок
type SubscriptionStorePort interface {
	// FindActiveFilters возвращает все незапаузенные подписки пользователей,
	// которые активны (действует пробный или оплаченный период) на момент now.
	// Проверка полей фильтра против объявления выполняется ядром.
	FindActiveFilters(ctx context.Context, now time.Time) ([]*domain.UserFilter, error)

	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.UserFilter, int64, error)
	FindByID(ctx context.Context, subscriptionID int64) (*domain.UserFilter, error)

	// Create возвращает ErrSubscriptionLimitReached при превышении лимита
	Create(ctx context.Context, filter *domain.UserFilter) error
	Update(ctx context.Context, filter *domain.UserFilter) error
	Delete(ctx context.Context, userID, subscriptionID int64) error

	SetPaused(ctx context.Context, userID, subscriptionID int64, paused bool) error
	SetAllPaused(ctx context.Context, userID int64, paused bool) error

	// TransferOwnership переносит подписки absorbed-пользователя при слиянии аккаунтов
	TransferOwnership(ctx context.Context, fromUserID, toUserID int64) error
}
