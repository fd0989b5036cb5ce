package port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

// FavoriteStorePort контракт хранилища закладок
type FavoriteStorePort interface {
	// Add идемпотентен: повторное добавление той же пары (user, ad) не ошибка.
	// Возвращает ErrFavoritesLimitReached при превышении лимита.
	Add(ctx context.Context, userID, adID int64) error
	Remove(ctx context.Context, userID, adID int64) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Ad, int64, error)
}
