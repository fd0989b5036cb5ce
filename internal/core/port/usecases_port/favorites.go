package usecases_port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

type AddFavoriteUseCasePort interface {
	Execute(ctx context.Context, userID, adID int64) error
}

type RemoveFavoriteUseCasePort interface {
	Execute(ctx context.Context, userID, adID int64) error
}

type ListFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID int64, limit, offset int) ([]*domain.Ad, int64, error)
}
