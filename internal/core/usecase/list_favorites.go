package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type ListFavoritesUseCase struct {
	favorites port.FavoriteStorePort
}

func NewListFavoritesUseCase(favorites port.FavoriteStorePort) *ListFavoritesUseCase {
	return &ListFavoritesUseCase{
		favorites: favorites,
	}
}

func (uc *ListFavoritesUseCase) Execute(ctx context.Context, userID int64, limit, offset int) ([]*domain.Ad, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ListFavorites",
		"user_id":  userID,
	})

	if limit <= 0 || limit > 100 {
		limit = domain.MaxFavoritesPerUser
	}
	if offset < 0 {
		offset = 0
	}

	ads, total, err := uc.favorites.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		ucLogger.Error("Repository failed to list favorites", err, nil)
		return nil, 0, err
	}

	return ads, total, nil
}
