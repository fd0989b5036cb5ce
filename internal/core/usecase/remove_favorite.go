package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/port"
)

type RemoveFavoriteUseCase struct {
	favorites port.FavoriteStorePort
}

func NewRemoveFavoriteUseCase(favorites port.FavoriteStorePort) *RemoveFavoriteUseCase {
	return &RemoveFavoriteUseCase{
		favorites: favorites,
	}
}

func (uc *RemoveFavoriteUseCase) Execute(ctx context.Context, userID, adID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RemoveFavorite",
		"user_id":  userID,
		"ad_id":    adID,
	})

	ucLogger.Info("Use case started", nil)

	if err := uc.favorites.Remove(ctx, userID, adID); err != nil {
		ucLogger.Error("Repository failed to remove favorite", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
