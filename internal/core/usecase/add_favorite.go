package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/port"
)

type AddFavoriteUseCase struct {
	favorites port.FavoriteStorePort
	adStore   port.AdStorePort
}

func NewAddFavoriteUseCase(favorites port.FavoriteStorePort, adStore port.AdStorePort) *AddFavoriteUseCase {
	return &AddFavoriteUseCase{
		favorites: favorites,
		adStore:   adStore,
	}
}

// Execute добавляет объявление в закладки. Повторное добавление той же
// пары не ошибка; превышение лимита отклоняется хранилищем.
func (uc *AddFavoriteUseCase) Execute(ctx context.Context, userID, adID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "AddFavorite",
		"user_id":  userID,
		"ad_id":    adID,
	})

	ucLogger.Info("Use case started", nil)

	// Убеждаемся, что объявление существует
	if _, err := uc.adStore.FindByID(ctx, adID); err != nil {
		ucLogger.Error("Ad lookup failed", err, nil)
		return err
	}

	if err := uc.favorites.Add(ctx, userID, adID); err != nil {
		ucLogger.Error("Repository failed to add favorite", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
