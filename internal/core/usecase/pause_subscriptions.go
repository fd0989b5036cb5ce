package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/port"
)

type PauseSubscriptionsUseCase struct {
	repo port.SubscriptionStorePort
}

func NewPauseSubscriptionsUseCase(repo port.SubscriptionStorePort) *PauseSubscriptionsUseCase {
	return &PauseSubscriptionsUseCase{
		repo: repo,
	}
}

// Execute ставит на паузу или возобновляет подписки.
// subscriptionID == 0 применяет действие ко всем подпискам пользователя.
func (uc *PauseSubscriptionsUseCase) Execute(ctx context.Context, userID, subscriptionID int64, paused bool) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":        "PauseSubscriptions",
		"user_id":         userID,
		"subscription_id": subscriptionID,
		"paused":          paused,
	})

	ucLogger.Info("Use case started", nil)

	var err error
	if subscriptionID == 0 {
		err = uc.repo.SetAllPaused(ctx, userID, paused)
	} else {
		err = uc.repo.SetPaused(ctx, userID, subscriptionID, paused)
	}
	if err != nil {
		ucLogger.Error("Repository failed to change pause state", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
