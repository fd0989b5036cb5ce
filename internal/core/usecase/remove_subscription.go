package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/port"
)

type RemoveSubscriptionUseCase struct {
	repo port.SubscriptionStorePort
}

func NewRemoveSubscriptionUseCase(repo port.SubscriptionStorePort) *RemoveSubscriptionUseCase {
	return &RemoveSubscriptionUseCase{
		repo: repo,
	}
}

func (uc *RemoveSubscriptionUseCase) Execute(ctx context.Context, userID, subscriptionID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":        "RemoveSubscription",
		"user_id":         userID,
		"subscription_id": subscriptionID,
	})

	ucLogger.Info("Use case started", nil)

	if err := uc.repo.Delete(ctx, userID, subscriptionID); err != nil {
		ucLogger.Error("Repository failed to delete subscription", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
