package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type UpdateSubscriptionUseCase struct {
	repo port.SubscriptionStorePort
}

func NewUpdateSubscriptionUseCase(repo port.SubscriptionStorePort) *UpdateSubscriptionUseCase {
	return &UpdateSubscriptionUseCase{
		repo: repo,
	}
}

func (uc *UpdateSubscriptionUseCase) Execute(ctx context.Context, filter *domain.UserFilter) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":        "UpdateSubscription",
		"user_id":         filter.UserID,
		"subscription_id": filter.ID,
	})

	ucLogger.Info("Use case started", nil)

	existing, err := uc.repo.FindByID(ctx, filter.ID)
	if err != nil {
		ucLogger.Error("Subscription not found", err, nil)
		return err
	}
	if existing.UserID != filter.UserID {
		ucLogger.Warn("Subscription belongs to another user", nil)
		return domain.ErrSubscriptionNotFound
	}

	if err := uc.repo.Update(ctx, filter); err != nil {
		ucLogger.Error("Repository failed to update subscription", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
