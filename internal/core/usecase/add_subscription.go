package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type AddSubscriptionUseCase struct {
	repo port.SubscriptionStorePort
}

func NewAddSubscriptionUseCase(repo port.SubscriptionStorePort) *AddSubscriptionUseCase {
	return &AddSubscriptionUseCase{
		repo: repo,
	}
}

// Execute создает подписку. Лимит на пользователя проверяется хранилищем
// на записи: превышение это отклоненная операция, а не тихое усечение.
func (uc *AddSubscriptionUseCase) Execute(ctx context.Context, filter *domain.UserFilter) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "AddSubscription",
		"user_id":  filter.UserID,
	})

	ucLogger.Info("Use case started", nil)

	if err := uc.repo.Create(ctx, filter); err != nil {
		ucLogger.Error("Repository failed to create subscription", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"subscription_id": filter.ID,
	})
	return nil
}
