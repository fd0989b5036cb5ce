package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type ListSubscriptionsUseCase struct {
	repo port.SubscriptionStorePort
}

func NewListSubscriptionsUseCase(repo port.SubscriptionStorePort) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		repo: repo,
	}
}

func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context, userID int64, limit, offset int) ([]*domain.UserFilter, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ListSubscriptions",
		"user_id":  userID,
	})

	if limit <= 0 || limit > 100 {
		limit = domain.MaxSubscriptionsPerUser
	}
	if offset < 0 {
		offset = 0
	}

	filters, total, err := uc.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		ucLogger.Error("Repository failed to list subscriptions", err, nil)
		return nil, 0, err
	}

	return filters, total, nil
}
