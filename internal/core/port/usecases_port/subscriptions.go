package usecases_port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

type AddSubscriptionUseCasePort interface {
	Execute(ctx context.Context, filter *domain.UserFilter) error
}

type UpdateSubscriptionUseCasePort interface {
	Execute(ctx context.Context, filter *domain.UserFilter) error
}

type RemoveSubscriptionUseCasePort interface {
	Execute(ctx context.Context, userID, subscriptionID int64) error
}

type ListSubscriptionsUseCasePort interface {
	Execute(ctx context.Context, userID int64, limit, offset int) ([]*domain.UserFilter, int64, error)
}

type PauseSubscriptionsUseCasePort interface {
	// subscriptionID == 0 означает "все подписки пользователя"
	Execute(ctx context.Context, userID, subscriptionID int64, paused bool) error
}
