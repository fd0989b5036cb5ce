package usecases_port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

type DeliverNotificationUseCasePort interface {
	Execute(ctx context.Context, task *domain.SendTask) error
}
