package port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

// NotificationLedgerPort журнал уведомлений с уникальностью (user, ad, platform).
// Консультируется ПЕРЕД постановкой задачи в очередь: вставка-или-пропуск.
type NotificationLedgerPort interface {
	// InsertIfAbsent возвращает false, если запись уже существовала
	// (пользователь уже был уведомлен об этом объявлении на этой платформе)
	InsertIfAbsent(ctx context.Context, record *domain.NotificationRecord) (bool, error)

	MarkSent(ctx context.Context, notificationID string) error
	MarkFailed(ctx context.Context, notificationID string) error
}
