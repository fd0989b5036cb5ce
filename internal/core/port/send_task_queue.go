package port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

// SendTaskQueuePort контракт постановки задач на отправку в очередь.
// Fire-and-forget с точки зрения вызывающего: доставку и ретраи
// обеспечивает брокер.
type SendTaskQueuePort interface {
	EnqueueSendTask(ctx context.Context, task *domain.SendTask) error
}
