package usecase

import (
	"context"
	"errors"
	"fmt"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type DeliverNotificationUseCase struct {
	messenger port.MessengerPort
	ledger    port.NotificationLedgerPort
}

func NewDeliverNotificationUseCase(messenger port.MessengerPort, ledger port.NotificationLedgerPort) *DeliverNotificationUseCase {
	return &DeliverNotificationUseCase{
		messenger: messenger,
		ledger:    ledger,
	}
}

// Execute выполняет фактическую отправку одной задачи.
// Постоянный отказ платформы фиксируется в журнале как терминальный и
// возвращается обернутым в domain.ErrPermanentDelivery, чтобы вызывающий
// не отправлял сообщение на ретрай. Временный отказ возвращается как есть.
func (uc *DeliverNotificationUseCase) Execute(ctx context.Context, task *domain.SendTask) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":        "DeliverNotification",
		"notification_id": task.NotificationID,
		"user_id":         task.UserID,
		"ad_id":           task.AdID,
		"platform":        string(task.Platform),
	})

	ucLogger.Info("Use case started", nil)

	var sendErr error
	if lead := leadImage(task.ImageURLs); lead != "" {
		sendErr = uc.messenger.SendImage(ctx, task.MessengerID, lead, uc.captionWithLink(task))
	} else {
		sendErr = uc.messenger.SendText(ctx, task.MessengerID, uc.captionWithLink(task))
	}

	if sendErr == nil {
		if err := uc.ledger.MarkSent(ctx, task.NotificationID); err != nil {
			// Сообщение ушло; отказ журнала не должен вызвать повторную отправку
			ucLogger.Error("Failed to mark notification as sent", err, nil)
		}
		ucLogger.Info("Notification delivered", nil)
		return nil
	}

	if errors.Is(sendErr, domain.ErrPermanentDelivery) {
		ucLogger.Warn("Permanent delivery failure, will not retry", port.Fields{
			"reason": sendErr.Error(),
		})
		if err := uc.ledger.MarkFailed(ctx, task.NotificationID); err != nil {
			ucLogger.Error("Failed to mark notification as failed", err, nil)
		}
		return sendErr
	}

	// Временный отказ: журнал остается в состоянии enqueued, ретрай сделает очередь
	ucLogger.Error("Transient delivery failure", sendErr, nil)
	return fmt.Errorf("deliver notification %s: %w", task.NotificationID, sendErr)
}

func (uc *DeliverNotificationUseCase) captionWithLink(task *domain.SendTask) string {
	if task.ResourceURL != nil && *task.ResourceURL != "" {
		return task.Text + "\n🔗 " + *task.ResourceURL
	}
	return task.Text
}

func leadImage(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
