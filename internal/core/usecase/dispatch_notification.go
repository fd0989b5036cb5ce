package usecase

import (
	"context"
	"errors"
	"fmt"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"

	"github.com/google/uuid"
)

type DispatchNotificationUseCase struct {
	userStore port.UserStorePort
	ledger    port.NotificationLedgerPort
	queue     port.SendTaskQueuePort
}

func NewDispatchNotificationUseCase(
	userStore port.UserStorePort,
	ledger port.NotificationLedgerPort,
	queue port.SendTaskQueuePort,
) *DispatchNotificationUseCase {
	return &DispatchNotificationUseCase{
		userStore: userStore,
		ledger:    ledger,
		queue:     queue,
	}
}

// Execute превращает совпадение (user, ad) в задачу на отправку.
// Выбирается ровно одна платформа. Перед постановкой в очередь делается
// вставка в журнал уведомлений: если запись уже есть, задача не ставится.
// Возвращает true, если задача была поставлена.
func (uc *DispatchNotificationUseCase) Execute(ctx context.Context, userID int64, ad *domain.Ad) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "DispatchNotification",
		"user_id":  userID,
		"ad_id":    ad.ID,
	})

	ucLogger.Debug("Use case started", nil)

	user, err := uc.userStore.FindByID(ctx, userID)
	if err != nil {
		ucLogger.Error("Failed to load user", err, nil)
		return false, fmt.Errorf("dispatch for user %d: %w", userID, err)
	}

	platform, messengerID, err := user.PreferredPlatform()
	if err != nil {
		if errors.Is(err, domain.ErrNoLinkedPlatform) {
			ucLogger.Warn("User has no linked platform, skipping", nil)
			return false, nil
		}
		return false, err
	}

	record := &domain.NotificationRecord{
		ID:       uuid.New().String(),
		UserID:   userID,
		AdID:     ad.ID,
		Platform: platform,
		Status:   domain.NotificationEnqueued,
	}
	inserted, err := uc.ledger.InsertIfAbsent(ctx, record)
	if err != nil {
		ucLogger.Error("Notification ledger insert failed", err, nil)
		return false, fmt.Errorf("ledger insert for user %d ad %d: %w", userID, ad.ID, err)
	}
	if !inserted {
		ucLogger.Debug("User already notified about this ad on this platform, skipping", port.Fields{
			"platform": string(platform),
		})
		return false, nil
	}

	task := &domain.SendTask{
		NotificationID: record.ID,
		UserID:         userID,
		AdID:           ad.ID,
		Platform:       platform,
		MessengerID:    messengerID,
		Text:           domain.FormatAdMessage(ad),
		ImageURLs:      ad.ImageURLs,
	}
	if ad.ResourceURL != "" {
		u := ad.ResourceURL
		task.ResourceURL = &u
	}

	if err := uc.queue.EnqueueSendTask(ctx, task); err != nil {
		ucLogger.Error("Failed to enqueue send task", err, port.Fields{
			"platform": string(platform),
		})
		return false, fmt.Errorf("enqueue send task for user %d ad %d: %w", userID, ad.ID, err)
	}

	ucLogger.Info("Send task enqueued", port.Fields{
		"platform":        string(platform),
		"notification_id": record.ID,
	})
	return true, nil
}
