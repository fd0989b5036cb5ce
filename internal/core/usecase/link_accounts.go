package usecase

import (
	"context"
	"errors"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type LinkAccountsUseCase struct {
	userStore         port.UserStorePort
	subscriptionStore port.SubscriptionStorePort
}

func NewLinkAccountsUseCase(userStore port.UserStorePort, subscriptionStore port.SubscriptionStorePort) *LinkAccountsUseCase {
	return &LinkAccountsUseCase{
		userStore:         userStore,
		subscriptionStore: subscriptionStore,
	}
}

// Execute привязывает идентичность мессенджера к primary-пользователю.
// Если идентичность уже принадлежит другому пользователю, его подписки
// переносятся на primary, а поглощенная запись удаляется.
func (uc *LinkAccountsUseCase) Execute(ctx context.Context, primaryUserID int64, platform domain.Platform, messengerID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "LinkAccounts",
		"user_id":  primaryUserID,
		"platform": string(platform),
	})

	ucLogger.Info("Use case started", nil)

	if _, err := uc.userStore.FindByID(ctx, primaryUserID); err != nil {
		ucLogger.Error("Primary user lookup failed", err, nil)
		return err
	}

	absorbed, err := uc.userStore.FindByMessengerID(ctx, platform, messengerID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		ucLogger.Error("Messenger identity lookup failed", err, nil)
		return err
	}

	if absorbed != nil && absorbed.ID != primaryUserID {
		ucLogger.Info("Merging existing account", port.Fields{
			"absorbed_user_id": absorbed.ID,
		})

		if err := uc.subscriptionStore.TransferOwnership(ctx, absorbed.ID, primaryUserID); err != nil {
			ucLogger.Error("Failed to transfer subscriptions", err, nil)
			return err
		}
		if err := uc.userStore.Delete(ctx, absorbed.ID); err != nil {
			ucLogger.Error("Failed to delete absorbed user", err, nil)
			return err
		}
	}

	if err := uc.userStore.LinkPlatform(ctx, primaryUserID, platform, messengerID); err != nil {
		ucLogger.Error("Failed to link platform identity", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
