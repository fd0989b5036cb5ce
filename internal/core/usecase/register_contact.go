package usecase

import (
	"context"
	"errors"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type RegisterContactUseCase struct {
	userStore port.UserStorePort
}

func NewRegisterContactUseCase(userStore port.UserStorePort) *RegisterContactUseCase {
	return &RegisterContactUseCase{
		userStore: userStore,
	}
}

// Execute возвращает пользователя по идентичности мессенджера, создавая
// его с 7-дневным пробным периодом при первом контакте.
func (uc *RegisterContactUseCase) Execute(ctx context.Context, platform domain.Platform, messengerID string) (*domain.User, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RegisterContact",
		"platform": string(platform),
	})

	ucLogger.Info("Use case started", nil)

	user, err := uc.userStore.FindByMessengerID(ctx, platform, messengerID)
	if err == nil {
		if touchErr := uc.userStore.TouchLastActive(ctx, user.ID); touchErr != nil {
			ucLogger.Warn("Failed to touch last_active", port.Fields{"user_id": user.ID})
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		ucLogger.Error("User lookup failed", err, nil)
		return nil, err
	}

	user, err = uc.userStore.CreateWithTrial(ctx, platform, messengerID)
	if err != nil {
		ucLogger.Error("Failed to create user with trial", err, nil)
		return nil, err
	}

	ucLogger.Info("New user provisioned with trial", port.Fields{
		"user_id": user.ID,
	})
	return user, nil
}
