package usecase

import (
	"context"
	"fmt"
	"time"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type MatchAdUseCase struct {
	subscriptionStore port.SubscriptionStorePort
	now               func() time.Time
}

func NewMatchAdUseCase(subscriptionStore port.SubscriptionStorePort) *MatchAdUseCase {
	return &MatchAdUseCase{
		subscriptionStore: subscriptionStore,
		now:               time.Now,
	}
}

// Execute возвращает множество пользователей, которым нужно показать объявление.
// Пользователь с двумя совпавшими подписками попадает в результат один раз.
// Ошибка хранилища пробрасывается наверх: пустой результат неотличим от
// "никто не подписан", и вызывающий обязан это различать.
func (uc *MatchAdUseCase) Execute(ctx context.Context, ad *domain.Ad) ([]int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "MatchAd",
		"ad_id":    ad.ID,
	})

	ucLogger.Debug("Use case started", nil)

	filters, err := uc.subscriptionStore.FindActiveFilters(ctx, uc.now())
	if err != nil {
		ucLogger.Error("Subscription store query failed", err, nil)
		return nil, fmt.Errorf("match ad %d: %w", ad.ID, err)
	}

	seen := make(map[int64]struct{})
	userIDs := make([]int64, 0)
	for _, f := range filters {
		if _, ok := seen[f.UserID]; ok {
			continue
		}
		if f.Matches(ad) {
			seen[f.UserID] = struct{}{}
			userIDs = append(userIDs, f.UserID)
		}
	}

	ucLogger.Debug("Use case finished", port.Fields{
		"matched_users": len(userIDs),
	})
	return userIDs, nil
}
