package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type NotifyNewAdsUseCase struct {
	ingest   *IngestAdsUseCase
	matcher  *MatchAdUseCase
	dispatch *DispatchNotificationUseCase
}

func NewNotifyNewAdsUseCase(
	ingest *IngestAdsUseCase,
	matcher *MatchAdUseCase,
	dispatch *DispatchNotificationUseCase,
) *NotifyNewAdsUseCase {
	return &NotifyNewAdsUseCase{
		ingest:   ingest,
		matcher:  matcher,
		dispatch: dispatch,
	}
}

// Execute мост между приемом объявлений и рассылкой: запись пачки,
// матчинг каждого нового объявления, постановка задач на отправку.
// Ошибка на одном объявлении или одном пользователе не прерывает
// обработку остальных: отказы копятся в агрегированной статистике.
func (uc *NotifyNewAdsUseCase) Execute(ctx context.Context, ads []*domain.Ad) (domain.BatchStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "NotifyNewAds",
		"batch_size": len(ads),
	})

	ucLogger.Info("Use case started", nil)

	stats := domain.BatchStats{}

	created, _, err := uc.ingest.Execute(ctx, ads)
	if err != nil {
		// Отказ хранилища на всей пачке: дальше идти не с чем
		ucLogger.Error("Ingestion failed for the whole batch", err, nil)
		return stats, err
	}

	for _, ad := range created {
		userIDs, err := uc.matcher.Execute(ctx, ad)
		if err != nil {
			ucLogger.Error("Matcher failed for ad", err, port.Fields{
				"ad_id": ad.ID,
			})
			stats.Failed++
			continue
		}

		adFailed := false
		for _, userID := range userIDs {
			enqueued, err := uc.dispatch.Execute(ctx, userID, ad)
			if err != nil {
				ucLogger.Error("Dispatch failed for user", err, port.Fields{
					"ad_id":   ad.ID,
					"user_id": userID,
				})
				adFailed = true
				continue
			}
			if enqueued {
				stats.Enqueued++
			} else {
				stats.Skipped++
			}
		}

		if adFailed {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
	}

	ucLogger.Info("Use case finished", port.Fields{
		"succeeded": stats.Succeeded,
		"failed":    stats.Failed,
		"enqueued":  stats.Enqueued,
		"skipped":   stats.Skipped,
	})
	return stats, nil
}
