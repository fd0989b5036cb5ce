package usecase

import (
	"context"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
)

type IngestAdsUseCase struct {
	adStore port.AdStorePort
}

func NewIngestAdsUseCase(adStore port.AdStorePort) *IngestAdsUseCase {
	return &IngestAdsUseCase{
		adStore: adStore,
	}
}

// Execute записывает пачку объявлений и возвращает только созданные впервые.
// Невалидные объявления отбрасываются по одному, не ломая пачку.
func (uc *IngestAdsUseCase) Execute(ctx context.Context, ads []*domain.Ad) ([]*domain.Ad, domain.IngestStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "IngestAds",
		"batch_size": len(ads),
	})

	ucLogger.Info("Use case started", nil)

	valid := make([]*domain.Ad, 0, len(ads))
	invalid := 0
	for _, ad := range ads {
		if err := ad.Validate(); err != nil {
			ucLogger.Warn("Skipping invalid ad", port.Fields{
				"external_id": ad.ExternalID,
			})
			invalid++
			continue
		}
		valid = append(valid, ad)
	}

	created, stats, err := uc.adStore.UpsertAds(ctx, valid)
	if err != nil {
		ucLogger.Error("Ad store failed to upsert batch", err, nil)
		return nil, domain.IngestStats{}, err
	}
	stats.Invalid = invalid

	ucLogger.Info("Use case finished successfully", port.Fields{
		"created": stats.Created,
		"updated": stats.Updated,
		"invalid": stats.Invalid,
	})
	return created, stats, nil
}
