package usecases_port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

type NotifyNewAdsUseCasePort interface {
	// Execute обрабатывает пачку свежесобранных объявлений:
	// запись, матчинг, постановка задач на отправку
	Execute(ctx context.Context, ads []*domain.Ad) (domain.BatchStats, error)
}
