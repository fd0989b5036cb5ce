package port

import (
	"context"

	"realty-notify-system/internal/core/domain"
)

// AdStorePort контракт хранилища объявлений.
// Дедупликация выполняется по external_id: повторная запись того же
// объявления обновляет изменяемые поля, а не создает дубликат.
type AdStorePort interface {
	// UpsertAds записывает пачку объявлений и возвращает только те,
	// что были созданы впервые (кандидаты на уведомления)
	UpsertAds(ctx context.Context, ads []*domain.Ad) ([]*domain.Ad, domain.IngestStats, error)

	FindByID(ctx context.Context, adID int64) (*domain.Ad, error)

	// GetAdImages возвращает URL картинок объявления
	GetAdImages(ctx context.Context, adID int64) ([]string, error)
}
