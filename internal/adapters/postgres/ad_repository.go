package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAdRepository - реализация AdStorePort для PostgreSQL.
type PostgresAdRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAdRepository - конструктор.
func NewPostgresAdRepository(pool *pgxpool.Pool) (*PostgresAdRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresAdRepository{pool: pool}, nil
}

const adColumns = `id, external_id, property_type, city, address, price, currency,
	square_feet, rooms_count, floor, total_floors, description, resource_url,
	insert_time, created_at, updated_at`

// UpsertAds записывает пачку объявлений в одной транзакции.
// Конфликт по external_id обновляет изменяемые поля; вернувшиеся как
// вставленные строки дополняются картинками и телефонами и возвращаются
// вызывающему как кандидаты на уведомления.
func (r *PostgresAdRepository) UpsertAds(ctx context.Context, ads []*domain.Ad) ([]*domain.Ad, domain.IngestStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PostgresAdRepository",
		"method":     "UpsertAds",
		"batch_size": len(ads),
	})

	stats := domain.IngestStats{}
	if len(ads) == 0 {
		return nil, stats, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	upsertQuery := `
		INSERT INTO ads (external_id, property_type, city, address, price, currency,
			square_feet, rooms_count, floor, total_floors, description, resource_url, insert_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (external_id) DO UPDATE SET
			price = EXCLUDED.price,
			floor = EXCLUDED.floor,
			total_floors = EXCLUDED.total_floors,
			description = EXCLUDED.description,
			updated_at = now()
		RETURNING id, (xmax = 0) AS inserted`

	var created []*domain.Ad
	for _, ad := range ads {
		var inserted bool
		err := tx.QueryRow(ctx, upsertQuery,
			ad.ExternalID, ad.PropertyType, ad.City, ad.Address, ad.Price, ad.Currency,
			ad.SquareFeet, ad.RoomsCount, ad.Floor, ad.TotalFloors, ad.Description,
			ad.ResourceURL, ad.InsertTime,
		).Scan(&ad.ID, &inserted)
		if err != nil {
			repoLogger.Error("Failed to upsert ad", err, port.Fields{"external_id": ad.ExternalID})
			return nil, stats, fmt.Errorf("failed to upsert ad '%s': %w", ad.ExternalID, err)
		}

		if !inserted {
			stats.Updated++
			continue
		}
		stats.Created++

		// Картинки и телефоны пишутся только при первой вставке (append-only)
		for _, url := range ad.ImageURLs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO ad_images (ad_id, url) VALUES ($1, $2)`, ad.ID, url); err != nil {
				repoLogger.Error("Failed to insert ad image", err, port.Fields{"ad_id": ad.ID})
				return nil, stats, fmt.Errorf("failed to insert image for ad %d: %w", ad.ID, err)
			}
		}
		for _, phone := range ad.Phones {
			if _, err := tx.Exec(ctx,
				`INSERT INTO ad_phones (ad_id, phone, viber_link) VALUES ($1, $2, $3)`,
				ad.ID, phone.Phone, phone.ViberLink); err != nil {
				repoLogger.Error("Failed to insert ad phone", err, port.Fields{"ad_id": ad.ID})
				return nil, stats, fmt.Errorf("failed to insert phone for ad %d: %w", ad.ID, err)
			}
		}

		created = append(created, ad)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, stats, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Batch upserted", port.Fields{
		"created": stats.Created,
		"updated": stats.Updated,
	})
	return created, stats, nil
}

func (r *PostgresAdRepository) FindByID(ctx context.Context, adID int64) (*domain.Ad, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresAdRepository",
		"method":    "FindByID",
		"ad_id":     adID,
	})

	query := fmt.Sprintf(`SELECT %s FROM ads WHERE id = $1`, adColumns)

	ad := &domain.Ad{}
	err := r.pool.QueryRow(ctx, query, adID).Scan(
		&ad.ID, &ad.ExternalID, &ad.PropertyType, &ad.City, &ad.Address, &ad.Price,
		&ad.Currency, &ad.SquareFeet, &ad.RoomsCount, &ad.Floor, &ad.TotalFloors,
		&ad.Description, &ad.ResourceURL, &ad.InsertTime, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdNotFound
		}
		repoLogger.Error("Failed to query ad", err, nil)
		return nil, fmt.Errorf("failed to query ad %d: %w", adID, err)
	}

	images, err := r.GetAdImages(ctx, adID)
	if err != nil {
		return nil, err
	}
	ad.ImageURLs = images

	return ad, nil
}

func (r *PostgresAdRepository) GetAdImages(ctx context.Context, adID int64) ([]string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresAdRepository",
		"method":    "GetAdImages",
		"ad_id":     adID,
	})

	rows, err := r.pool.Query(ctx, `SELECT url FROM ad_images WHERE ad_id = $1 ORDER BY id`, adID)
	if err != nil {
		repoLogger.Error("Failed to query ad images", err, nil)
		return nil, fmt.Errorf("failed to query images for ad %d: %w", adID, err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			repoLogger.Error("Failed to scan image row", err, nil)
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during image rows iteration", err, nil)
		return nil, fmt.Errorf("error during image rows iteration: %w", err)
	}

	return urls, nil
}
