package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFavoriteRepository - реализация FavoriteStorePort для PostgreSQL.
type PostgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFavoriteRepository - конструктор.
func NewPostgresFavoriteRepository(pool *pgxpool.Pool) (*PostgresFavoriteRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresFavoriteRepository{pool: pool}, nil
}

// Add добавляет закладку с атомарной проверкой лимита.
// Нарушение unique constraint (user_id, ad_id) означает, что закладка
// уже есть: это не ошибка.
func (r *PostgresFavoriteRepository) Add(ctx context.Context, userID, adID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavoriteRepository",
		"method":    "Add",
		"user_id":   userID,
		"ad_id":     adID,
	})

	repoLogger.Debug("Attempting to add to favorites.", nil)
	query := `
		INSERT INTO user_favorites (user_id, ad_id)
		SELECT $1, $2
		WHERE (SELECT count(*) FROM user_favorites WHERE user_id = $1) < $3`

	cmdTag, err := r.pool.Exec(ctx, query, userID, adID, domain.MaxFavoritesPerUser)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			repoLogger.Warn("Favorite already exists, operation considered successful.", nil)
			return nil
		}
		repoLogger.Error("Failed to add favorite", err, nil)
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Favorites limit reached", nil)
		return domain.ErrFavoritesLimitReached
	}

	repoLogger.Debug("Successfully added to favorites.", nil)
	return nil
}

// Remove удаляет закладку. Удаление несуществующей записи не ошибка.
func (r *PostgresFavoriteRepository) Remove(ctx context.Context, userID, adID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavoriteRepository",
		"method":    "Remove",
		"user_id":   userID,
		"ad_id":     adID,
	})

	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM user_favorites WHERE user_id = $1 AND ad_id = $2`, userID, adID)
	if err != nil {
		repoLogger.Error("Failed to remove favorite", err, nil)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to remove a favorite that did not exist.", nil)
	}
	return nil
}

// ListByUser возвращает объявления из закладок в порядке добавления
func (r *PostgresFavoriteRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Ad, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavoriteRepository",
		"method":    "ListByUser",
		"user_id":   userID,
	})

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM user_favorites WHERE user_id = $1`, userID).Scan(&total); err != nil {
		repoLogger.Error("Failed to count favorites", err, nil)
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM user_favorites uf
		JOIN ads a ON a.id = uf.ad_id
		WHERE uf.user_id = $1
		ORDER BY uf.id
		LIMIT $2 OFFSET $3`, prefixedAdColumns("a"))

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		repoLogger.Error("Failed to query favorites", err, nil)
		return nil, 0, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var ads []*domain.Ad
	for rows.Next() {
		ad := &domain.Ad{}
		if err := scanAd(rows, ad); err != nil {
			repoLogger.Error("Failed to scan favorite ad row", err, nil)
			return nil, 0, err
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error during favorites iteration: %w", err)
	}

	return ads, total, nil
}

func prefixedAdColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.external_id, %[1]s.property_type, %[1]s.city, %[1]s.address,
		%[1]s.price, %[1]s.currency, %[1]s.square_feet, %[1]s.rooms_count, %[1]s.floor,
		%[1]s.total_floors, %[1]s.description, %[1]s.resource_url, %[1]s.insert_time,
		%[1]s.created_at, %[1]s.updated_at`, alias)
}

func scanAd(row pgx.Row, ad *domain.Ad) error {
	if err := row.Scan(
		&ad.ID, &ad.ExternalID, &ad.PropertyType, &ad.City, &ad.Address, &ad.Price,
		&ad.Currency, &ad.SquareFeet, &ad.RoomsCount, &ad.Floor, &ad.TotalFloors,
		&ad.Description, &ad.ResourceURL, &ad.InsertTime, &ad.CreatedAt, &ad.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to scan ad row: %w", err)
	}
	return nil
}
