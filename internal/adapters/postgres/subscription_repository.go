package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubscriptionRepository - реализация SubscriptionStorePort для PostgreSQL.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionRepository - конструктор.
func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) (*PostgresSubscriptionRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresSubscriptionRepository{pool: pool}, nil
}

const filterColumns = `uf.id, uf.user_id, uf.property_type, uf.city, uf.rooms_count,
	uf.price_min, uf.price_max, uf.is_paused, uf.created_at, uf.updated_at`

// FindActiveFilters возвращает незапаузенные подписки пользователей с
// действующим пробным или оплаченным периодом. Проверка полей фильтра
// против объявления выполняется ядром.
func (r *PostgresSubscriptionRepository) FindActiveFilters(ctx context.Context, now time.Time) ([]*domain.UserFilter, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresSubscriptionRepository",
		"method":    "FindActiveFilters",
	})

	query := fmt.Sprintf(`
		SELECT %s
		FROM user_filters uf
		JOIN users u ON u.id = uf.user_id
		WHERE uf.is_paused = false
		  AND (u.free_until > $1 OR u.subscription_until > $1)`, filterColumns)

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		repoLogger.Error("Failed to query active filters", err, nil)
		return nil, fmt.Errorf("failed to query active filters: %w", err)
	}
	defer rows.Close()

	return scanFilters(rows)
}

func (r *PostgresSubscriptionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.UserFilter, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresSubscriptionRepository",
		"method":    "ListByUser",
		"user_id":   userID,
	})

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM user_filters WHERE user_id = $1`, userID).Scan(&total); err != nil {
		repoLogger.Error("Failed to count subscriptions", err, nil)
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM user_filters uf
		WHERE uf.user_id = $1
		ORDER BY uf.id
		LIMIT $2 OFFSET $3`, filterColumns)

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		repoLogger.Error("Failed to query subscriptions", err, nil)
		return nil, 0, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	filters, err := scanFilters(rows)
	if err != nil {
		return nil, 0, err
	}
	return filters, total, nil
}

func (r *PostgresSubscriptionRepository) FindByID(ctx context.Context, subscriptionID int64) (*domain.UserFilter, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_filters uf WHERE uf.id = $1`, filterColumns)

	f := &domain.UserFilter{}
	err := r.pool.QueryRow(ctx, query, subscriptionID).Scan(
		&f.ID, &f.UserID, &f.PropertyType, &f.City, &f.RoomsCount,
		&f.PriceMin, &f.PriceMax, &f.IsPaused, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to query subscription %d: %w", subscriptionID, err)
	}
	return f, nil
}

// Create вставляет подписку, атомарно проверяя лимит на пользователя.
// INSERT ... SELECT с условием на count не дает двум конкурентным вставкам
// пробить лимит.
func (r *PostgresSubscriptionRepository) Create(ctx context.Context, filter *domain.UserFilter) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresSubscriptionRepository",
		"method":    "Create",
		"user_id":   filter.UserID,
	})

	query := `
		INSERT INTO user_filters (user_id, property_type, city, rooms_count, price_min, price_max, is_paused)
		SELECT $1, $2, $3, $4, $5, $6, false
		WHERE (SELECT count(*) FROM user_filters WHERE user_id = $1) < $7
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		filter.UserID, filter.PropertyType, filter.City, filter.RoomsCount,
		filter.PriceMin, filter.PriceMax, domain.MaxSubscriptionsPerUser,
	).Scan(&filter.ID, &filter.CreatedAt, &filter.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Subscription limit reached", nil)
			return domain.ErrSubscriptionLimitReached
		}
		repoLogger.Error("Failed to insert subscription", err, nil)
		return fmt.Errorf("failed to insert subscription: %w", err)
	}

	repoLogger.Debug("Subscription created", port.Fields{"subscription_id": filter.ID})
	return nil
}

func (r *PostgresSubscriptionRepository) Update(ctx context.Context, filter *domain.UserFilter) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":       "PostgresSubscriptionRepository",
		"method":          "Update",
		"subscription_id": filter.ID,
	})

	query := `
		UPDATE user_filters
		SET property_type = $1, city = $2, rooms_count = $3,
			price_min = $4, price_max = $5, updated_at = now()
		WHERE id = $6 AND user_id = $7`

	cmdTag, err := r.pool.Exec(ctx, query,
		filter.PropertyType, filter.City, filter.RoomsCount,
		filter.PriceMin, filter.PriceMax, filter.ID, filter.UserID)
	if err != nil {
		repoLogger.Error("Failed to update subscription", err, nil)
		return fmt.Errorf("failed to update subscription %d: %w", filter.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, userID, subscriptionID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":       "PostgresSubscriptionRepository",
		"method":          "Delete",
		"subscription_id": subscriptionID,
	})

	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM user_filters WHERE id = $1 AND user_id = $2`, subscriptionID, userID)
	if err != nil {
		repoLogger.Error("Failed to delete subscription", err, nil)
		return fmt.Errorf("failed to delete subscription %d: %w", subscriptionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) SetPaused(ctx context.Context, userID, subscriptionID int64, paused bool) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE user_filters SET is_paused = $1, updated_at = now() WHERE id = $2 AND user_id = $3`,
		paused, subscriptionID, userID)
	if err != nil {
		return fmt.Errorf("failed to set pause state for subscription %d: %w", subscriptionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) SetAllPaused(ctx context.Context, userID int64, paused bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_filters SET is_paused = $1, updated_at = now() WHERE user_id = $2`,
		paused, userID)
	if err != nil {
		return fmt.Errorf("failed to set pause state for user %d: %w", userID, err)
	}
	return nil
}

// TransferOwnership переносит подписки при слиянии аккаунтов
func (r *PostgresSubscriptionRepository) TransferOwnership(ctx context.Context, fromUserID, toUserID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "PostgresSubscriptionRepository",
		"method":       "TransferOwnership",
		"from_user_id": fromUserID,
		"to_user_id":   toUserID,
	})

	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE user_filters SET user_id = $1, updated_at = now() WHERE user_id = $2`,
		toUserID, fromUserID)
	if err != nil {
		repoLogger.Error("Failed to transfer subscriptions", err, nil)
		return fmt.Errorf("failed to transfer subscriptions: %w", err)
	}

	repoLogger.Debug("Subscriptions transferred", port.Fields{
		"count": cmdTag.RowsAffected(),
	})
	return nil
}

func scanFilters(rows pgx.Rows) ([]*domain.UserFilter, error) {
	var filters []*domain.UserFilter
	for rows.Next() {
		f := &domain.UserFilter{}
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.PropertyType, &f.City, &f.RoomsCount,
			&f.PriceMin, &f.PriceMax, &f.IsPaused, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan filter row: %w", err)
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during filter rows iteration: %w", err)
	}
	return filters, nil
}
