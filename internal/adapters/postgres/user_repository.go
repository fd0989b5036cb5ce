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

// PostgresUserRepository - реализация UserStorePort для PostgreSQL.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository - конструктор.
func NewPostgresUserRepository(pool *pgxpool.Pool) (*PostgresUserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresUserRepository{pool: pool}, nil
}

const userColumns = `id, telegram_id, viber_id, whatsapp_id, email, phone_number,
	email_verified, phone_verified, free_until, subscription_until,
	created_at, updated_at, last_active`

func platformColumn(platform domain.Platform) (string, error) {
	switch platform {
	case domain.PlatformTelegram:
		return "telegram_id", nil
	case domain.PlatformViber:
		return "viber_id", nil
	case domain.PlatformWhatsapp:
		return "whatsapp_id", nil
	}
	return "", fmt.Errorf("unknown platform '%s'", platform)
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.queryOne(ctx, query, userID)
}

func (r *PostgresUserRepository) FindByMessengerID(ctx context.Context, platform domain.Platform, messengerID string) (*domain.User, error) {
	column, err := platformColumn(platform)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)
	return r.queryOne(ctx, query, messengerID)
}

func (r *PostgresUserRepository) FindByIDs(ctx context.Context, userIDs []int64) ([]*domain.User, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    "FindByIDs",
	})

	if len(userIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ANY($1)`, userColumns)
	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		repoLogger.Error("Failed to query users", err, nil)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := scanUser(rows, u); err != nil {
			repoLogger.Error("Failed to scan user row", err, nil)
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during user rows iteration: %w", err)
	}
	return users, nil
}

// CreateWithTrial создает пользователя при первом контакте.
// Пробный период начинается сразу и длится ровно 7 дней.
func (r *PostgresUserRepository) CreateWithTrial(ctx context.Context, platform domain.Platform, messengerID string) (*domain.User, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    "CreateWithTrial",
		"platform":  string(platform),
	})

	column, err := platformColumn(platform)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO users (%s, free_until, last_active)
		VALUES ($1, now() + interval '7 days', now())
		RETURNING %s`, column, userColumns)

	u := &domain.User{}
	row := r.pool.QueryRow(ctx, query, messengerID)
	if err := scanUser(row, u); err != nil {
		repoLogger.Error("Failed to create user", err, nil)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	repoLogger.Debug("User created with trial", port.Fields{"user_id": u.ID})
	return u, nil
}

func (r *PostgresUserRepository) LinkPlatform(ctx context.Context, userID int64, platform domain.Platform, messengerID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    "LinkPlatform",
		"user_id":   userID,
		"platform":  string(platform),
	})

	column, err := platformColumn(platform)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = now() WHERE id = $2`, column)
	cmdTag, err := r.pool.Exec(ctx, query, messengerID, userID)
	if err != nil {
		repoLogger.Error("Failed to link platform", err, nil)
		return fmt.Errorf("failed to link platform for user %d: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, userID int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) TouchLastActive(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_active = now() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to touch last_active for user %d: %w", userID, err)
	}
	return nil
}

func (r *PostgresUserRepository) queryOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	u := &domain.User{}
	row := r.pool.QueryRow(ctx, query, arg)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID, &u.TelegramID, &u.ViberID, &u.WhatsappID, &u.Email, &u.PhoneNumber,
		&u.EmailVerified, &u.PhoneVerified, &u.FreeUntil, &u.SubscriptionUntil,
		&u.CreatedAt, &u.UpdatedAt, &u.LastActive,
	)
}
