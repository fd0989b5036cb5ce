package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresNotificationLedgerRepository - реализация NotificationLedgerPort.
// Таблица ad_notifications несет unique constraint (user_id, ad_id, platform):
// именно он делает постановку уведомлений идемпотентной.
type PostgresNotificationLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresNotificationLedgerRepository - конструктор.
func NewPostgresNotificationLedgerRepository(pool *pgxpool.Pool) (*PostgresNotificationLedgerRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresNotificationLedgerRepository{pool: pool}, nil
}

// InsertIfAbsent пытается вставить запись журнала.
// Возвращает false без ошибки, если пара (user, ad, platform) уже есть.
func (r *PostgresNotificationLedgerRepository) InsertIfAbsent(ctx context.Context, record *domain.NotificationRecord) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresNotificationLedgerRepository",
		"method":    "InsertIfAbsent",
		"user_id":   record.UserID,
		"ad_id":     record.AdID,
		"platform":  string(record.Platform),
	})

	query := `
		INSERT INTO ad_notifications (id, user_id, ad_id, platform, status)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		record.ID, record.UserID, record.AdID, string(record.Platform), string(record.Status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			repoLogger.Debug("Notification record already exists", nil)
			return false, nil
		}
		repoLogger.Error("Failed to insert notification record", err, nil)
		return false, fmt.Errorf("failed to insert notification record: %w", err)
	}

	return true, nil
}

func (r *PostgresNotificationLedgerRepository) MarkSent(ctx context.Context, notificationID string) error {
	return r.setStatus(ctx, notificationID, domain.NotificationSent)
}

func (r *PostgresNotificationLedgerRepository) MarkFailed(ctx context.Context, notificationID string) error {
	return r.setStatus(ctx, notificationID, domain.NotificationFailed)
}

func (r *PostgresNotificationLedgerRepository) setStatus(ctx context.Context, notificationID string, status domain.NotificationStatus) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":       "PostgresNotificationLedgerRepository",
		"method":          "setStatus",
		"notification_id": notificationID,
		"status":          string(status),
	})

	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE ad_notifications SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), notificationID)
	if err != nil {
		repoLogger.Error("Failed to update notification status", err, nil)
		return fmt.Errorf("failed to update notification %s: %w", notificationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Notification record not found for status update", nil)
	}
	return nil
}
