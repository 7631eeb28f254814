package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bayraktare/pmt/internal/model"
)

const notificationLogSchema = `
CREATE TABLE IF NOT EXISTS notification_log (
    id              BIGSERIAL PRIMARY KEY,
    notification_id TEXT NOT NULL UNIQUE,
    target          TEXT NOT NULL,
    type            TEXT NOT NULL,
    message         TEXT NOT NULL,
    notified_on     DATE NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type NotificationLogRepository struct {
	db *pgxpool.Pool
}

func NewNotificationLogRepository(db *pgxpool.Pool) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// EnsureSchema creates the notification_log table when it is missing.
func (r *NotificationLogRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, notificationLogSchema)
	return err
}

// Insert records a delivered notification. Reports false when the
// notification id was already logged.
func (r *NotificationLogRepository) Insert(ctx context.Context, log *model.NotificationLog) (bool, error) {
	query := `
        INSERT INTO notification_log (notification_id, target, type, message, notified_on, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (notification_id) DO NOTHING
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		log.NotificationID, log.Target, log.Type, log.Message, log.NotifiedOn.Time(),
	).Scan(&log.ID, &log.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
