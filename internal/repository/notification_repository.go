package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cscportal/api/internal/models"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const notificationColumns = `id, text, whatsapp_message, is_active, priority, start_date, end_date, created_at, updated_at`

func scanNotification(row scanner) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID,
		&n.Text,
		&n.WhatsappMessage,
		&n.IsActive,
		&n.Priority,
		&n.StartDate,
		&n.EndDate,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}

func (r *NotificationRepository) Create(ctx context.Context, n models.Notification) error {
	const query = `
		INSERT INTO notifications (id, text, whatsapp_message, is_active, priority, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	_, err := r.pool.Exec(ctx, query, n.ID, n.Text, n.WhatsappMessage, n.IsActive, n.Priority, n.StartDate, n.EndDate, n.CreatedAt)
	return translate("notification", err)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n, err := scanNotification(r.pool.QueryRow(ctx, query, id))
	return n, translate("notification", err)
}

func (r *NotificationRepository) Update(ctx context.Context, n models.Notification) error {
	const query = `
		UPDATE notifications
		SET text = $2, whatsapp_message = $3, is_active = $4, priority = $5, start_date = $6, end_date = $7, updated_at = $8
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, n.ID, n.Text, n.WhatsappMessage, n.IsActive, n.Priority, n.StartDate, n.EndDate, n.UpdatedAt)
	if err != nil {
		return translate("notification", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("notification")
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return translate("notification", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.NotFoundError("notification")
	}
	return nil
}

// ListCurrent returns notifications live at now, highest priority then newest first.
func (r *NotificationRepository) ListCurrent(ctx context.Context, now time.Time) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE is_active AND start_date <= $1 AND end_date >= $1
		ORDER BY priority DESC, created_at DESC`
	return r.list(ctx, query, now)
}

func (r *NotificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC`)
}

func (r *NotificationRepository) list(ctx context.Context, query string, args ...any) ([]models.Notification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("notification", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, translate("notification", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, translate("notification", rows.Err())
}
