package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

type notificationRepository struct {
	storage *Storage
}

const notificationColumns = `id, title, message, type, link, related_id, read, created_at`

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	const query = `INSERT INTO notifications (title, message, type, link, related_id)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at`
	return r.storage.pool.QueryRow(ctx, query, n.Title, n.Message, string(n.Type), n.Link, n.RelatedID).
		Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepository) List(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	if unreadOnly {
		query += ` WHERE read = FALSE`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.Link, &n.RelatedID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE read = FALSE`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
