package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var notificationColumns = []string{"id", "user_id", "app_id", "type", "title", "action_id", "created_at"}

type notificationRepo struct {
	drv dialect.Driver
}

func (r *notificationRepo) Add(ctx context.Context, n *Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	insert := builder().Insert(notificationsTable).
		Columns(notificationColumns...).
		Values(n.ID, n.UserID, n.AppID, n.Type, n.Title, n.ActionID, n.CreatedAt)
	if err := execQuery(ctx, r.drv, insert); err != nil {
		return fmt.Errorf("save notification %s: %w", n.ID, err)
	}
	return nil
}

func (r *notificationRepo) ForUser(ctx context.Context, userID, appID string) ([]*Notification, error) {
	q := builder().Select(notificationColumns...).
		From(entsql.Table(notificationsTable)).
		Where(entsql.And(
			entsql.Or(entsql.EQ("user_id", ""), entsql.EQ("user_id", userID)),
			entsql.Or(entsql.EQ("app_id", ""), entsql.EQ("app_id", appID)),
		)).
		OrderBy("created_at", "id")

	var out []*Notification
	err := scanRows(ctx, r.drv, q, func(rows *entsql.Rows) error {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.AppID, &n.Type, &n.Title, &n.ActionID, &n.CreatedAt); err != nil {
			return err
		}
		out = append(out, &n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	return out, nil
}
