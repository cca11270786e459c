package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var progressColumns = []string{
	"user_id", "app_id", "interaction_id", "kind", "state", "completed", "revision", "updated_at",
}

type progressRepo struct {
	drv dialect.Driver
	seq *sequenceCounter
}

func (r *progressRepo) Upsert(ctx context.Context, p *Progress) error {
	rev, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	p.Revision = rev
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	insert := builder().Insert(progressTable).
		Columns(progressColumns...).
		Values(p.UserID, p.AppID, p.InteractionID, p.Kind, p.State, p.Completed, p.Revision, p.UpdatedAt).
		OnConflict(
			entsql.ConflictColumns("user_id", "app_id", "interaction_id"),
			entsql.ResolveWithNewValues(),
		)
	if err := execQuery(ctx, r.drv, insert); err != nil {
		return fmt.Errorf("save progress %s: %w", p.InteractionID, err)
	}
	return nil
}

func (r *progressRepo) List(ctx context.Context, userID, appID string) ([]*Progress, error) {
	q := builder().Select(progressColumns...).
		From(entsql.Table(progressTable)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("app_id", appID),
		)).
		OrderBy(entsql.Desc("revision"))

	var out []*Progress
	err := scanRows(ctx, r.drv, q, func(rows *entsql.Rows) error {
		var p Progress
		if err := rows.Scan(&p.UserID, &p.AppID, &p.InteractionID, &p.Kind, &p.State,
			&p.Completed, &p.Revision, &p.UpdatedAt); err != nil {
			return err
		}
		out = append(out, &p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return out, nil
}

func (r *progressRepo) Delete(ctx context.Context, userID, appID, interactionID string) error {
	del := builder().Delete(progressTable).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("app_id", appID),
			entsql.EQ("interaction_id", interactionID),
		))
	if err := execQuery(ctx, r.drv, del); err != nil {
		return fmt.Errorf("delete progress %s: %w", interactionID, err)
	}
	return nil
}
