package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var cardColumns = []string{"interaction_id", "kind", "title", "body", "created_at"}

type cardRepo struct {
	drv dialect.Driver
}

func (r *cardRepo) Put(ctx context.Context, c *Card) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	insert := builder().Insert(cardsTable).
		Columns(cardColumns...).
		Values(c.InteractionID, c.Kind, c.Title, c.Body, c.CreatedAt).
		OnConflict(
			entsql.ConflictColumns("interaction_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("kind")
				u.SetExcluded("title")
				u.SetExcluded("body")
			}),
		)
	if err := execQuery(ctx, r.drv, insert); err != nil {
		return fmt.Errorf("save card %s: %w", c.InteractionID, err)
	}
	return nil
}

func (r *cardRepo) Get(ctx context.Context, interactionID string) (*Card, error) {
	q := builder().Select(cardColumns...).
		From(entsql.Table(cardsTable)).
		Where(entsql.EQ("interaction_id", interactionID))

	cards, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query card %s: %w", interactionID, err)
	}
	if len(cards) == 0 {
		return nil, ErrNotFound
	}
	return cards[0], nil
}

func (r *cardRepo) List(ctx context.Context) ([]*Card, error) {
	q := builder().Select(cardColumns...).
		From(entsql.Table(cardsTable)).
		OrderBy("interaction_id")

	cards, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepo) query(ctx context.Context, q *entsql.Selector) ([]*Card, error) {
	var out []*Card
	err := scanRows(ctx, r.drv, q, func(rows *entsql.Rows) error {
		var c Card
		if err := rows.Scan(&c.InteractionID, &c.Kind, &c.Title, &c.Body, &c.CreatedAt); err != nil {
			return err
		}
		out = append(out, &c)
		return nil
	})
	return out, err
}
