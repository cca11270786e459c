package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Notification is a nudge pointing at a card. Empty user_id or app_id
// addresses everyone.
type Notification struct {
	ent.Schema
}

func (Notification) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("user_id").Default(""),
		field.String("app_id").Default(""),
		field.String("type").NotEmpty(),
		field.String("title"),
		field.String("action_id").
			Comment("Interaction the notification opens"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Notification) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "app_id"),
		index.Fields("created_at"),
	}
}
