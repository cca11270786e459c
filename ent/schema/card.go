package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Card is a card document served by the mirror, stored in its wire form.
type Card struct {
	ent.Schema
}

func (Card) Fields() []ent.Field {
	return []ent.Field{
		field.String("interaction_id").
			NotEmpty().
			Unique().
			Immutable(),
		field.String("kind").
			NotEmpty().
			Comment("flashcards, checklist or quiz"),
		field.String("title").
			Default(""),
		field.Bytes("body").
			Comment("Card document JSON"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Card) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind"),
	}
}
