package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Progress is the latest pushed state of one interaction for one user.
// A push replaces the row; the revision comes from the global sequence.
type Progress struct {
	ent.Schema
}

func (Progress) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").NotEmpty(),
		field.String("app_id").NotEmpty(),
		field.String("interaction_id").NotEmpty(),
		field.String("kind").NotEmpty(),
		field.Bytes("state").
			Comment("Ledger snapshot JSON"),
		field.Bool("completed").
			Default(false),
		field.Int64("revision"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Progress) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "app_id", "interaction_id").
			Unique(),
		index.Fields("revision"),
	}
}
