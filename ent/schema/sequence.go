package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// GlobalSequence holds the single counter row every event and progress
// revision draws from.
type GlobalSequence struct {
	ent.Schema
}

func (GlobalSequence) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("next_val").
			Default(1),
	}
}
