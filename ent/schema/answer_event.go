package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one submitted answer.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.Int64("user_id"),
		field.String("full_name").
			NotEmpty(),
		field.String("position").
			NotEmpty().
			Comment("Role title at the time of the session"),
		field.String("question_id").
			NotEmpty(),
		field.String("question_type").
			NotEmpty().
			Comment("single, multiple or matching"),
		field.Int("block").
			Comment("1 for the opening block, 2 for the role block"),
		field.String("topic"),
		field.Text("prompt"),
		field.Text("meta").
			Comment("JSON encoded options or matching columns"),
		field.Text("correct_answer"),
		field.Text("user_answer"),
		field.Bool("correct"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("user_id"),
	}
}
