package store

import (
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/attestiz/ent/schema"
)

var (
	// AnswerEventsTable holds the schema information for the "answer_events" table.
	AnswerEventsTable = tableOf("answer_events", "answerevent", entschema.AnswerEvent{})

	// SessionEventsTable holds the schema information for the "session_events" table.
	SessionEventsTable = tableOf("session_events", "sessionevent", entschema.SessionEvent{})

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		AnswerEventsTable,
		SessionEventsTable,
	}
)

// entity is the part of an ent schema a migration table is derived from.
type entity interface {
	Mixin() []ent.Mixin
	Fields() []ent.Field
	Indexes() []ent.Index
}

// tableOf builds the migration table for e: an auto-increment id, then the
// mixin fields, then the entity fields. Index names follow ent's
// <entity>_<fields> convention.
func tableOf(name, prefix string, e entity) *schema.Table {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &schema.Table{
		Name:       name,
		Columns:    []*schema.Column{id},
		PrimaryKey: []*schema.Column{id},
	}
	byName := make(map[string]*schema.Column)
	add := func(fields []ent.Field) {
		for _, f := range fields {
			d := f.Descriptor()
			c := &schema.Column{
				Name:     d.Name,
				Type:     d.Info.Type,
				Unique:   d.Unique,
				Nullable: d.Optional,
				Size:     int64(d.Size),
			}
			t.Columns = append(t.Columns, c)
			byName[d.Name] = c
		}
	}
	for _, m := range e.Mixin() {
		add(m.Fields())
	}
	add(e.Fields())

	for _, ix := range e.Indexes() {
		d := ix.Descriptor()
		idx := &schema.Index{
			Name:   prefix + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, f := range d.Fields {
			idx.Columns = append(idx.Columns, byName[f])
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t
}
