package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/nudge/ent/schema"
)

const (
	cardsTable         = "cards"
	progressTable      = "progresses"
	notificationsTable = "notifications"
	llmRequestsTable   = "llm_request_events"
	sequenceTable      = "global_sequences"
)

// entities maps every persisted ent schema to its table.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{cardsTable, schema.Card{}},
	{progressTable, schema.Progress{}},
	{notificationsTable, schema.Notification{}},
	{llmRequestsTable, schema.LLMRequestEvent{}},
	{sequenceTable, schema.GlobalSequence{}},
}

// Tables returns the migration tables described by ent/schema.
func Tables() ([]*entschema.Table, error) {
	tables := make([]*entschema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFor(e.table, e.schema)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// tableFor converts an ent schema into a migration table the same way the
// generated migrate package lays it out: an auto-increment "id" unless the
// schema declares its own, mixin fields first, then indexes named
// <table>_<fields>.
func tableFor(name string, s ent.Interface) (*entschema.Table, error) {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := &entschema.Table{Name: name}
	columns := make(map[string]*entschema.Column, len(fields)+1)
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		c := &entschema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
		}
		// Function defaults such as time.Now are applied by the repos.
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			c.Default = d.Default
		}
		if d.Name == "id" {
			t.PrimaryKey = []*entschema.Column{c}
		}
		columns[c.Name] = c
		t.Columns = append(t.Columns, c)
	}
	if t.PrimaryKey == nil {
		id := &entschema.Column{Name: "id", Type: field.TypeInt, Increment: true}
		t.Columns = append([]*entschema.Column{id}, t.Columns...)
		t.PrimaryKey = []*entschema.Column{id}
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*entschema.Column, 0, len(d.Fields))
		for _, f := range d.Fields {
			c, ok := columns[f]
			if !ok {
				return nil, fmt.Errorf("%s: index on unknown field %q", name, f)
			}
			cols = append(cols, c)
		}
		t.Indexes = append(t.Indexes, &entschema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}
	return t, nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := Tables()
	if err != nil {
		return err
	}
	m, err := entschema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

// builder returns a SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// execQuery runs a built statement that returns no rows.
func execQuery(ctx context.Context, drv dialect.ExecQuerier, q entsql.Querier) error {
	query, args := q.Query()
	return drv.Exec(ctx, query, args, nil)
}

// scanRows runs a built query and calls fn once per row.
func scanRows(ctx context.Context, drv dialect.ExecQuerier, q entsql.Querier, fn func(*entsql.Rows) error) error {
	query, args := q.Query()
	var rows entsql.Rows
	if err := drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
