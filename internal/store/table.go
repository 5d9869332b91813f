// Package store is a generic record store over sqlx. Each Table maps one
// SQL table onto a struct type through its db tags.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Schema describes the physical layout of a table. Columns must include
// id, created_at and modified_at.
type Schema struct {
	Name    string
	Columns []string
}

// Table is a typed collection of records of type T stored in one SQL table.
type Table[T any] struct {
	db      *sqlx.DB
	schema  Schema
	builder sq.StatementBuilderType
	now     func() time.Time
}

func NewTable[T any](db *sqlx.DB, schema Schema) *Table[T] {
	return &Table[T]{
		db:      db,
		schema:  schema,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholderFor(db)),
		now:     time.Now,
	}
}

// WithClock replaces the clock used to stamp modified_at on updates.
func (t *Table[T]) WithClock(now func() time.Time) *Table[T] {
	t.now = now
	return t
}

func (t *Table[T]) Name() string {
	return t.schema.Name
}

func placeholderFor(db *sqlx.DB) sq.PlaceholderFormat {
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		return sq.Dollar
	}
	return sq.Question
}

// Insert stores rec. Unique violations surface as ErrDuplicateKey, so the
// constraint is the single source of truth for natural-key uniqueness.
func (t *Table[T]) Insert(ctx context.Context, rec *T) error {
	named := make([]string, len(t.schema.Columns))
	for i, c := range t.schema.Columns {
		named[i] = ":" + c
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.schema.Name,
		strings.Join(t.schema.Columns, ", "),
		strings.Join(named, ", "),
	)

	_, err := t.db.NamedExecContext(ctx, query, rec)
	return translate(err, "insert", t.schema.Name)
}

func (t *Table[T]) Get(ctx context.Context, id string) (*T, error) {
	return t.FindOne(ctx, sq.Eq{"id": id})
}

// Find returns every record matching pred, oldest first. A nil pred matches all.
func (t *Table[T]) Find(ctx context.Context, pred sq.Sqlizer) ([]*T, error) {
	q := t.builder.Select(t.schema.Columns...).From(t.schema.Name)
	if pred != nil {
		q = q.Where(pred)
	}
	query, args, err := q.OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, translate(err, "find", t.schema.Name)
	}

	var recs []*T
	err = t.db.SelectContext(ctx, &recs, query, args...)
	if err != nil {
		return nil, translate(err, "find", t.schema.Name)
	}
	return recs, nil
}

func (t *Table[T]) FindOne(ctx context.Context, pred sq.Sqlizer) (*T, error) {
	query, args, err := t.builder.Select(t.schema.Columns...).
		From(t.schema.Name).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, translate(err, "get", t.schema.Name)
	}

	rec := new(T)
	err = t.db.GetContext(ctx, rec, query, args...)
	if err != nil {
		return nil, translate(err, "get", t.schema.Name)
	}
	return rec, nil
}

func (t *Table[T]) All(ctx context.Context) ([]*T, error) {
	return t.Find(ctx, nil)
}

func (t *Table[T]) Count(ctx context.Context, pred sq.Sqlizer) (int, error) {
	q := t.builder.Select("COUNT(*)").From(t.schema.Name)
	if pred != nil {
		q = q.Where(pred)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, translate(err, "count", t.schema.Name)
	}

	var n int
	err = t.db.GetContext(ctx, &n, query, args...)
	if err != nil {
		return 0, translate(err, "count", t.schema.Name)
	}
	return n, nil
}

func (t *Table[T]) Exists(ctx context.Context, pred sq.Sqlizer) (bool, error) {
	n, err := t.Count(ctx, pred)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update applies patch to the record with the given id and returns the
// stored result. modified_at is always refreshed.
func (t *Table[T]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	set := make(map[string]any, len(patch)+1)
	for col, v := range patch {
		if col == "id" || col == "created_at" {
			return nil, &Error{Op: "update", Table: t.schema.Name, Err: ErrInvalidPatch, Cause: fmt.Errorf("column %q is immutable", col)}
		}
		if !t.hasColumn(col) {
			return nil, &Error{Op: "update", Table: t.schema.Name, Err: ErrUnknownColumn, Cause: fmt.Errorf("column %q", col)}
		}
		set[col] = v
	}
	set["modified_at"] = t.now().UTC()

	query, args, err := t.builder.Update(t.schema.Name).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, translate(err, "update", t.schema.Name)
	}

	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "update", t.schema.Name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, translate(err, "update", t.schema.Name)
	}
	if n == 0 {
		return nil, &Error{Op: "update", Table: t.schema.Name, Err: ErrNotFound}
	}

	return t.Get(ctx, id)
}

func (t *Table[T]) Delete(ctx context.Context, id string) error {
	query, args, err := t.builder.Delete(t.schema.Name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return translate(err, "delete", t.schema.Name)
	}

	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err, "delete", t.schema.Name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err, "delete", t.schema.Name)
	}
	if n == 0 {
		return &Error{Op: "delete", Table: t.schema.Name, Err: ErrNotFound}
	}
	return nil
}

// Distinct returns the sorted distinct non-empty values of a text column.
func (t *Table[T]) Distinct(ctx context.Context, column string) ([]string, error) {
	if !t.hasColumn(column) {
		return nil, &Error{Op: "distinct", Table: t.schema.Name, Err: ErrUnknownColumn, Cause: fmt.Errorf("column %q", column)}
	}

	query, args, err := t.builder.Select(column).
		Distinct().
		From(t.schema.Name).
		Where(sq.And{sq.NotEq{column: nil}, sq.NotEq{column: ""}}).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, translate(err, "distinct", t.schema.Name)
	}

	values := []string{}
	err = t.db.SelectContext(ctx, &values, query, args...)
	if err != nil {
		return nil, translate(err, "distinct", t.schema.Name)
	}
	return values, nil
}

func (t *Table[T]) hasColumn(column string) bool {
	return slices.Contains(t.schema.Columns, column)
}
