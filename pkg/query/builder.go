package query

import (
	"fmt"
	"reflect"
	"strings"
)

type condition struct {
	clause string
	args   []any
}

// Scope is a reusable set of conditions applied to a Builder.
type Scope func(*Builder) *Builder

// Assignment sets a column in an INSERT or UPDATE. Field is the view
// property name. When Expr is non-empty it is written verbatim in place of
// a bound parameter and Value is ignored.
type Assignment struct {
	Field string
	Value any
	Expr  string
}

// Set creates a parameterized assignment.
func Set(field string, value any) Assignment {
	return Assignment{Field: field, Value: value}
}

// Raw creates an assignment written as a SQL expression.
func Raw(field, expr string) Assignment {
	return Assignment{Field: field, Expr: expr}
}

// Builder constructs SQL statements using a fluent API with automatic
// parameter numbering.
type Builder struct {
	projection *ProjectionMap
	conditions []condition
}

// NewBuilder creates a Builder for the given projection.
func NewBuilder(projection *ProjectionMap) *Builder {
	return &Builder{
		projection: projection,
		conditions: make([]condition, 0),
	}
}

// Apply runs each scope against the builder in order.
func (b *Builder) Apply(scopes ...Scope) *Builder {
	for _, scope := range scopes {
		b = scope(b)
	}
	return b
}

// Build returns a SELECT query with the current conditions.
func (b *Builder) Build() (string, []any) {
	where, args, _ := b.buildWhere(1)

	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s",
		b.projection.Columns(),
		b.projection.From(),
		where,
	)

	return sql, args
}

// BuildSingle returns a SELECT query limited to one row.
func (b *Builder) BuildSingle() (string, []any) {
	sql, args := b.Build()
	return sql + " LIMIT 1", args
}

// BuildInsert returns an INSERT of the given assignments that returns the
// projected columns of the new row. Conditions are ignored.
func (b *Builder) BuildInsert(set []Assignment) (string, []any) {
	cols := make([]string, 0, len(set))
	values := make([]string, 0, len(set))
	args := make([]any, 0, len(set))

	for _, a := range set {
		cols = append(cols, b.projection.Name(a.Field))
		if a.Expr != "" {
			values = append(values, a.Expr)
			continue
		}
		args = append(args, a.Value)
		values = append(values, fmt.Sprintf("$%d", len(args)))
	}

	var sql string
	if len(cols) == 0 {
		sql = fmt.Sprintf(
			"INSERT INTO %s DEFAULT VALUES RETURNING %s",
			b.projection.Into(),
			b.projection.Columns(),
		)
	} else {
		sql = fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			b.projection.Into(),
			strings.Join(cols, ", "),
			strings.Join(values, ", "),
			b.projection.Columns(),
		)
	}

	return sql, args
}

// BuildUpdate returns an UPDATE of the given assignments constrained by the
// current conditions. WHERE parameters are numbered after SET parameters.
// When returning is true the projected columns of each updated row are returned.
func (b *Builder) BuildUpdate(set []Assignment, returning bool) (string, []any) {
	parts := make([]string, 0, len(set))
	args := make([]any, 0, len(set))

	for _, a := range set {
		col := b.projection.Name(a.Field)
		if a.Expr != "" {
			parts = append(parts, fmt.Sprintf("%s = %s", col, a.Expr))
			continue
		}
		args = append(args, a.Value)
		parts = append(parts, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	where, whereArgs, _ := b.buildWhere(len(args) + 1)
	args = append(args, whereArgs...)

	sql := fmt.Sprintf(
		"UPDATE %s SET %s%s",
		b.projection.From(),
		strings.Join(parts, ", "),
		where,
	)

	if returning {
		sql += " RETURNING " + b.projection.Columns()
	}

	return sql, args
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s = $%%d", col),
		args:   []any{value},
	})
	return b
}

func (b *Builder) buildWhere(startParam int) (string, []any, int) {
	if len(b.conditions) == 0 {
		return "", nil, startParam
	}

	clauses := make([]string, 0, len(b.conditions))
	args := make([]any, 0)
	paramIdx := startParam

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", paramIdx), 1)
			args = append(args, arg)
			paramIdx++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, paramIdx
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
