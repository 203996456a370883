// Package query provides SQL statement building with projection mapping.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to table columns and records which
// columns a SELECT or RETURNING clause produces.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project maps a column to a view property and includes it in the projection.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	p.columns[viewName] = column
	p.columnList = append(p.columnList, p.qualify(column))
	return p
}

// Filter maps a column to a property that may be filtered or assigned
// but is never projected.
func (p *ProjectionMap) Filter(column, viewName string) *ProjectionMap {
	p.columns[viewName] = column
	return p
}

// From returns the aliased table reference used by SELECT and UPDATE.
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Into returns the aliased table reference used by INSERT.
func (p *ProjectionMap) Into() string {
	return fmt.Sprintf("%s.%s AS %s", p.schema, p.table, p.alias)
}

// Column returns the alias-qualified column for a view property, or the
// input unchanged if it is not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return p.qualify(col)
	}
	return viewName
}

// Name returns the bare column for a view property. SET and INSERT column
// lists require unqualified names.
func (p *ProjectionMap) Name(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns all projected columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

func (p *ProjectionMap) qualify(column string) string {
	return p.alias + "." + column
}
