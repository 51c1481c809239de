package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern restricts column and table names to plain lower-case SQL
// identifiers, since they are interpolated into statement text.
var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Registry is the typed column registry of one table.
type Registry struct {
	table   string
	columns []Column
	byName  map[string]int
	unique  map[string]string
}

// NewRegistry creates a registry for table. Column order is the table's
// projection order.
func NewRegistry(table string, columns ...Column) (*Registry, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s has no columns", table)
	}

	r := &Registry{
		table:  table,
		byName: make(map[string]int, len(columns)),
		unique: make(map[string]string),
	}
	for _, col := range columns {
		if !identifierPattern.MatchString(col.Name) {
			return nil, fmt.Errorf("table %s: invalid column name %q", table, col.Name)
		}
		if _, dup := r.byName[col.Name]; dup {
			return nil, fmt.Errorf("table %s: duplicate column %q", table, col.Name)
		}
		if col.Kind == Enumeration && col.Enum == nil {
			return nil, fmt.Errorf("table %s: enumeration column %q has no label set", table, col.Name)
		}
		r.byName[col.Name] = len(r.columns)
		r.columns = append(r.columns, col)
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. It is meant for
// package-level registry declarations.
func MustRegistry(table string, columns ...Column) *Registry {
	r, err := NewRegistry(table, columns...)
	if err != nil {
		panic(err)
	}
	return r
}

// WithUnique records that constraint guards the uniqueness of column, so
// that violations can be reported by field name.
func (r *Registry) WithUnique(constraint, column string) *Registry {
	r.unique[constraint] = column
	return r
}

// UniqueField returns the column guarded by constraint.
func (r *Registry) UniqueField(constraint string) (string, bool) {
	col, ok := r.unique[constraint]
	return col, ok
}

// Table returns the table name.
func (r *Registry) Table() string { return r.table }

// Lookup returns the column declared under name.
func (r *Registry) Lookup(name string) (Column, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Column{}, false
	}
	return r.columns[i], true
}

// Columns returns the columns in projection order.
func (r *Registry) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Names returns the column names in projection order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.columns))
	for i, col := range r.columns {
		out[i] = col.Name
	}
	return out
}

// SelectList returns the comma-separated projection of all columns.
func (r *Registry) SelectList() string {
	return strings.Join(r.Names(), ", ")
}
