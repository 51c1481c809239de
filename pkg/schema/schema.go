// Package schema declares the typed column registries of entity tables.
//
// A Registry maps every column of one table to a semantic Kind. The query
// engine uses it as an allow-list for field names and to choose how values
// are coerced before binding and decoded after reading.
package schema

import (
	"fmt"
	"strings"
)

// Kind is the semantic type of a column.
type Kind int

const (
	// Text is free text and the fallback kind.
	Text Kind = iota
	// Identifier is a UUID.
	Identifier
	// Enumeration is a label from a named discrete set.
	Enumeration
	// Timestamp is a date-time without time zone.
	Timestamp
	// Boolean is a true/false flag.
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case Enumeration:
		return "enumeration"
	case Timestamp:
		return "timestamp"
	case Boolean:
		return "boolean"
	default:
		return "text"
	}
}

// EnumSet is a named set of labels backed by a database enum type.
type EnumSet struct {
	typeName string
	labels   []string
}

// NewEnumSet creates an enum set for the database type typeName.
func NewEnumSet(typeName string, labels ...string) *EnumSet {
	return &EnumSet{typeName: typeName, labels: labels}
}

// TypeName returns the database type name of the enum.
func (e *EnumSet) TypeName() string { return e.typeName }

// Labels returns the labels in declaration order.
func (e *EnumSet) Labels() []string {
	out := make([]string, len(e.labels))
	copy(out, e.labels)
	return out
}

// Contains reports whether label is a member of the set.
func (e *EnumSet) Contains(label string) bool {
	for _, l := range e.labels {
		if l == label {
			return true
		}
	}
	return false
}

// Parse returns label if it is a member of the set.
func (e *EnumSet) Parse(label string) (string, error) {
	if !e.Contains(label) {
		return "", fmt.Errorf("unknown %s label %q (expected one of %s)", e.typeName, label, strings.Join(e.labels, ", "))
	}
	return label, nil
}

// Column describes one column of an entity table.
type Column struct {
	Name string
	Kind Kind
	// Enum is set for Enumeration columns.
	Enum *EnumSet
	// Managed columns are maintained by the store and cannot be assigned
	// through a patch.
	Managed bool
	// Nullable columns decode SQL NULL as a JSON null.
	Nullable bool
}

// ID declares an Identifier column.
func ID(name string) Column { return Column{Name: name, Kind: Identifier} }

// Enum declares an Enumeration column drawing labels from set.
func Enum(name string, set *EnumSet) Column {
	return Column{Name: name, Kind: Enumeration, Enum: set}
}

// Time declares a Timestamp column.
func Time(name string) Column { return Column{Name: name, Kind: Timestamp} }

// Bool declares a Boolean column.
func Bool(name string) Column { return Column{Name: name, Kind: Boolean} }

// String declares a Text column.
func String(name string) Column { return Column{Name: name, Kind: Text} }

// AsManaged marks the column as maintained by the store.
func (c Column) AsManaged() Column {
	c.Managed = true
	return c
}

// AsNullable marks the column as nullable.
func (c Column) AsNullable() Column {
	c.Nullable = true
	return c
}
