// Package query builds parameterized PostgreSQL statements from documents.
//
// Field names are interpolated into statement text, so every name is checked
// against the table's schema.Registry before a clause is built. Values are
// never interpolated: they are coerced by Bind and passed as $n parameters.
package query

import (
	"fmt"
	"strings"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
)

// Predicate is a conjunctive equality filter.
type Predicate struct {
	// Text is the clause without the WHERE keyword, e.g. "a = $1 AND b = $2".
	Text string
	// Fields are the filtered field names in placeholder order.
	Fields []string
}

// Assignment is the SET clause of an update by id.
type Assignment struct {
	// Set is the clause without the SET keyword, e.g. "a = $1, b = $2".
	Set string
	// Fields are the assigned field names in placeholder order.
	Fields []string
	// IDIndex is the placeholder number bound to the target id. It is always
	// len(Fields)+1.
	IDIndex int
}

// Where returns the closing predicate on the target id.
func (a Assignment) Where() string {
	return fmt.Sprintf("WHERE id = $%d", a.IDIndex)
}

// Text returns the SET clause followed by the closing predicate.
func (a Assignment) Text() string {
	return a.Set + " " + a.Where()
}

// BuildPredicate emits "<field> = $n" for every field of doc, in document
// order, joined with " AND ".
func BuildPredicate(reg *schema.Registry, doc *core.Document) (Predicate, error) {
	fragments, fields, err := buildFragments(reg, doc, false)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{
		Text:   strings.Join(fragments, " AND "),
		Fields: fields,
	}, nil
}

// BuildAssignment emits "<field> = $n" for every field of doc, in document
// order, joined with ", ". The target id binds to the placeholder after the
// last field. Store-managed columns cannot be assigned.
func BuildAssignment(reg *schema.Registry, doc *core.Document) (Assignment, error) {
	fragments, fields, err := buildFragments(reg, doc, true)
	if err != nil {
		return Assignment{}, err
	}
	return Assignment{
		Set:     strings.Join(fragments, ", "),
		Fields:  fields,
		IDIndex: len(fields) + 1,
	}, nil
}

func buildFragments(reg *schema.Registry, doc *core.Document, assign bool) ([]string, []string, error) {
	if doc.Len() == 0 {
		return nil, nil, &core.InvalidInputError{Reason: "document has no fields"}
	}
	if err := doc.CheckFlat(); err != nil {
		return nil, nil, err
	}

	fields := doc.Keys()
	fragments := make([]string, 0, len(fields))
	for i, name := range fields {
		col, ok := reg.Lookup(name)
		if !ok {
			return nil, nil, &core.InvalidInputError{
				Field:  name,
				Reason: fmt.Sprintf("not a column of %s", reg.Table()),
			}
		}
		if assign && col.Managed {
			return nil, nil, &core.InvalidInputError{
				Field:  name,
				Reason: "column is maintained by the store",
			}
		}
		fragments = append(fragments, fmt.Sprintf("%s = $%d", col.Name, i+1))
	}
	return fragments, fields, nil
}
