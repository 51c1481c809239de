package query

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
)

// Rows is the subset of *sql.Rows the materializer reads.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

var _ Rows = (*sql.Rows)(nil)

var errUnexpectedNull = errors.New("unexpected NULL")

// Materialize converts every remaining row into a Document. Columns are
// decoded by the kind the registry declares for their name.
func Materialize(reg *schema.Registry, rows Rows) ([]*core.Document, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, &core.DecodeError{Err: err}
	}

	decoders := make([]schema.Column, len(columns))
	for i, name := range columns {
		col, ok := reg.Lookup(name)
		if !ok {
			return nil, &core.DecodeError{
				Column: name,
				Kind:   "undeclared",
				Err:    fmt.Errorf("column is not declared for %s", reg.Table()),
			}
		}
		decoders[i] = col
	}

	docs := []*core.Document{}
	for rows.Next() {
		doc, err := ScanDocument(decoders, rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.DecodeError{Err: err}
	}
	return docs, nil
}

// ScanDocument scans one row whose columns are described by columns and
// decodes it into a Document in column order.
func ScanDocument(columns []schema.Column, scan func(dest ...any) error) (*core.Document, error) {
	raw := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := scan(dest...); err != nil {
		return nil, &core.DecodeError{Err: err}
	}

	doc := core.NewDocument()
	for i, col := range columns {
		value, err := Decode(col, raw[i])
		if err != nil {
			return nil, err
		}
		doc.Set(col.Name, value)
	}
	return doc, nil
}

// Decode converts a raw driver value of col into its document form:
// identifiers and enumeration labels as strings, timestamps in
// TimestampLayout, booleans as bool and text as string. NULL decodes to nil
// for nullable columns and is a DecodeError for the others.
func Decode(col schema.Column, raw any) (any, error) {
	if raw == nil {
		if !col.Nullable {
			return nil, &core.DecodeError{Column: col.Name, Kind: col.Kind.String(), Err: errUnexpectedNull}
		}
		return nil, nil
	}

	var (
		out any
		err error
	)
	switch col.Kind {
	case schema.Identifier:
		out, err = decodeIdentifier(raw)
	case schema.Enumeration:
		out, err = decodeEnumeration(col.Enum, raw)
	case schema.Timestamp:
		out, err = decodeTimestamp(raw)
	case schema.Boolean:
		out, err = decodeBoolean(raw)
	default:
		out, err = decodeText(raw)
	}
	if err != nil {
		return nil, &core.DecodeError{Column: col.Name, Kind: col.Kind.String(), Err: err}
	}
	return out, nil
}

func decodeIdentifier(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return "", err
		}
		return id.String(), nil
	case []byte:
		var id uuid.UUID
		if err := id.Scan(v); err != nil {
			return "", err
		}
		return id.String(), nil
	case [16]byte:
		return uuid.UUID(v).String(), nil
	case uuid.UUID:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unexpected driver type %T", raw)
	}
}

func decodeEnumeration(set *schema.EnumSet, raw any) (string, error) {
	label, err := decodeText(raw)
	if err != nil {
		return "", err
	}
	return set.Parse(label)
}

func decodeTimestamp(raw any) (string, error) {
	t, ok := raw.(time.Time)
	if !ok {
		return "", fmt.Errorf("unexpected driver type %T", raw)
	}
	return t.Format(TimestampLayout), nil
}

func decodeBoolean(raw any) (bool, error) {
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected driver type %T", raw)
	}
	return b, nil
}

func decodeText(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unexpected driver type %T", raw)
	}
}
