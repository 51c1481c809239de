package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
)

// TimestampLayout is the text form of Timestamp values in documents.
// Postgres stores microseconds, so decoded values carry at most six digits.
const TimestampLayout = "2006-01-02T15:04:05.999999"

// timestampLayouts are accepted when coercing Timestamp values. None of them
// allows a zone offset: timestamps are naive.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Bind coerces the values of fields, in order, to the kinds their columns
// declare. The Nth result binds to placeholder $N.
func Bind(reg *schema.Registry, fields []string, doc *core.Document) ([]any, error) {
	args := make([]any, 0, len(fields))
	for _, name := range fields {
		col, ok := reg.Lookup(name)
		if !ok {
			return nil, &core.InvalidInputError{
				Field:  name,
				Reason: fmt.Sprintf("not a column of %s", reg.Table()),
			}
		}
		value, ok := doc.Get(name)
		if !ok {
			return nil, &core.InvalidInputError{Field: name, Reason: "missing from document"}
		}
		arg, err := Coerce(col, value)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// Coerce converts value to the Go type bound for col's kind.
func Coerce(col schema.Column, value any) (any, error) {
	var (
		out any
		err error
	)
	switch col.Kind {
	case schema.Identifier:
		out, err = coerceIdentifier(value)
	case schema.Enumeration:
		out, err = coerceEnumeration(col.Enum, value)
	case schema.Timestamp:
		out, err = coerceTimestamp(value)
	case schema.Boolean:
		out, err = coerceBoolean(value)
	default:
		out, err = coerceText(value)
	}
	if err != nil {
		return nil, &core.CoercionError{Field: col.Name, Kind: col.Kind.String(), Value: value, Err: err}
	}
	return out, nil
}

func coerceIdentifier(value any) (uuid.UUID, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		return uuid.Parse(strings.Trim(v, `"`))
	default:
		return uuid.Nil, errUnsupported(value)
	}
}

func coerceEnumeration(set *schema.EnumSet, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		if str, isStringer := value.(fmt.Stringer); isStringer {
			s, ok = str.String(), true
		}
	}
	if !ok {
		return "", errUnsupported(value)
	}
	return set.Parse(strings.Trim(s, `"`))
}

func coerceTimestamp(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		s := strings.Trim(v, `"`)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp format (want %s)", TimestampLayout)
	default:
		return time.Time{}, errUnsupported(value)
	}
}

func coerceBoolean(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.Trim(v, `"`))
	default:
		return false, errUnsupported(value)
	}
}

func coerceText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return strings.Trim(v, `"`), nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", errUnsupported(value)
	}
}

func errUnsupported(value any) error {
	if value == nil {
		return fmt.Errorf("null is not allowed")
	}
	return fmt.Errorf("unsupported value type %T", value)
}
