// Package models holds the typed user and token entities and their
// conversion from documents.
package models

import (
	"fmt"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/query"
	"github.com/go-viper/mapstructure/v2"
)

// ServerFields are maintained by the store and ignored on insert and update.
var ServerFields = []string{"id", "created_at", "updated_at"}

// decode fills result from the fields of doc. Unknown fields are ignored;
// values of the wrong JSON type are rejected rather than converted.
func decode(entity string, doc *core.Document, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  result,
		TagName: "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(query.TimestampLayout),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create %s decoder: %w", entity, err)
	}
	if err := decoder.Decode(doc.Map()); err != nil {
		return &core.ValidationError{Entity: entity, Reason: err.Error()}
	}
	return nil
}

// withoutServerFields returns a copy of doc without store-maintained fields.
func withoutServerFields(doc *core.Document) *core.Document {
	out := doc.Clone()
	if out == nil {
		return core.NewDocument()
	}
	for _, name := range ServerFields {
		out.Delete(name)
	}
	return out
}

// requireString reports a ValidationError when a required string is empty.
func requireString(entity, field, value string) error {
	if value == "" {
		return &core.ValidationError{Entity: entity, Field: field, Reason: "is required"}
	}
	return nil
}

// requirePresent reports a ValidationError when doc lacks field. It is used
// for fields whose zero value is meaningful, such as booleans.
func requirePresent(entity, field string, doc *core.Document) error {
	if !doc.Has(field) {
		return &core.ValidationError{Entity: entity, Field: field, Reason: "is required"}
	}
	return nil
}
