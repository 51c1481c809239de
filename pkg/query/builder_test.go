package query

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPredicate(t *testing.T) {
	tests := []struct {
		name       string
		doc        *core.Document
		wantText   string
		wantFields []string
	}{
		{
			name:       "single field",
			doc:        core.NewDocument(core.F("username", "alice")),
			wantText:   "username = $1",
			wantFields: []string{"username"},
		},
		{
			name: "keeps document order",
			doc: core.NewDocument(
				core.F("email", "alice@x.com"),
				core.F("confirmed", false),
				core.F("user_role", "Normal"),
			),
			wantText:   "email = $1 AND confirmed = $2 AND user_role = $3",
			wantFields: []string{"email", "confirmed", "user_role"},
		},
		{
			name:       "managed columns can be filtered",
			doc:        core.NewDocument(core.F("id", "8c1f5c1e-5b7a-4a53-9a8a-3f4f4f4f4f4f")),
			wantText:   "id = $1",
			wantFields: []string{"id"},
		},
	}

	reg := usersRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := BuildPredicate(reg, tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, pred.Text)
			assert.Equal(t, tt.wantFields, pred.Fields)
		})
	}
}

func TestBuildPredicate_FragmentCountMatchesFields(t *testing.T) {
	reg := usersRegistry()
	names := reg.Names()

	for n := 1; n <= len(names); n++ {
		doc := core.NewDocument()
		for _, name := range names[:n] {
			doc.Set(name, "x")
		}

		pred, err := BuildPredicate(reg, doc)
		require.NoError(t, err)

		fragments := strings.Split(pred.Text, " AND ")
		require.Len(t, fragments, n)
		for i, frag := range fragments {
			assert.Equal(t, fmt.Sprintf("%s = $%d", names[i], i+1), frag)
		}
		assert.Equal(t, names[:n], pred.Fields)
	}
}

func TestBuildPredicate_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		doc   *core.Document
		field string
	}{
		{name: "empty document", doc: core.NewDocument()},
		{name: "nil document", doc: nil},
		{name: "unknown field", doc: core.NewDocument(core.F("nickname", "al")), field: "nickname"},
		{
			name:  "injection attempt in field name",
			doc:   core.NewDocument(core.F("username = username OR 1=1 --", "x")),
			field: "username = username OR 1=1 --",
		},
		{
			name:  "nested value",
			doc:   core.NewDocument(core.F("username", map[string]any{"$ne": ""})),
			field: "username",
		},
	}

	reg := usersRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPredicate(reg, tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidInput), "got %v", err)

			var inv *core.InvalidInputError
			require.True(t, errors.As(err, &inv))
			assert.Equal(t, tt.field, inv.Field)
		})
	}
}

func TestBuildAssignment(t *testing.T) {
	reg := usersRegistry()
	doc := core.NewDocument(core.F("username", "alice2"), core.F("confirmed", true))

	assign, err := BuildAssignment(reg, doc)
	require.NoError(t, err)

	assert.Equal(t, "username = $1, confirmed = $2", assign.Set)
	assert.Equal(t, []string{"username", "confirmed"}, assign.Fields)
	assert.Equal(t, 3, assign.IDIndex)
	assert.Equal(t, "WHERE id = $3", assign.Where())
	assert.Equal(t, "username = $1, confirmed = $2 WHERE id = $3", assign.Text())
	assert.NotContains(t, assign.Set, "email")
}

func TestBuildAssignment_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		doc    *core.Document
		errMsg string
	}{
		{name: "empty document", doc: core.NewDocument(), errMsg: "no fields"},
		{name: "unknown field", doc: core.NewDocument(core.F("role", "Admin")), errMsg: "not a column of users"},
		{name: "id is managed", doc: core.NewDocument(core.F("id", "x")), errMsg: "maintained by the store"},
		{name: "updated_at is managed", doc: core.NewDocument(core.F("updated_at", "2024-01-01T00:00:00")), errMsg: "maintained by the store"},
		{name: "nested value", doc: core.NewDocument(core.F("email", []any{"a", "b"})), errMsg: "nested"},
	}

	reg := usersRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildAssignment(reg, tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
