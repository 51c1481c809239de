package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoles = NewEnumSet("user_roles", "Normal", "Admin")

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry("users",
		ID("id").AsManaged(),
		String("username"),
		Enum("user_role", testRoles),
		Bool("confirmed"),
		Time("created_at").AsManaged(),
	)
	require.NoError(t, err)

	assert.Equal(t, "users", reg.Table())
	assert.Equal(t, []string{"id", "username", "user_role", "confirmed", "created_at"}, reg.Names())
	assert.Equal(t, "id, username, user_role, confirmed, created_at", reg.SelectList())

	col, ok := reg.Lookup("user_role")
	require.True(t, ok)
	assert.Equal(t, Enumeration, col.Kind)
	assert.Equal(t, "user_roles", col.Enum.TypeName())

	idCol, _ := reg.Lookup("id")
	assert.True(t, idCol.Managed)

	_, ok = reg.Lookup("nickname")
	assert.False(t, ok)
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		columns []Column
		errMsg  string
	}{
		{
			name:    "bad table name",
			table:   "users; drop table users",
			columns: []Column{ID("id")},
			errMsg:  "invalid table name",
		},
		{
			name:   "no columns",
			table:  "users",
			errMsg: "has no columns",
		},
		{
			name:    "duplicate column",
			table:   "users",
			columns: []Column{ID("id"), String("id")},
			errMsg:  "duplicate column",
		},
		{
			name:    "bad column name",
			table:   "users",
			columns: []Column{String("user name")},
			errMsg:  "invalid column name",
		},
		{
			name:    "enum without labels",
			table:   "users",
			columns: []Column{{Name: "user_role", Kind: Enumeration}},
			errMsg:  "has no label set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.table, tt.columns...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMustRegistry_Panics(t *testing.T) {
	assert.Panics(t, func() { MustRegistry("bad table") })
}

func TestRegistry_UniqueField(t *testing.T) {
	reg := MustRegistry("users", ID("id"), String("username")).
		WithUnique("users_username_key", "username")

	field, ok := reg.UniqueField("users_username_key")
	require.True(t, ok)
	assert.Equal(t, "username", field)

	_, ok = reg.UniqueField("users_email_key")
	assert.False(t, ok)
}

func TestEnumSet(t *testing.T) {
	assert.True(t, testRoles.Contains("Admin"))
	assert.False(t, testRoles.Contains("admin"))
	assert.Equal(t, []string{"Normal", "Admin"}, testRoles.Labels())

	label, err := testRoles.Parse("Normal")
	require.NoError(t, err)
	assert.Equal(t, "Normal", label)

	_, err = testRoles.Parse("Root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Normal, Admin")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "identifier", Identifier.String())
	assert.Equal(t, "enumeration", Enumeration.String())
	assert.Equal(t, "timestamp", Timestamp.String())
	assert.Equal(t, "boolean", Boolean.String())
	assert.Equal(t, "text", Text.String())
}
