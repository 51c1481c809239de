package query

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queryRows returns real *sql.Rows backed by sqlmock.
func queryRows(t *testing.T, rows *sqlmock.Rows) *sql.Rows {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	result, err := db.Query("SELECT 1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = result.Close() })
	return result
}

func TestMaterialize_TokenRows(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 5, 1, 8, 0, 0, 250000000, time.UTC)
	updated := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "token_string", "token_type", "blacklisted", "created_at", "updated_at"}).
		AddRow(id.String(), "tok-1", "Access", false, created, updated).
		AddRow([]byte(uuid.Nil.String()), []byte("tok-2"), []byte("Refresh"), true, created, updated)

	docs, err := Materialize(tokensRegistry(), queryRows(t, rows))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	first := docs[0]
	assert.Equal(t, []string{"id", "token_string", "token_type", "blacklisted", "created_at", "updated_at"}, first.Keys())

	got, _ := first.Get("id")
	assert.Equal(t, id.String(), got)
	got, _ = first.Get("token_type")
	assert.Equal(t, "Access", got)
	got, _ = first.Get("blacklisted")
	assert.Equal(t, false, got)
	got, _ = first.Get("created_at")
	assert.Equal(t, "2024-05-01T08:00:00.25", got)
	got, _ = first.Get("updated_at")
	assert.Equal(t, "2024-05-02T09:30:00", got)

	second := docs[1]
	got, _ = second.Get("token_string")
	assert.Equal(t, "tok-2", got)
	got, _ = second.Get("blacklisted")
	assert.Equal(t, true, got)
}

func TestMaterialize_FollowsRowColumns(t *testing.T) {
	rows := sqlmock.NewRows([]string{"username", "confirmed"}).
		AddRow("alice", true)

	docs, err := Materialize(usersRegistry(), queryRows(t, rows))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []string{"username", "confirmed"}, docs[0].Keys())
}

func TestMaterialize_NoRows(t *testing.T) {
	rows := sqlmock.NewRows([]string{"id", "username"})

	docs, err := Materialize(usersRegistry(), queryRows(t, rows))
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestMaterialize_NullDecodesToNil(t *testing.T) {
	reg := schema.MustRegistry("notes", schema.ID("id"), schema.String("body").AsNullable())
	rows := sqlmock.NewRows([]string{"id", "body"}).AddRow(uuid.New().String(), nil)

	docs, err := Materialize(reg, queryRows(t, rows))
	require.NoError(t, err)

	body, ok := docs[0].Get("body")
	assert.True(t, ok)
	assert.Nil(t, body)
}

func TestDecode_Null(t *testing.T) {
	_, err := Decode(schema.Bool("confirmed"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDecode))
	assert.Contains(t, err.Error(), "unexpected NULL")

	v, err := Decode(schema.Bool("confirmed").AsNullable(), nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMaterialize_DecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		rows   *sqlmock.Rows
		column string
	}{
		{
			name:   "undeclared column",
			rows:   sqlmock.NewRows([]string{"id", "nickname"}).AddRow(uuid.New().String(), "al"),
			column: "nickname",
		},
		{
			name:   "identifier is not a uuid",
			rows:   sqlmock.NewRows([]string{"id"}).AddRow("42"),
			column: "id",
		},
		{
			name:   "boolean column holds text",
			rows:   sqlmock.NewRows([]string{"confirmed"}).AddRow("yes"),
			column: "confirmed",
		},
		{
			name:   "timestamp column holds text",
			rows:   sqlmock.NewRows([]string{"created_at"}).AddRow("2024-01-01"),
			column: "created_at",
		},
		{
			name:   "null in a not null boolean",
			rows:   sqlmock.NewRows([]string{"confirmed"}).AddRow(nil),
			column: "confirmed",
		},
		{
			name:   "null in a not null identifier",
			rows:   sqlmock.NewRows([]string{"id"}).AddRow(nil),
			column: "id",
		},
		{
			name:   "enum label outside the set",
			rows:   sqlmock.NewRows([]string{"user_role"}).AddRow("Root"),
			column: "user_role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Materialize(usersRegistry(), queryRows(t, tt.rows))
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrDecode), "got %v", err)

			var de *core.DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.column, de.Column)
		})
	}
}

func TestMaterialize_RowError(t *testing.T) {
	rows := sqlmock.NewRows([]string{"username"}).
		AddRow("alice").
		RowError(0, errors.New("connection lost"))

	_, err := Materialize(usersRegistry(), queryRows(t, rows))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDecode))
}

// Values read back from the database must coerce to the same typed values
// they were written with.
func TestRoundTrip_MaterializeThenBind(t *testing.T) {
	reg := usersRegistry()
	id := uuid.New()
	created := time.Date(2023, 12, 31, 23, 59, 59, 999999000, time.UTC)
	updated := time.Date(2024, 1, 1, 0, 0, 0, 1000, time.UTC)

	rows := sqlmock.NewRows(reg.Names()).
		AddRow(id.String(), "alice", "alice@x.com", "$2a$10$hash", "Admin", true, created, updated)

	docs, err := Materialize(reg, queryRows(t, rows))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	args, err := Bind(reg, reg.Names(), docs[0])
	require.NoError(t, err)

	assert.Equal(t, []any{id, "alice", "alice@x.com", "$2a$10$hash", "Admin", true, created, updated}, args)
}
