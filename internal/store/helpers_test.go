package store

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rsaliu/store-lib/internal/auth"
	"github.com/Rsaliu/store-lib/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectUsers  = "SELECT id, username, email, password_hash, user_role, confirmed, created_at, updated_at FROM users"
	selectTokens = "SELECT id, token_string, token_type, blacklisted, created_at, updated_at FROM tokens"
	refreshSQL   = "updated_at = (now() at time zone 'utc')"
)

var (
	userColumns  = []string{"id", "username", "email", "password_hash", "user_role", "confirmed", "created_at", "updated_at"}
	tokenColumns = []string{"id", "token_string", "token_type", "blacklisted", "created_at", "updated_at"}
)

// fakeHasher is a deterministic auth.Hasher.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return auth.ErrMismatch
	}
	return nil
}

// newMock returns a sqlmock database matching statements exactly. Unmet
// expectations fail the test.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newUserStore(t *testing.T) *UserStore {
	t.Helper()
	return NewUserStore(fakeHasher{}, testutil.NewTestLogger(t))
}

func newTokenStore(t *testing.T) *TokenStore {
	t.Helper()
	return NewTokenStore(testutil.NewTestLogger(t))
}

type userRow struct {
	id        uuid.UUID
	username  string
	email     string
	hash      string
	role      string
	confirmed bool
	created   time.Time
	updated   time.Time
}

func aliceRow(id uuid.UUID) userRow {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return userRow{
		id:       id,
		username: "alice",
		email:    "alice@x.com",
		hash:     "hashed:secret",
		role:     "Normal",
		created:  ts,
		updated:  ts,
	}
}

func userRows(rows ...userRow) *sqlmock.Rows {
	out := sqlmock.NewRows(userColumns)
	for _, r := range rows {
		out.AddRow(r.id.String(), r.username, r.email, r.hash, r.role, r.confirmed, r.created, r.updated)
	}
	return out
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func idRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id.String())
}

func patchSQL(table string, fields ...string) string {
	set := make([]string, 0, len(fields)+1)
	for i, f := range fields {
		set = append(set, fmt.Sprintf("%s = $%d", f, i+1))
	}
	set = append(set, refreshSQL)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(set, ", "), len(fields)+1)
}
