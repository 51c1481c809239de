package commands

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rsaliu/store-lib/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectUsers  = "SELECT id, username, email, password_hash, user_role, confirmed, created_at, updated_at FROM users"
	selectTokens = "SELECT id, token_string, token_type, blacklisted, created_at, updated_at FROM tokens"
)

var (
	userColumns  = []string{"id", "username", "email", "password_hash", "user_role", "confirmed", "created_at", "updated_at"}
	tokenColumns = []string{"id", "token_string", "token_type", "blacklisted", "created_at", "updated_at"}
)

// withMock makes every command open the returned sqlmock database instead of
// connecting to PostgreSQL. The configuration is reset to the defaults.
func withMock(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	config.ResetConfig()
	prev := openDatabase
	openDatabase = func(context.Context, config.DatabaseConfig, *slog.Logger) (*sql.DB, error) {
		return db, nil
	}
	t.Cleanup(func() {
		openDatabase = prev
		config.ResetConfig()
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return mock
}

// loadConfig loads a configuration from the environment so commands see it
// through config.GetCurrentConfig.
func loadConfig(t *testing.T, env map[string]string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("STORECTL_DATABASE_NAME", "app")
	for k, v := range env {
		t.Setenv(k, v)
	}
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
}

// execute runs cmd with args and stdin and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return out.String(), err
}

func decodeObject(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

func decodeList(t *testing.T, out string) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &l), out)
	return l
}
