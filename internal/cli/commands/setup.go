package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Rsaliu/store-lib/internal/auth"
	"github.com/Rsaliu/store-lib/internal/config"
	"github.com/Rsaliu/store-lib/internal/database"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// openDatabase opens the connection pool. Tests replace it.
var openDatabase = database.Open

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Renderer *Renderer

	in io.Reader
}

// NewCommandContext creates a CommandContext with an open database.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutDB(cmd)

	db, err := openDatabase(cmd.Context(), cc.Cfg.Database, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	cc.DB = db

	cleanup := func() {
		_ = db.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutDB creates a CommandContext without a database.
func NewCommandContextWithoutDB(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(commandContext(cmd)),
		Renderer: NewRenderer(cmd.OutOrStdout(), cfg.OutputFormat),
		in:       cmd.InOrStdin(),
	}
}

// Hasher returns the password hasher configured for this run.
func (cc *CommandContext) Hasher() auth.Hasher {
	return auth.NewBcryptHasher(cc.Cfg.Auth.BcryptCost)
}

// getConfig returns the current configuration, or the defaults when none
// was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Database: config.DatabaseConfig{
			Host:         config.DefaultHost,
			Port:         config.DefaultPort,
			SSLMode:      config.DefaultSSLMode,
			MaxOpenConns: config.DefaultMaxOpenConns,
			MaxIdleConns: config.DefaultMaxIdleConns,
		},
		Auth: config.AuthConfig{
			BcryptCost: config.DefaultBcryptCost,
			JWTIssuer:  config.DefaultJWTIssuer,
			AccessTTL:  config.DefaultAccessTTL,
			RefreshTTL: config.DefaultRefreshTTL,
		},
		OutputFormat: config.DefaultOutput,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// readDocument parses a JSON document argument. "-" reads it from in.
func readDocument(arg string, in io.Reader) (*core.Document, error) {
	data := []byte(arg)
	if arg == "-" {
		var err error
		if data, err = io.ReadAll(in); err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
	}
	return core.ParseDocument(data)
}

// parseID parses an identifier argument.
func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(arg))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

// printResult renders a single-field result such as a created id or count.
func printResult(cc *CommandContext, name string, value any) error {
	return cc.Renderer.Object(core.NewDocument(core.F(name, value)))
}

// decodeJSON is used for non-document payloads such as import files.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}
