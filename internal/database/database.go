// Package database opens the PostgreSQL connection pool shared by the stores.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Rsaliu/store-lib/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// DriverName is the database/sql driver used for PostgreSQL.
const DriverName = "pgx"

// Open connects to PostgreSQL, applies the pool limits of cfg and verifies
// the connection with a ping. If logger is nil, a discard logger is used.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("connecting to postgres",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("database", cfg.Name))

	db, err := sql.Open(DriverName, BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	Configure(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// Configure applies the pool limits of cfg to db. Zero values keep the
// database/sql defaults.
func Configure(db *sql.DB, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// BuildDSN constructs a key=value PostgreSQL connection string.
func BuildDSN(cfg config.DatabaseConfig) string {
	host := cfg.Host
	if host == "" {
		host = config.DefaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = config.DefaultSSLMode
	}

	parts := []string{
		"host=" + quote(host),
		fmt.Sprintf("port=%d", port),
		"dbname=" + quote(cfg.Name),
		"sslmode=" + quote(sslmode),
	}
	if cfg.User != "" {
		parts = append(parts, "user="+quote(cfg.User))
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+quote(cfg.Password))
	}
	return strings.Join(parts, " ")
}

// quote wraps values that contain spaces, quotes or backslashes in single
// quotes, escaping as libpq expects.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
