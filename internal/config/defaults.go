package config

import "time"

// Default configuration values.
const (
	DefaultHost            = "localhost"
	DefaultPort            = 5432
	DefaultSSLMode         = "disable"
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 30 * time.Minute
	DefaultBcryptCost      = 10
	DefaultJWTIssuer       = "storectl"
	DefaultAccessTTL       = 15 * time.Minute
	DefaultRefreshTTL      = 7 * 24 * time.Hour
	DefaultOutput          = "auto" // TTY=table, otherwise json
)

// Output formats accepted by the output key.
const (
	OutputAuto  = "auto"
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"database.host":              DefaultHost,
		"database.port":              DefaultPort,
		"database.sslmode":           DefaultSSLMode,
		"database.max_open_conns":    DefaultMaxOpenConns,
		"database.max_idle_conns":    DefaultMaxIdleConns,
		"database.conn_max_lifetime": DefaultConnMaxLifetime.String(),
		"auth.bcrypt_cost":           DefaultBcryptCost,
		"auth.jwt_issuer":            DefaultJWTIssuer,
		"auth.access_ttl":            DefaultAccessTTL.String(),
		"auth.refresh_ttl":           DefaultRefreshTTL.String(),
		"verbose":                    false,
		"output":                     DefaultOutput,
	}
}
