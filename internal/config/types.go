// Package config loads storectl configuration from defaults, a YAML file,
// STORECTL_* environment variables and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config holds all storectl configuration options.
type Config struct {
	Database     DatabaseConfig `koanf:"database"`
	Auth         AuthConfig     `koanf:"auth"`
	Verbose      bool           `koanf:"verbose"`
	OutputFormat string         `koanf:"output"`
}

// DatabaseConfig holds the PostgreSQL connection settings and pool limits.
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"sslmode"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// String describes the connection target without credentials.
func (d DatabaseConfig) String() string {
	return fmt.Sprintf("%s:%d/%s", d.Host, d.Port, d.Name)
}

// AuthConfig holds password hashing and token signing settings.
type AuthConfig struct {
	BcryptCost int           `koanf:"bcrypt_cost"`
	JWTSecret  string        `koanf:"jwt_secret"`
	JWTIssuer  string        `koanf:"jwt_issuer"`
	AccessTTL  time.Duration `koanf:"access_ttl"`
	RefreshTTL time.Duration `koanf:"refresh_ttl"`
}
