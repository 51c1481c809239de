package config

import (
	"fmt"
	"slices"
)

var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

var outputFormats = []string{OutputAuto, OutputTable, OutputJSON, OutputYAML}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31) {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if !slices.Contains(outputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (expected one of %v)", c.OutputFormat, outputFormats)
	}
	return nil
}

// Validate checks the connection settings.
func (d *DatabaseConfig) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("database.name is required\nHint: set it in storectl.yaml, STORECTL_DATABASE_NAME or --dbname")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("database.port out of range: %d", d.Port)
	}
	if !slices.Contains(sslModes, d.SSLMode) {
		return fmt.Errorf("unknown database.sslmode %q", d.SSLMode)
	}
	if d.MaxIdleConns > d.MaxOpenConns && d.MaxOpenConns > 0 {
		return fmt.Errorf("database.max_idle_conns (%d) exceeds database.max_open_conns (%d)", d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

// ValidateSigning checks the settings needed to issue tokens.
func (a *AuthConfig) ValidateSigning() error {
	if a.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required to issue tokens\nHint: export STORECTL_AUTH_JWT_SECRET")
	}
	return nil
}
