// Package secrets resolves database connection credentials from a reference.
package secrets

import (
	"context"
	"errors"
	"fmt"
)

// DefaultPort is used when a secret does not carry a port.
const DefaultPort = 3306

// ErrNotFound is returned when a reference does not resolve to any secret.
var ErrNotFound = errors.New("secret not found")

// Credentials holds what is needed to open a connection to the person store.
type Credentials struct {
	Host     string `yaml:"host"`
	User     string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Port     int    `yaml:"port"`
}

// Validate checks that the credentials can be used to connect.
func (c Credentials) Validate() error {
	if c.Host == "" {
		return errors.New("credentials: host is required")
	}
	if c.User == "" {
		return errors.New("credentials: user is required")
	}
	if c.Database == "" {
		return errors.New("credentials: database is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("credentials: invalid port %d", c.Port)
	}
	return nil
}

// Provider returns credentials for a reference (an env prefix, a file name, ...).
type Provider interface {
	Credentials(ctx context.Context, reference string) (Credentials, error)
}
