package secrets

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvProvider reads credentials from environment variables named after the
// reference: DB -> DB_HOST, DB_USER, DB_PASSWORD, DB_NAME, DB_PORT.
type EnvProvider struct {
	lookup func(string) (string, bool)
}

// NewEnvProvider creates a provider backed by the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// NewEnvProviderFromMap creates a provider backed by a fixed map.
func NewEnvProviderFromMap(vars map[string]string) *EnvProvider {
	return &EnvProvider{lookup: func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}}
}

func (p *EnvProvider) get(prefix, name string) string {
	v, _ := p.lookup(prefix + "_" + name)
	return strings.TrimSpace(v)
}

// Credentials implements Provider.
func (p *EnvProvider) Credentials(_ context.Context, reference string) (Credentials, error) {
	prefix := strings.ToUpper(strings.TrimSuffix(reference, "_"))
	if prefix == "" {
		return Credentials{}, fmt.Errorf("%w: empty env prefix", ErrNotFound)
	}

	creds := Credentials{
		Host:     p.get(prefix, "HOST"),
		User:     p.get(prefix, "USER"),
		Password: p.get(prefix, "PASSWORD"),
		Database: p.get(prefix, "NAME"),
		Port:     DefaultPort,
	}
	if creds.Host == "" && creds.User == "" && creds.Database == "" {
		return Credentials{}, fmt.Errorf("%w: no %s_* variables set", ErrNotFound, prefix)
	}
	if creds.User == "" {
		creds.User = p.get(prefix, "USERNAME")
	}
	if port := p.get(prefix, "PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return Credentials{}, fmt.Errorf("parse %s_PORT: %w", prefix, err)
		}
		creds.Port = n
	}

	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
