package config

import (
	"fmt"
	"os"
	"strings"
)

// ErrMissingCredentials indicates no password could be found for the
// upstream account. Fatal for a sync run; checked before authentication.
var ErrMissingCredentials = fmt.Errorf("config: upstream password not set")

// Credentials is the upstream account login pair.
type Credentials struct {
	Username string
	Password string
}

// ResolveCredentials returns the upstream credentials: username from the
// config, password from the configured environment variable, falling
// back to the password file.
func (c *Config) ResolveCredentials() (Credentials, error) {
	if pw := os.Getenv(c.Upstream.PasswordEnv); pw != "" {
		return Credentials{Username: c.Upstream.Username, Password: pw}, nil
	}
	if c.Upstream.PasswordFile != "" {
		data, err := os.ReadFile(c.Upstream.PasswordFile)
		if err != nil {
			return Credentials{}, fmt.Errorf("config: read password file %s: %w", c.Upstream.PasswordFile, err)
		}
		pw := strings.TrimSpace(string(data))
		if pw != "" {
			return Credentials{Username: c.Upstream.Username, Password: pw}, nil
		}
	}
	return Credentials{}, ErrMissingCredentials
}

// StorePassword writes the password to the configured password file with
// owner-only permissions.
func (c *Config) StorePassword(password string) error {
	if c.Upstream.PasswordFile == "" {
		return fmt.Errorf("config: upstream.password_file is not set")
	}
	if err := os.WriteFile(c.Upstream.PasswordFile, []byte(password+"\n"), 0o600); err != nil {
		return fmt.Errorf("config: write password file %s: %w", c.Upstream.PasswordFile, err)
	}
	return nil
}
