package database

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Connection defaults applied when a URL or flag leaves a field unset.
const (
	DefaultHost     = "localhost"
	DefaultPort     = uint16(5432)
	DefaultUser     = "postgres"
	DefaultDatabase = "postgres"
)

// ConnectionConfig holds everything needed to open one connection.
// An empty Password means no password is sent.
type ConnectionConfig struct {
	Host     string `json:"host"`
	Port     uint16 `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	Database string `json:"database"`
}

// DefaultConfig returns a config pointing at a local server's postgres database.
func DefaultConfig() ConnectionConfig {
	return ConnectionConfig{
		Host:     DefaultHost,
		Port:     DefaultPort,
		User:     DefaultUser,
		Database: DefaultDatabase,
	}
}

// Validate checks that host, user and database are set.
func (c ConnectionConfig) Validate() error {
	if c.Host == "" {
		return NewError(KindInvalidConfiguration, "Host cannot be empty", nil)
	}
	if c.User == "" {
		return NewError(KindInvalidConfiguration, "User cannot be empty", nil)
	}
	if c.Database == "" {
		return NewError(KindInvalidConfiguration, "Database cannot be empty", nil)
	}
	return nil
}

// ConnectionString renders the keyword/value form understood by the driver.
//
// Values are not escaped: a host, user, database or password containing a
// space or '=' produces a string the driver will misread.
func (c ConnectionConfig) ConnectionString() string {
	s := fmt.Sprintf("host=%s port=%d user=%s dbname=%s", c.Host, c.Port, c.User, c.Database)
	if c.Password != "" {
		s += " password=" + c.Password
	}
	return s
}

// WithDatabase returns a copy of c targeting another database.
func (c ConnectionConfig) WithDatabase(name string) ConnectionConfig {
	if name != "" {
		c.Database = name
	}
	return c
}

// String returns user@host:port/database. The password is never included.
func (c ConnectionConfig) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.Port, c.Database)
}

// FromURL parses a postgres:// or postgresql:// URL.
func FromURL(raw string) (ConnectionConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ConnectionConfig{}, NewError(KindURLParse, "parse connection url", err)
	}

	if u.Scheme != "postgresql" && u.Scheme != "postgres" {
		return ConnectionConfig{}, NewError(KindInvalidConfiguration,
			"URL must use postgresql:// or postgres:// scheme", nil)
	}

	cfg := ConnectionConfig{
		Host:     u.Hostname(),
		Port:     DefaultPort,
		User:     DefaultUser,
		Database: strings.TrimLeft(u.Path, "/"),
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}

	if p := u.Port(); p != "" {
		port, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return ConnectionConfig{}, NewError(KindURLParse, "invalid port "+strconv.Quote(p), err)
		}
		cfg.Port = uint16(port)
	}

	if u.User != nil {
		if name := u.User.Username(); name != "" {
			cfg.User = name
		}
		if pw, ok := u.User.Password(); ok {
			cfg.Password = pw
		}
	}

	return cfg, nil
}
