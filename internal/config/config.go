package config

import (
	"fmt"
	"sort"

	"github.com/joacominatel/dcon/internal/database"
)

// Config is the content of the configuration file.
type Config struct {
	Format         string    `mapstructure:"format" yaml:"format,omitempty"`
	NoColor        bool      `mapstructure:"no_color" yaml:"no_color,omitempty"`
	DefaultProfile string    `mapstructure:"default_profile" yaml:"default_profile,omitempty"`
	Host           string    `mapstructure:"host" yaml:"host,omitempty"`
	Port           int       `mapstructure:"port" yaml:"port,omitempty"`
	User           string    `mapstructure:"user" yaml:"user,omitempty"`
	Database       string    `mapstructure:"database" yaml:"database,omitempty"`
	Profiles       []Profile `mapstructure:"profiles" yaml:"profiles,omitempty"`
}

// Profile is a saved connection. Passwords are kept in the OS keyring,
// never in the file.
type Profile struct {
	Name     string `mapstructure:"name" yaml:"name" json:"name"`
	Host     string `mapstructure:"host" yaml:"host,omitempty" json:"host"`
	Port     int    `mapstructure:"port" yaml:"port,omitempty" json:"port"`
	User     string `mapstructure:"user" yaml:"user,omitempty" json:"user"`
	Database string `mapstructure:"database" yaml:"database,omitempty" json:"database"`
}

// ProfileFrom builds a profile from a connection config.
func ProfileFrom(name string, cfg database.ConnectionConfig) Profile {
	return Profile{
		Name:     name,
		Host:     cfg.Host,
		Port:     int(cfg.Port),
		User:     cfg.User,
		Database: cfg.Database,
	}
}

// DisplayString returns user@host:port/database, leaving out unset parts.
func (p Profile) DisplayString() string {
	s := p.Host
	if p.Port > 0 {
		s += fmt.Sprintf(":%d", p.Port)
	}
	s += "/" + p.Database
	if p.User != "" {
		s = p.User + "@" + s
	}
	return s
}

// Profile returns the profile called name.
func (cfg *Config) Profile(name string) (Profile, bool) {
	for _, p := range cfg.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// SaveProfile adds p or replaces the profile with the same name. Profiles
// stay sorted by name.
func (cfg *Config) SaveProfile(p Profile) {
	for i := range cfg.Profiles {
		if cfg.Profiles[i].Name == p.Name {
			cfg.Profiles[i] = p
			return
		}
	}
	cfg.Profiles = append(cfg.Profiles, p)
	sort.Slice(cfg.Profiles, func(i, j int) bool { return cfg.Profiles[i].Name < cfg.Profiles[j].Name })
}

// RemoveProfile deletes the profile called name and reports whether it
// existed. Removing the default profile clears the default.
func (cfg *Config) RemoveProfile(name string) bool {
	for i, p := range cfg.Profiles {
		if p.Name == name {
			cfg.Profiles = append(cfg.Profiles[:i], cfg.Profiles[i+1:]...)
			if cfg.DefaultProfile == name {
				cfg.DefaultProfile = ""
			}
			return true
		}
	}
	return false
}
