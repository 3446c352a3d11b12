package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joacominatel/dcon/internal/database"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configDir  = ".dcon"
	configFile = "config"
	configType = "yaml"
	envPrefix  = "DCON"
)

// Configuration keys. Flags are bound under the same names with '_'
// spelled '-'.
const (
	KeyHost     = "host"
	KeyPort     = "port"
	KeyUser     = "user"
	KeyPassword = "password"
	KeyDatabase = "database"
	KeyURL      = "url"
	KeyFormat   = "format"
	KeyNoColor  = "no_color"
	KeyProfile  = "profile"
	KeyVerbose  = "verbose"
)

// Settings is the fully resolved invocation state.
type Settings struct {
	Connection database.ConnectionConfig
	Profile    string
	Format     string
	NoColor    bool
	Verbose    bool

	// KeyringErr is set when the profile password could not be read from
	// the keyring. Resolution still succeeds, without a password.
	KeyringErr error
}

// Loader resolves settings from flags, environment, the config file and
// defaults, in that order.
type Loader struct {
	v       *viper.Viper
	path    string
	flags   *pflag.FlagSet
	secrets Secrets
}

// NewLoader returns a loader reading path, or ~/.dcon/config.yaml when
// path is empty.
func NewLoader(path string, secrets Secrets) *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := database.DefaultConfig()
	v.SetDefault(KeyHost, defaults.Host)
	v.SetDefault(KeyPort, int(defaults.Port))
	v.SetDefault(KeyUser, defaults.User)
	v.SetDefault(KeyDatabase, defaults.Database)
	v.SetDefault(KeyFormat, "table")

	return &Loader{v: v, path: path, secrets: secrets}
}

// BindFlags binds every flag in fs whose name matches a configuration key.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	l.flags = fs
	for _, key := range []string{KeyHost, KeyPort, KeyUser, KeyPassword, KeyDatabase, KeyURL, KeyFormat, KeyNoColor, KeyProfile, KeyVerbose} {
		f := fs.Lookup(flagName(key))
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	}
	return nil
}

// Path returns the config file location.
func (l *Loader) Path() (string, error) {
	if l.path != "" {
		return l.path, nil
	}
	dir, err := configDirPath()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, configFile+"."+configType), nil
}

// Load reads the config file. A missing file yields an empty config.
// The returned value holds only what the file says; flags and environment
// are applied by Resolve.
func (l *Loader) Load() (*Config, error) {
	path, err := l.Path()
	if err != nil {
		return nil, err
	}

	fv := viper.New()
	fv.SetConfigFile(path)
	fv.SetConfigType(configType)

	cfg := &Config{}
	if err := fv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := fv.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := l.v.MergeConfigMap(fv.AllSettings()); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the config file, creating its directory.
func (l *Loader) Save(cfg *Config) error {
	path, err := l.Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	w := viper.New()
	w.SetConfigType(configType)
	if cfg.Format != "" {
		w.Set(KeyFormat, cfg.Format)
	}
	if cfg.NoColor {
		w.Set(KeyNoColor, true)
	}
	if cfg.DefaultProfile != "" {
		w.Set("default_profile", cfg.DefaultProfile)
	}
	if cfg.Host != "" {
		w.Set(KeyHost, cfg.Host)
	}
	if cfg.Port != 0 {
		w.Set(KeyPort, cfg.Port)
	}
	if cfg.User != "" {
		w.Set(KeyUser, cfg.User)
	}
	if cfg.Database != "" {
		w.Set(KeyDatabase, cfg.Database)
	}
	w.Set("profiles", cfg.Profiles)

	if err := w.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Resolve computes the settings for this invocation.
//
// Connection fields come from --url when given, otherwise from an explicit
// flag or environment variable, then the selected profile, then the
// config file's top-level keys, then built-in defaults. The password comes
// from --password / DCON_PASSWORD, then the URL, then the keyring entry of
// the selected profile. An unreachable keyring is reported in KeyringErr
// and does not fail resolution.
func (l *Loader) Resolve(cfg *Config) (Settings, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	s := Settings{
		Format:  l.v.GetString(KeyFormat),
		NoColor: l.v.GetBool(KeyNoColor),
		Verbose: l.v.GetBool(KeyVerbose),
	}

	var profile Profile
	name := l.v.GetString(KeyProfile)
	if name == "" {
		name = cfg.DefaultProfile
	}
	if name != "" {
		p, ok := cfg.Profile(name)
		if !ok {
			return Settings{}, database.NewError(database.KindInvalidConfiguration,
				fmt.Sprintf("profile %q not found", name), nil)
		}
		profile = p
		s.Profile = name
	}

	var conn database.ConnectionConfig
	if raw := l.v.GetString(KeyURL); raw != "" {
		u, err := database.FromURL(raw)
		if err != nil {
			return Settings{}, err
		}
		conn = u
	} else {
		port := l.intValue(KeyPort, profile.Port)
		if port <= 0 || port > 65535 {
			return Settings{}, database.NewError(database.KindInvalidConfiguration,
				fmt.Sprintf("port %d out of range", port), nil)
		}
		conn = database.ConnectionConfig{
			Host:     l.stringValue(KeyHost, profile.Host),
			Port:     uint16(port),
			User:     l.stringValue(KeyUser, profile.User),
			Database: l.stringValue(KeyDatabase, profile.Database),
		}
	}

	if pw := l.v.GetString(KeyPassword); pw != "" {
		conn.Password = pw
	} else if conn.Password == "" && s.Profile != "" && l.secrets != nil {
		pw, err := l.secrets.Get(s.Profile)
		if err != nil {
			s.KeyringErr = fmt.Errorf("read password for profile %s: %w", s.Profile, err)
		} else {
			conn.Password = pw
		}
	}

	s.Connection = conn
	return s, nil
}

// explicit reports whether key was given as a flag or environment variable.
func (l *Loader) explicit(key string) bool {
	if l.flags != nil {
		if f := l.flags.Lookup(flagName(key)); f != nil && f.Changed {
			return true
		}
	}
	_, ok := os.LookupEnv(envPrefix + "_" + strings.ToUpper(key))
	return ok
}

func (l *Loader) stringValue(key, fromProfile string) string {
	if !l.explicit(key) && fromProfile != "" {
		return fromProfile
	}
	return l.v.GetString(key)
}

func (l *Loader) intValue(key string, fromProfile int) int {
	if !l.explicit(key) && fromProfile != 0 {
		return fromProfile
	}
	return l.v.GetInt(key)
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func configDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

// Dir returns ~/.dcon.
func Dir() (string, error) {
	return configDirPath()
}
