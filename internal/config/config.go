// Package config loads joinery settings from a TOML file.
//
// Settings are read from joinery.toml in the working directory, or from the
// path in JOINERY_CONFIG or the --config flag. A missing file is not an
// error: every setting has a default, and the default store keeps documents
// in memory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the config file read when no path is given.
const DefaultFile = "joinery.toml"

// EnvVar overrides the config file path.
const EnvVar = "JOINERY_CONFIG"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the full set of joinery settings.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Path    string      `toml:"path"` // file backend
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ResolvePath returns the config file to read: flag, then environment, then
// DefaultFile. explicit reports whether the path was asked for, in which case
// a missing file is an error.
func ResolvePath(flag string) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, true
	}
	return DefaultFile, false
}

// Load reads the config file chosen by [ResolvePath], fills in defaults and
// validates the result.
func Load(flag string) (*Config, error) {
	path, explicit := ResolvePath(flag)
	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		cfg = Default()
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads one TOML file over the defaults. It does not validate.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML over the defaults. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return cfg, nil
}
