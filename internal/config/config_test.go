package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/joinery/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "joinery.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[store]
backend = "redis"

[store.redis]
addr = "cache:6379"
db = 2

[server]
addr = "127.0.0.1:9000"
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.Redis.Addr != "cache:6379" || cfg.Store.Redis.DB != 2 {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.Redis.Prefix != "joinery:" {
		t.Errorf("unset prefix = %q, want default", cfg.Store.Redis.Prefix)
	}
	if cfg.Store.Mongo.Database != DefaultMongoDatabase {
		t.Errorf("mongo defaults lost: %+v", cfg.Store.Mongo)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[store\nbackend = 1"},
		{"wrong type", "[store]\nbackend = 1"},
		{"unknown key", "[store]\nbakend = \"file\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.body)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"file", func(c *Config) { c.Store.Backend = BackendFile }, false},
		{"file without path", func(c *Config) { c.Store.Backend = BackendFile; c.Store.Path = "" }, true},
		{"redis without addr", func(c *Config) { c.Store.Backend = BackendRedis; c.Store.Redis.Addr = "" }, true},
		{"redis negative db", func(c *Config) { c.Store.Backend = BackendRedis; c.Store.Redis.DB = -1 }, true},
		{"mongo without uri", func(c *Config) { c.Store.Backend = BackendMongo; c.Store.Mongo.URI = "" }, true},
		{"mongo without collection", func(c *Config) { c.Store.Backend = BackendMongo; c.Store.Mongo.Collection = "" }, true},
		{"memory ignores redis", func(c *Config) { c.Store.Redis.Addr = "" }, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "sqlite" }, true},
		{"empty server addr", func(c *Config) { c.Server.Addr = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v", errors.GetCode(err))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := writeConfig(t, "[store]\nbackend = \"file\"\npath = \"doc.json\"\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Store.Backend != BackendFile || cfg.Path != path {
			t.Errorf("Load() = %+v", cfg)
		}
	})

	t.Run("environment", func(t *testing.T) {
		path := writeConfig(t, "[server]\naddr = \":7000\"\n")
		t.Setenv(EnvVar, path)
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Addr != ":7000" {
			t.Errorf("server.addr = %q", cfg.Server.Addr)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("Load() of a missing explicit file should fail")
		}
	})

	t.Run("missing default file", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		t.Chdir(t.TempDir())
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Store.Backend != BackendMemory || cfg.Path != "" {
			t.Errorf("Load() = %+v, want defaults", cfg)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		path := writeConfig(t, "[store]\nbackend = \"sqlite\"\n")
		if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Load() error = %v", err)
		}
	})
}
