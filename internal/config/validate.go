package config

import (
	"github.com/matzehuels/joinery/pkg/errors"
)

// Validate checks that the settings of the selected backend are usable.
// Settings of other backends are not checked.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.path cannot be empty for the file backend")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis.addr cannot be empty")
		}
		if c.Store.Redis.DB < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis.db must be >= 0, got %d", c.Store.Redis.DB)
		}
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo.uri cannot be empty")
		}
		if c.Store.Mongo.Database == "" || c.Store.Mongo.Collection == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo.database and store.mongo.collection cannot be empty")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store.backend %q (want memory, file, redis or mongo)", c.Store.Backend)
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	return nil
}
