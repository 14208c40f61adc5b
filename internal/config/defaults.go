package config

import (
	"github.com/matzehuels/joinery/pkg/docstore/redisstore"
)

// Default values.
const (
	DefaultStorePath       = "joinery.json"
	DefaultRedisAddr       = "localhost:6379"
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "joinery"
	DefaultMongoCollection = "objects"
	DefaultServerAddr      = ":8080"
)

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendMemory,
			Path:    DefaultStorePath,
			Redis: RedisConfig{
				Addr:   DefaultRedisAddr,
				Prefix: redisstore.DefaultPrefix,
			},
			Mongo: MongoConfig{
				URI:        DefaultMongoURI,
				Database:   DefaultMongoDatabase,
				Collection: DefaultMongoCollection,
			},
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}
