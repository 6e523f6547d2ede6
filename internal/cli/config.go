package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/depwalk/depwalk/pkg/provider/maven"
)

// Config holds user configuration loaded from the config file.
// Flags always take precedence over file values.
type Config struct {
	// Repository is the Maven repository base URL.
	Repository string `toml:"repository"`

	// DefaultVersion is substituted for coordinates without a version.
	DefaultVersion string `toml:"default_version"`

	// Filter is the default exclusion substring.
	Filter string `toml:"filter"`

	// CacheTTLHours is the POM response cache lifetime.
	CacheTTLHours int `toml:"cache_ttl_hours"`

	Cache CacheConfig `toml:"cache"`
	Mongo MongoConfig `toml:"mongo"`
}

// CacheConfig selects the report cache backend for serve.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// RedisAddr is the redis host:port for the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// MongoConfig configures the report store used by serve and --save.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() Config {
	return Config{
		Repository:    maven.DefaultRepository,
		CacheTTLHours: 24,
		Cache:         CacheConfig{Backend: "file", RedisAddr: "localhost:6379"},
		Mongo:         MongoConfig{Database: appName},
	}
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error and yields defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		var err error
		path, err = configPath()
		if err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Repository == "" {
		cfg.Repository = maven.DefaultRepository
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = appName
	}
	return cfg, nil
}
