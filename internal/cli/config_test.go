package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/depwalk/depwalk/pkg/provider/maven"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Repository != maven.DefaultRepository {
		t.Errorf("Repository = %q, want default", cfg.Repository)
	}
	if cfg.CacheTTLHours != 24 {
		t.Errorf("CacheTTLHours = %d, want 24", cfg.CacheTTLHours)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Mongo.Database != appName {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, appName)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
repository = "https://mirror.example.com/maven2"
default_version = "1.0.0"
filter = "test"
cache_ttl_hours = 6

[cache]
backend = "redis"
redis_addr = "redis.internal:6379"

[mongo]
uri = "mongodb://localhost:27017"
database = "graphs"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Repository != "https://mirror.example.com/maven2" {
		t.Errorf("Repository = %q", cfg.Repository)
	}
	if cfg.DefaultVersion != "1.0.0" {
		t.Errorf("DefaultVersion = %q", cfg.DefaultVersion)
	}
	if cfg.Filter != "test" {
		t.Errorf("Filter = %q", cfg.Filter)
	}
	if cfg.CacheTTLHours != 6 {
		t.Errorf("CacheTTLHours = %d", cfg.CacheTTLHours)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "redis.internal:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" || cfg.Mongo.Database != "graphs" {
		t.Errorf("Mongo = %+v", cfg.Mongo)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Error("loadConfig() error = nil for malformed file")
	}
}
