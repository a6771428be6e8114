package cli

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() = %v, want defaults for missing file", err)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("LoadConfig() = nil, want error for missing explicit path")
	}
	if code := apperrors.GetCode(err); code != apperrors.ErrCodeFileNotFound {
		t.Errorf("code = %q, want %q", code, apperrors.ErrCodeFileNotFound)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frankenmermaid.toml")
	content := `
[cache]
backend = "redis"
redis_addr = "redis.internal:6379"
redis_db = 3

[server]
addr = ":9090"

[store]
backend = "mongo"
uri = "mongodb://localhost:27017"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "redis.internal:6379" || cfg.Cache.RedisDB != 3 {
		t.Errorf("cache = %+v, want redis settings applied", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Store.Database != appName {
		t.Errorf("Store.Database = %q, want default %q preserved", cfg.Store.Database, appName)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if code := apperrors.GetCode(err); code != apperrors.ErrCodeInvalidConfig {
		t.Errorf("code = %q, want %q", code, apperrors.ErrCodeInvalidConfig)
	}
}

func TestLoadConfigMongoRequiresURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mongo.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"mongo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if code := apperrors.GetCode(err); code != apperrors.ErrCodeInvalidConfig {
		t.Errorf("code = %q, want %q", code, apperrors.ErrCodeInvalidConfig)
	}
}
