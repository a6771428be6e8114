package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperrors "github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/errors"
)

// =============================================================================
// Configuration
// =============================================================================

// Config is the optional TOML configuration. All fields have working
// defaults; the file only overrides them.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`
	// Dir overrides the XDG cache directory for the file backend.
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig configures the serve subcommand.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects the diagram document store for the server.
type StoreConfig struct {
	// Backend is "memory" or "mongo".
	Backend    string `toml:"backend"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Cache:  CacheConfig{Backend: "file", RedisAddr: "localhost:6379"},
		Server: ServerConfig{Addr: ":8080"},
		Store: StoreConfig{
			Backend:    "memory",
			Database:   appName,
			Collection: "diagrams",
		},
	}
}

// validBackends guards against config typos that would silently disable
// caching or storage.
var (
	validCacheBackends = map[string]bool{"file": true, "redis": true, "none": true}
	validStoreBackends = map[string]bool{"memory": true, "mongo": true}
)

// LoadConfig reads the TOML config at path, or frankenmermaid.toml in the
// working directory when path is empty. A missing default file is not an
// error; a missing explicit path is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(".", appName+".toml")
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !validCacheBackends[c.Cache.Backend] {
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if !validStoreBackends[c.Store.Backend] {
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown store backend %q (must be memory or mongo)", c.Store.Backend)
	}
	if c.Store.Backend == "mongo" && c.Store.URI == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "store.uri is required for the mongo backend")
	}
	if c.Server.Addr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	return nil
}

// String renders the effective configuration for debug logging.
func (c *Config) String() string {
	return fmt.Sprintf("cache=%s server=%s store=%s", c.Cache.Backend, c.Server.Addr, c.Store.Backend)
}
