// Package cache provides pluggable byte caches and cache key derivation for
// the diagram pipeline.
//
// Three backends are provided:
//   - FileCache for CLI usage (entries on disk, TTL in metadata)
//   - RedisCache for server deployments
//   - NullCache to disable caching entirely
//
// Keys are derived by a Keyer so the pipeline never concatenates raw user
// input into cache keys.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default TTLs per pipeline stage. Parsed IR and layouts are cheap to
// recompute; rendered artifacts are the expensive tier.
const (
	TTLParse  = 24 * time.Hour
	TTLLayout = 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ParseKeyOpts distinguishes parse cache entries computed under different
// settings.
type ParseKeyOpts struct {
	Dialect string `json:"dialect"`
}

// LayoutKeyOpts distinguishes layout cache entries.
type LayoutKeyOpts struct {
	Traced bool `json:"traced"`
}

// RenderKeyOpts distinguishes rendered artifacts.
type RenderKeyOpts struct {
	Format string `json:"format"`
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// ParseKey generates a key for parsed IR, keyed by source hash.
	ParseKey(sourceHash string, opts ParseKeyOpts) string

	// LayoutKey generates a key for computed layouts, keyed by IR hash.
	LayoutKey(irHash string, opts LayoutKeyOpts) string

	// RenderKey generates a key for rendered artifacts, keyed by layout hash.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// DefaultKeyer derives keys as prefix:sha256(json(parts)).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ParseKey generates a key for parsed IR.
func (k *DefaultKeyer) ParseKey(sourceHash string, opts ParseKeyOpts) string {
	return hashKey("parse", sourceHash, opts)
}

// LayoutKey generates a key for computed layouts.
func (k *DefaultKeyer) LayoutKey(irHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", irHash, opts)
}

// RenderKey generates a key for rendered artifacts.
func (k *DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}

// hashKey derives a stage key as prefix:sha256(json(parts)). Hashing the
// option struct alongside the content hash keeps distinct settings from
// colliding on the same source.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. The pipeline uses it to fingerprint
// diagram source, IR, and layouts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
