// Package cache provides storage backends for relaxation runs and rendered
// artifacts.
//
// Relaxing a large image takes seconds, so deterministic runs (those with an
// explicit seed) are cached by a key derived from the image content and run
// parameters. Rendered outputs are cached separately, keyed by the hash of
// the positions they were drawn from.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, used by the CLI
//   - [RedisCache]: shared cache for the HTTP API
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] maps inputs to cache keys. [DefaultKeyer] hashes all options so
// that any parameter change yields a new key; [ScopedKeyer] adds a namespace
// prefix.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	TTLRun      = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
//
// Get reports a miss with hit == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// RunKeyOpts holds the parameters that influence a relaxation result.
type RunKeyOpts struct {
	Points     int     `json:"points"`
	Iterations int     `json:"iterations"`
	Workers    int     `json:"workers"`
	Gain       float64 `json:"gain"`
	Seed       uint64  `json:"seed"`
	Model      string  `json:"model"`
	MinWidth   int     `json:"min_width"`
	MaxWidth   int     `json:"max_width"`
}

// ArtifactKeyOpts holds the parameters that influence a rendered output.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Mode      string  `json:"mode"`
	Radius    float64 `json:"radius"`
	LineWidth float64 `json:"line_width"`
	Scale     float64 `json:"scale"`
}

// Keyer generates cache keys.
type Keyer interface {
	// RunKey keys final positions by source image hash and run options.
	RunKey(imageHash string, opts RunKeyOpts) string

	// ArtifactKey keys a rendered output by positions hash and render options.
	ArtifactKey(positionsHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RunKey implements Keyer.
func (DefaultKeyer) RunKey(imageHash string, opts RunKeyOpts) string {
	return hashKey("run", imageHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(positionsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", positionsHash, opts)
}
