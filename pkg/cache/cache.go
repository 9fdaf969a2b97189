// Package cache provides the caching layer shared by the CLI, the HTTP
// service, and the pipeline. Three backends exist: file (CLI), Redis
// (service), and null (disabled). Keys are built by a Keyer so every
// entry point derives identical keys for identical work.
package cache

import (
	"context"
	"time"
)

// Cache is the backend contract. Get reports a miss with hit=false and a
// nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Cache lifetimes per pipeline stage. Documents and layouts are cheap to
// recompute but keep the CLI snappy on repeated runs; artifacts are the
// expensive stage (PNG/PDF shell out to librsvg).
const (
	TTLDocument = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// LayoutKeyOpts are the layout-stage options that affect the result and
// therefore belong in the cache key.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	AlignRests bool    `json:"align_rests"`
	AutoBeam   bool    `json:"auto_beam"`
}

// ArtifactKeyOpts are the render-stage options that affect the output
// bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale"`
	Background string  `json:"background"`
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// DocumentKey keys a parsed score document by the source hash.
	DocumentKey(scoreHash string) string

	// LayoutKey keys a computed layout by document hash and layout options.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by layout hash and render
	// options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

func (k *DefaultKeyer) DocumentKey(scoreHash string) string {
	return hashKey("doc", scoreHash)
}

func (k *DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
