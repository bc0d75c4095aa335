// Package cache provides content-addressable storage of analysis
// results keyed by document fingerprint.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/resume-insight/internal/types"
)

// ErrCacheWrite marks a failed attempt to persist a result. Callers
// treat it as non-fatal: the in-memory result is still returned.
var ErrCacheWrite = errors.New("cache write failure")

// Entry is one stored analysis keyed by fingerprint.
type Entry struct {
	Fingerprint string
	Result      types.AnalysisResult
	ElapsedMS   int64 // wall time of the original computation
	HitCount    int64
	CreatedAt   time.Time
}

// Stats summarizes cache effectiveness. TimeSaved is the sum over all
// entries of hit count times the original compute duration.
type Stats struct {
	EntryCount   int64         `json:"entry_count"`
	StorageBytes int64         `json:"storage_bytes"`
	HitCount     int64         `json:"hit_count"`
	TimeSaved    time.Duration `json:"time_saved_ns"`
}

// Store is the cache backend. Get returns (nil, nil) on a miss and
// atomically records a hit otherwise. Save upserts: a fingerprint maps
// to at most one entry regardless of how many times it is written.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*Entry, error)
	Save(ctx context.Context, entry *Entry) error
	Stats(ctx context.Context) (*Stats, error)
	Clear(ctx context.Context) (int64, error)
	Close()
}
