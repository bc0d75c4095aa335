package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-insight/internal/types"
)

// PostgresStore persists cache entries in an analysis_cache table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database, verifies the connection
// and ensures the cache table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_cache (
			fingerprint TEXT PRIMARY KEY,
			result      JSONB NOT NULL,
			elapsed_ms  BIGINT NOT NULL DEFAULT 0,
			hit_count   BIGINT NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_hit_at TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("failed to create analysis_cache table: %w", err)
	}
	return nil
}

// Get looks up a fingerprint. On a hit the hit counter is incremented
// in the same statement, so concurrent readers never lose a count.
func (s *PostgresStore) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	var (
		resultJSON []byte
		entry      Entry
	)
	err := s.pool.QueryRow(ctx,
		`UPDATE analysis_cache
		 SET hit_count = hit_count + 1, last_hit_at = NOW()
		 WHERE fingerprint = $1
		 RETURNING result, elapsed_ms, hit_count, created_at`,
		fingerprint,
	).Scan(&resultJSON, &entry.ElapsedMS, &entry.HitCount, &entry.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}

	entry.Fingerprint = fingerprint
	entry.Result = result
	return &entry, nil
}

// Save upserts the entry. A second writer for the same fingerprint
// replaces the stored result rather than creating a duplicate.
func (s *PostgresStore) Save(ctx context.Context, entry *Entry) error {
	resultJSON, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal result: %v", ErrCacheWrite, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analysis_cache (fingerprint, result, elapsed_ms)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (fingerprint)
		 DO UPDATE SET result = EXCLUDED.result, elapsed_ms = EXCLUDED.elapsed_ms`,
		entry.Fingerprint, resultJSON, entry.ElapsedMS,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Stats aggregates entry count, storage footprint, hits and the total
// compute time those hits avoided.
func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var timeSavedMS int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(pg_column_size(result)), 0),
		        COALESCE(SUM(hit_count), 0),
		        COALESCE(SUM(hit_count * elapsed_ms), 0)
		 FROM analysis_cache`,
	).Scan(&stats.EntryCount, &stats.StorageBytes, &stats.HitCount, &timeSavedMS)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cache stats: %w", err)
	}

	stats.TimeSaved = msToDuration(timeSavedMS)
	return &stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (s *PostgresStore) Clear(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM analysis_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
