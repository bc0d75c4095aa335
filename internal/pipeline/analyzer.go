package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-insight/internal/cache"
	"github.com/jonathan/resume-insight/internal/hashing"
	"github.com/jonathan/resume-insight/internal/llm"
	"github.com/jonathan/resume-insight/internal/types"
)

// Analyzer fronts the engine with the fingerprint cache. Identical
// uploads hit the cache; concurrent identical uploads are serialized by
// the run guard so inference happens once.
type Analyzer struct {
	store          cache.Store
	guard          *cache.RunGuard
	engine         *Engine
	includePartial bool
	log            zerolog.Logger
}

// NewAnalyzer creates a cache-fronted analyzer. includePartial controls
// whether partial results (role/summary failures) are stored or
// recomputed on the next access.
func NewAnalyzer(store cache.Store, engine *Engine, includePartial bool, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		store:          store,
		guard:          cache.NewRunGuard(),
		engine:         engine,
		includePartial: includePartial,
		log:            log,
	}
}

// AnalyzeOptions holds per-call inputs.
type AnalyzeOptions struct {
	Document types.ResumeDocument
	// ReplayFragments controls whether a cache hit replays the stored
	// structured output through OnFragment for visual parity with a
	// live run.
	ReplayFragments bool
	OnProgress      ProgressCallback
	OnFragment      llm.FragmentFunc
}

// Analyze returns the analysis for the document, computing it only on a
// cache miss. A failed cache write is returned as an ErrCacheWrite-
// wrapped error alongside the still-valid result.
func (a *Analyzer) Analyze(ctx context.Context, opts AnalyzeOptions) (*types.AnalysisResult, error) {
	fingerprint := hashing.Fingerprint(opts.Document.Content)

	if entry, err := a.store.Get(ctx, fingerprint); err != nil {
		a.log.Warn().Err(err).Msg("cache lookup failed, computing")
	} else if entry != nil {
		return a.fromCache(entry, opts), nil
	}

	unlock := a.guard.Lock(fingerprint)
	defer unlock()

	// A concurrent run may have stored the result while we waited.
	if entry, err := a.store.Get(ctx, fingerprint); err == nil && entry != nil {
		return a.fromCache(entry, opts), nil
	}

	result, runErr := a.engine.Run(ctx, RunOptions{
		Source: BytesSource{
			FileName: opts.Document.FileName,
			Format:   opts.Document.Format,
			Content:  opts.Document.Content,
		},
		OnProgress: opts.OnProgress,
		OnFragment: opts.OnFragment,
	})
	if runErr != nil {
		return result, runErr
	}

	if result.Cacheable(a.includePartial) {
		entry := &cache.Entry{
			Fingerprint: fingerprint,
			Result:      *result,
			ElapsedMS:   result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		}
		if err := a.store.Save(ctx, entry); err != nil {
			a.log.Error().Err(err).Str("fingerprint", fingerprint).Msg("cache write failed")
			if !errors.Is(err, cache.ErrCacheWrite) {
				err = fmt.Errorf("%w: %v", cache.ErrCacheWrite, err)
			}
			return result, err
		}
	}

	return result, nil
}

// Stats exposes the underlying cache statistics.
func (a *Analyzer) Stats(ctx context.Context) (*cache.Stats, error) {
	return a.store.Stats(ctx)
}

// ClearCache removes all cached analyses.
func (a *Analyzer) ClearCache(ctx context.Context) (int64, error) {
	return a.store.Clear(ctx)
}

// fromCache marks the stored result as a cache hit and optionally
// replays its structured output as synthetic fragments. The model is
// never invoked on this path.
func (a *Analyzer) fromCache(entry *cache.Entry, opts AnalyzeOptions) *types.AnalysisResult {
	result := entry.Result
	result.FromCache = true

	a.log.Debug().
		Str("fingerprint", entry.Fingerprint).
		Int64("hit_count", entry.HitCount).
		Msg("cache hit")

	if opts.ReplayFragments && opts.OnFragment != nil {
		replayResult(&result, opts.OnFragment)
	}
	return &result
}

// replayResult emits the stored final outputs in stage order, mirroring
// what a live run would have streamed.
func replayResult(result *types.AnalysisResult, onFragment llm.FragmentFunc) {
	if result.Profile != nil {
		if encoded, err := json.Marshal(result.Profile); err == nil {
			onFragment(string(encoded))
		}
	}
	if len(result.RoleMatches) > 0 {
		if encoded, err := json.Marshal(roleMatchResponse{Matches: result.RoleMatches}); err == nil {
			onFragment(string(encoded))
		}
	}
	if result.Quality != nil {
		if encoded, err := json.Marshal(result.Quality); err == nil {
			onFragment(string(encoded))
		}
	}
}
