package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-insight/internal/types"
)

// recencyLadder is the progressive widening applied when a query does
// not pin a recency window: try the last day first, then widen until
// any postings are found.
var recencyLadder = []time.Duration{
	24 * time.Hour,
	72 * time.Hour,
	168 * time.Hour,
	720 * time.Hour,
}

// Aggregator fans a query out to every configured provider and merges
// the results. A provider failure contributes zero postings and is
// logged; it never fails the aggregate call.
type Aggregator struct {
	providers       []Provider
	providerTimeout time.Duration
	maxResults      int
	log             zerolog.Logger
}

// NewAggregator creates an aggregator over the given providers.
func NewAggregator(providers []Provider, providerTimeout time.Duration, maxResults int, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		providers:       providers,
		providerTimeout: providerTimeout,
		maxResults:      maxResults,
		log:             log,
	}
}

// Search returns the merged posting set for the query. When the query
// has no recency window, the ladder widens it progressively until any
// provider returns postings. Total provider failure yields an empty
// slice and a nil error.
func (a *Aggregator) Search(ctx context.Context, query types.SearchQuery) ([]types.JobPosting, error) {
	if query.MaxResults <= 0 {
		query.MaxResults = a.maxResults
	}

	windows := recencyLadder
	if query.Recency > 0 {
		windows = []time.Duration{query.Recency}
	}

	for _, window := range windows {
		q := query
		q.Recency = window

		postings := a.searchOnce(ctx, q)
		if len(postings) > 0 {
			return postings, nil
		}
		if ctx.Err() != nil {
			return []types.JobPosting{}, nil
		}
		a.log.Debug().
			Str("role", query.Role).
			Dur("window", window).
			Msg("no postings in window, widening")
	}

	return []types.JobPosting{}, nil
}

// searchOnce queries all providers concurrently for one recency window.
func (a *Aggregator) searchOnce(ctx context.Context, query types.SearchQuery) []types.JobPosting {
	var (
		mu        sync.Mutex
		collected []types.JobPosting
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, provider := range a.providers {
		provider := provider
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, a.providerTimeout)
			defer cancel()

			postings, err := provider.Search(pctx, query)
			if err != nil {
				a.log.Warn().
					Str("provider", provider.Name()).
					Err(err).
					Msg("provider failed, contributing zero postings")
				return nil
			}

			mu.Lock()
			collected = append(collected, postings...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	merged := Merge(collected)
	sortByRecency(merged)
	if len(merged) > query.MaxResults {
		merged = merged[:query.MaxResults]
	}
	return merged
}
