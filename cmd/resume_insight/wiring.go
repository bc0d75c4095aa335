package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-insight/internal/cache"
	"github.com/jonathan/resume-insight/internal/config"
	"github.com/jonathan/resume-insight/internal/jobs"
	"github.com/jonathan/resume-insight/internal/llm"
	"github.com/jonathan/resume-insight/internal/logger"
	"github.com/jonathan/resume-insight/internal/parsing"
	"github.com/jonathan/resume-insight/internal/pipeline"
)

// loadConfig reads the environment and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

// newStore selects the Postgres cache when DATABASE_URL is set and the
// in-memory cache otherwise.
func newStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (cache.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory cache")
		return cache.NewMemoryStore(), nil
	}
	store, err := cache.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect cache store: %w", err)
	}
	return store, nil
}

// newAnalyzer assembles the cache-fronted pipeline. The returned cleanup
// closes the model client and the cache store.
func newAnalyzer(ctx context.Context, cfg *config.Config) (*pipeline.Analyzer, func(), error) {
	if cfg.GeminiAPIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	log := logger.With("pipeline")

	client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	parser := parsing.NewLLMParser(client)
	engine := pipeline.NewEngine(parser, client, cfg.StageTimeout, log)
	analyzer := pipeline.NewAnalyzer(store, engine, cfg.CachePartialResults, log)

	cleanup := func() {
		_ = client.Close()
		store.Close()
	}
	return analyzer, cleanup, nil
}

// newAggregator wires every provider with credentials in the config.
func newAggregator(cfg *config.Config) *jobs.Aggregator {
	log := logger.With("jobs")

	var providers []jobs.Provider
	if cfg.AdzunaAppID != "" && cfg.AdzunaAppKey != "" {
		providers = append(providers, jobs.NewAdzunaProvider(cfg.AdzunaAppID, cfg.AdzunaAppKey))
	}
	if cfg.JSearchAPIKey != "" {
		providers = append(providers, jobs.NewJSearchProvider(cfg.JSearchAPIKey))
	}
	if cfg.JoobleAPIKey != "" {
		providers = append(providers, jobs.NewJoobleProvider(cfg.JoobleAPIKey))
	}
	if cfg.BoardBaseURL != "" {
		providers = append(providers, jobs.NewBoardProvider(cfg.BoardBaseURL))
	}

	if len(providers) == 0 {
		log.Warn().Msg("no job providers configured, searches will return nothing")
	}
	return jobs.NewAggregator(providers, cfg.ProviderTimeout, cfg.MaxJobsPerQuery, log)
}
