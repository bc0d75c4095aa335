// Package jobs aggregates job postings from multiple provider APIs into
// one deduplicated, recency-ordered set.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/resume-insight/internal/types"
)

// ErrProvider marks any provider-level failure. Aggregation treats it
// as "zero postings from that provider", never as a fatal error.
var ErrProvider = errors.New("provider error")

// Provider is one job posting source.
type Provider interface {
	// Name identifies the provider in logs and posting records.
	Name() string
	// Search returns postings matching the query. Implementations
	// normalize provider payloads into types.JobPosting.
	Search(ctx context.Context, query types.SearchQuery) ([]types.JobPosting, error)
}

// ProviderError wraps a failure from a specific provider.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrProvider
}

// Is lets errors.Is classify any ProviderError as ErrProvider.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

const defaultUserAgent = "Mozilla/5.0 (compatible; ResumeInsight/1.0)"

// nowFunc is swapped in tests that need a fixed clock.
var nowFunc = time.Now

// getJSON issues a GET and decodes the JSON response into out.
func getJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &ProviderError{Provider: provider, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &ProviderError{Provider: provider, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ProviderError{
			Provider: provider,
			Message:  fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Provider: provider, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// parseTime tries the layouts providers are known to use. The zero time
// is returned when none match; merge ordering treats it as "unknown".
func parseTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
