package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-insight/internal/types"
)

const joobleBaseURL = "https://jooble.org/api"

// JoobleProvider queries the Jooble job API. Unlike the other
// providers, Jooble takes a POST with a JSON body.
type JoobleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewJoobleProvider creates a provider with the given API key.
func NewJoobleProvider(apiKey string) *JoobleProvider {
	return &JoobleProvider{
		apiKey:  apiKey,
		baseURL: joobleBaseURL,
		client:  &http.Client{},
	}
}

// Name identifies the provider.
func (p *JoobleProvider) Name() string { return "jooble" }

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location,omitempty"`
}

type joobleResponse struct {
	Jobs []struct {
		ID       json.Number `json:"id"`
		Title    string      `json:"title"`
		Company  string      `json:"company"`
		Location string      `json:"location"`
		Updated  string      `json:"updated"`
		Link     string      `json:"link"`
		Snippet  string      `json:"snippet"`
	} `json:"jobs"`
}

// Search queries Jooble. The API has no recency filter, so postings
// older than the query window are dropped client-side.
func (p *JoobleProvider) Search(ctx context.Context, query types.SearchQuery) ([]types.JobPosting, error) {
	body, err := json.Marshal(joobleRequest{Keywords: query.Role, Location: query.Country})
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "failed to encode request", Cause: err}
	}

	endpoint := fmt.Sprintf("%s/%s", p.baseURL, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{
			Provider: p.Name(),
			Message:  fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(payload)),
		}
	}

	var decoded joobleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "failed to decode response", Cause: err}
	}

	postings := make([]types.JobPosting, 0, len(decoded.Jobs))
	for _, r := range decoded.Jobs {
		postedAt := parseTime(r.Updated)
		if query.Recency > 0 && !postedAt.IsZero() {
			if age := nowFunc().Sub(postedAt); age > query.Recency {
				continue
			}
		}
		postings = append(postings, types.JobPosting{
			Provider:    p.Name(),
			ProviderRef: joobleRef(r.ID),
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			PostedAt:    postedAt,
			URL:         r.Link,
			Description: r.Snippet,
		})
	}
	return postings, nil
}

func joobleRef(id json.Number) string {
	if n, err := id.Int64(); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return id.String()
}
