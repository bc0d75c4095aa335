package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonathan/resume-insight/internal/types"
)

const jsearchBaseURL = "https://jsearch.p.rapidapi.com"

// JSearchProvider queries the JSearch API on RapidAPI.
type JSearchProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewJSearchProvider creates a provider with the given RapidAPI key.
func NewJSearchProvider(apiKey string) *JSearchProvider {
	return &JSearchProvider{
		apiKey:  apiKey,
		baseURL: jsearchBaseURL,
		client:  &http.Client{},
	}
}

// Name identifies the provider.
func (p *JSearchProvider) Name() string { return "jsearch" }

type jsearchResponse struct {
	Data []struct {
		JobID          string  `json:"job_id"`
		Title          string  `json:"job_title"`
		Employer       string  `json:"employer_name"`
		City           string  `json:"job_city"`
		Country        string  `json:"job_country"`
		MinSalary      float64 `json:"job_min_salary"`
		MaxSalary      float64 `json:"job_max_salary"`
		SalaryCurrency string  `json:"job_salary_currency"`
		PostedAt       string  `json:"job_posted_at_datetime_utc"`
		ApplyLink      string  `json:"job_apply_link"`
		Description    string  `json:"job_description"`
	} `json:"data"`
}

// datePostedParam maps a recency window onto JSearch's coarse buckets.
func datePostedParam(recency time.Duration) string {
	switch {
	case recency <= 24*time.Hour:
		return "today"
	case recency <= 72*time.Hour:
		return "3days"
	case recency <= 168*time.Hour:
		return "week"
	default:
		return "month"
	}
}

// Search queries JSearch for postings in the query's window.
func (p *JSearchProvider) Search(ctx context.Context, query types.SearchQuery) ([]types.JobPosting, error) {
	params := url.Values{}
	params.Set("query", query.Role)
	params.Set("date_posted", datePostedParam(query.Recency))
	params.Set("num_pages", "1")

	endpoint := fmt.Sprintf("%s/search?%s", p.baseURL, params.Encode())
	headers := map[string]string{
		"X-RapidAPI-Key":  p.apiKey,
		"X-RapidAPI-Host": "jsearch.p.rapidapi.com",
	}

	var resp jsearchResponse
	if err := getJSON(ctx, p.client, p.Name(), endpoint, headers, &resp); err != nil {
		return nil, err
	}

	postings := make([]types.JobPosting, 0, len(resp.Data))
	for _, r := range resp.Data {
		location := r.City
		if location == "" {
			location = r.Country
		}
		posting := types.JobPosting{
			Provider:    p.Name(),
			ProviderRef: r.JobID,
			Title:       r.Title,
			Company:     r.Employer,
			Location:    location,
			PostedAt:    parseTime(r.PostedAt),
			URL:         r.ApplyLink,
			Description: r.Description,
		}
		if r.MinSalary > 0 || r.MaxSalary > 0 {
			posting.Salary = &types.SalaryRange{
				Min:      r.MinSalary,
				Max:      r.MaxSalary,
				Currency: r.SalaryCurrency,
			}
		}
		postings = append(postings, posting)
	}
	return postings, nil
}
