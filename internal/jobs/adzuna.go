package jobs

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/jonathan/resume-insight/internal/types"
)

const adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

// AdzunaProvider queries the Adzuna job search API.
type AdzunaProvider struct {
	appID   string
	appKey  string
	baseURL string
	client  *http.Client
}

// NewAdzunaProvider creates a provider with the given credentials.
func NewAdzunaProvider(appID, appKey string) *AdzunaProvider {
	return &AdzunaProvider{
		appID:   appID,
		appKey:  appKey,
		baseURL: adzunaBaseURL,
		client:  &http.Client{},
	}
}

// Name identifies the provider.
func (p *AdzunaProvider) Name() string { return "adzuna" }

type adzunaResponse struct {
	Results []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		SalaryMin   float64 `json:"salary_min"`
		SalaryMax   float64 `json:"salary_max"`
		Created     string  `json:"created"`
		RedirectURL string  `json:"redirect_url"`
		Description string  `json:"description"`
	} `json:"results"`
}

// Search queries Adzuna for postings in the query's window.
func (p *AdzunaProvider) Search(ctx context.Context, query types.SearchQuery) ([]types.JobPosting, error) {
	country := query.Country
	if country == "" {
		country = "us"
	}
	maxDaysOld := int(math.Ceil(query.Recency.Hours() / 24))
	if maxDaysOld < 1 {
		maxDaysOld = 1
	}

	params := url.Values{}
	params.Set("app_id", p.appID)
	params.Set("app_key", p.appKey)
	params.Set("what", query.Role)
	params.Set("max_days_old", fmt.Sprintf("%d", maxDaysOld))
	params.Set("results_per_page", fmt.Sprintf("%d", query.MaxResults))
	params.Set("content-type", "application/json")

	endpoint := fmt.Sprintf("%s/%s/search/1?%s", p.baseURL, country, params.Encode())

	var resp adzunaResponse
	if err := getJSON(ctx, p.client, p.Name(), endpoint, nil, &resp); err != nil {
		return nil, err
	}

	postings := make([]types.JobPosting, 0, len(resp.Results))
	for _, r := range resp.Results {
		posting := types.JobPosting{
			Provider:    p.Name(),
			ProviderRef: r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			PostedAt:    parseTime(r.Created),
			URL:         r.RedirectURL,
			Description: r.Description,
		}
		if r.SalaryMin > 0 || r.SalaryMax > 0 {
			posting.Salary = &types.SalaryRange{Min: r.SalaryMin, Max: r.SalaryMax}
		}
		postings = append(postings, posting)
	}
	return postings, nil
}
