package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-insight/internal/types"
)

// BoardProvider scrapes an HTML job board that has no JSON API. It
// expects listing pages of the form <base>/jobs?q=<role> whose entries
// are .job-listing elements carrying .job-title, .job-company,
// .job-location, an <a> link and an optional <time datetime="...">.
type BoardProvider struct {
	baseURL string
	client  *http.Client
}

// NewBoardProvider creates a scraper for the board at baseURL.
func NewBoardProvider(baseURL string) *BoardProvider {
	return &BoardProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Name identifies the provider.
func (p *BoardProvider) Name() string { return "board" }

// Search fetches and scrapes the board's listing page. Postings older
// than the query window are dropped; undated postings are kept.
func (p *BoardProvider) Search(ctx context.Context, query types.SearchQuery) ([]types.JobPosting, error) {
	endpoint := fmt.Sprintf("%s/jobs?q=%s", p.baseURL, url.QueryEscape(query.Role))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider: p.Name(),
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "failed to parse HTML", Cause: err}
	}

	var postings []types.JobPosting
	doc.Find(".job-listing").Each(func(_ int, sel *goquery.Selection) {
		posting := types.JobPosting{
			Provider: p.Name(),
			Title:    strings.TrimSpace(sel.Find(".job-title").Text()),
			Company:  strings.TrimSpace(sel.Find(".job-company").Text()),
			Location: strings.TrimSpace(sel.Find(".job-location").Text()),
		}
		if posting.Title == "" || posting.Company == "" {
			return
		}

		if href, ok := sel.Find("a").First().Attr("href"); ok {
			posting.URL = p.absoluteURL(href)
		}
		if datetime, ok := sel.Find("time").First().Attr("datetime"); ok {
			posting.PostedAt = parseTime(datetime)
		}
		posting.Description = strings.TrimSpace(sel.Find(".job-description").Text())

		if query.Recency > 0 && !posting.PostedAt.IsZero() {
			if nowFunc().Sub(posting.PostedAt) > query.Recency {
				return
			}
		}
		postings = append(postings, posting)
	})

	return postings, nil
}

func (p *BoardProvider) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return p.baseURL + "/" + strings.TrimLeft(href, "/")
}
