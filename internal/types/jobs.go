package types

import "time"

// SalaryRange is an optional advertised salary band.
type SalaryRange struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// JobPosting is one normalized job listing from a provider.
type JobPosting struct {
	Provider    string       `json:"provider"`               // provider id, e.g. "adzuna"
	ProviderRef string       `json:"provider_ref,omitempty"` // provider-native listing id
	Title       string       `json:"title"`
	Company     string       `json:"company"`
	Location    string       `json:"location,omitempty"`
	Salary      *SalaryRange `json:"salary,omitempty"`
	PostedAt    time.Time    `json:"posted_at,omitempty"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	Skills      []string     `json:"skills,omitempty"` // derived by the skill extractor
}

// SearchQuery is the filter set passed to every job provider.
type SearchQuery struct {
	Role       string
	Country    string        // ISO-ish country code, e.g. "us"
	Recency    time.Duration // postings newer than now-Recency
	MaxResults int
}
