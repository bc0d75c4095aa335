// Package types provides type definitions for structured data used throughout the resume-insight system.
package types

// Contact holds the contact block extracted from a resume.
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Location string `json:"location,omitempty"`
}

// Experience is a single work-history entry.
type Experience struct {
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	StartDate string   `json:"start_date,omitempty"` // YYYY-MM where available
	EndDate   string   `json:"end_date,omitempty"`   // empty means present
	Bullets   []string `json:"bullets,omitempty"`
}

// Education is a single education entry.
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree,omitempty"`
	Field          string `json:"field,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
}

// Project is an optional project entry.
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// ParsedProfile is the structured extraction of a resume.
//
// Invariants maintained by parsing.NormalizeProfile: Skills contains no
// duplicate case-normalized entries, and Experience is ordered
// most-recent-first when start dates are comparable (stable otherwise).
type ParsedProfile struct {
	Contact        Contact      `json:"contact"`
	Summary        string       `json:"summary,omitempty"`
	Skills         []string     `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Projects       []Project    `json:"projects,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
}
