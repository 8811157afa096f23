package models

import "fmt"

// SearchQuery represents a search request.
type SearchQuery struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
	// AllLanguages also scans Latin and Spanish verse text, not just English.
	AllLanguages bool `json:"all_languages,omitempty"`
	// Language selects the book display names matched by the content scan.
	Language Language `json:"language,omitempty"`
	Fuzzy    bool     `json:"fuzzy,omitempty"` // full-text only
}

// Validate ensures the search query has valid fields and sets defaults.
// A limit of zero (or below) means unlimited; positive limits above maxLimit are capped
// when maxLimit > 0.
func (q *SearchQuery) Validate(maxLimit int) error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Language == "" {
		q.Language = English
	}
	return nil
}
