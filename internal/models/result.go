package models

import "fmt"

// ResultKind discriminates SearchResult.
type ResultKind string

const (
	ResultBook  ResultKind = "book"
	ResultVerse ResultKind = "verse"
)

// SearchResult is either a book match or a verse match.
// For book matches Chapter and Verse are zero.
type SearchResult struct {
	Kind        ResultKind `json:"kind"`
	Book        string     `json:"book"`
	DisplayName string     `json:"display_name"`
	Chapter     int        `json:"chapter,omitempty"`
	Verse       int        `json:"verse,omitempty"`
	Text        *Verse     `json:"text,omitempty"`
	Score       float64    `json:"score,omitempty"` // full-text only
}

// ID returns a stable identifier such as "book-Genesis" or "verse-Genesis-1-1".
func (r SearchResult) ID() string {
	if r.Kind == ResultBook {
		return "book-" + r.Book
	}
	return fmt.Sprintf("verse-%s-%d-%d", r.Book, r.Chapter, r.Verse)
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []SearchResult `json:"results"`
	QueryTime int64          `json:"query_time_ms"`
	Query     string         `json:"query"`
	// Total counts every match, including those dropped by the limit.
	Total int `json:"total"`
	// Truncated is set when Results holds fewer entries than Total.
	Truncated bool `json:"truncated,omitempty"`
	// Reference is set when the query was resolved as a chapter:verse reference.
	Reference bool `json:"reference,omitempty"`
	// Suggestions contains "Did you mean?" corrections for full-text queries without hits.
	Suggestions []string `json:"suggestions,omitempty"`
}
