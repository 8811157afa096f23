// Package keyword provides ranked full-text search over verse text.
package keyword

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/models"
)

// SearchOptions optional parameters for full-text search. Nil means use defaults.
type SearchOptions struct {
	// Languages restricts matching to the given verse fields. Empty means all languages.
	Languages []models.Language
	// Book restricts hits to one canonical book.
	Book string
	// FuzzyEnabled enables fuzzy matching for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum Levenshtein edit distance for fuzzy matching (1 or 2).
	// Default is 1 when FuzzyEnabled is true.
	Fuzziness int
}

// VerseIndex defines full-text operations over verses.
type VerseIndex interface {
	// IndexBible adds or replaces every verse of b. It is a no-op when the index already
	// holds exactly this content.
	IndexBible(ctx context.Context, b *bible.Bible) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*VerseHit, error)
	Close() error
	// DocCount returns the total number of verses in the index.
	DocCount() (uint64, error)
}

// VerseHit is a single full-text hit.
type VerseHit struct {
	Book    string
	Chapter int
	Verse   int
	Score   float64
}

// TermDictionary provides access to the term dictionary for spell checking.
// This interface allows dependency injection for testing.
type TermDictionary interface {
	// GetAllTerms returns all unique terms in the index.
	GetAllTerms() ([]string, error)
	// GetTermFrequency returns the document frequency for a term.
	GetTermFrequency(term string) (int, error)
}

// VerseID returns the index document id of a verse.
func VerseID(book string, chapter, verse int) string {
	return fmt.Sprintf("%s|%d|%d", book, chapter, verse)
}

// ParseVerseID is the inverse of VerseID.
func ParseVerseID(id string) (book string, chapter, verse int, err error) {
	i := strings.LastIndex(id, "|")
	if i < 0 {
		return "", 0, 0, fmt.Errorf("invalid verse id %q", id)
	}
	j := strings.LastIndex(id[:i], "|")
	if j < 0 {
		return "", 0, 0, fmt.Errorf("invalid verse id %q", id)
	}
	if chapter, err = strconv.Atoi(id[j+1 : i]); err != nil {
		return "", 0, 0, fmt.Errorf("invalid chapter in verse id %q", id)
	}
	if verse, err = strconv.Atoi(id[i+1:]); err != nil {
		return "", 0, 0, fmt.Errorf("invalid verse in verse id %q", id)
	}
	return id[:j], chapter, verse, nil
}
