package search

import (
	"strconv"
	"strings"

	"github.com/hyperjump/vulgata/internal/bible"
)

// Reference is a parsed "<book> <chapter>:<verse>" query.
type Reference struct {
	BookPrefix string
	Chapter    int
	Verse      int
}

// ParseReference recognises exactly two whitespace-separated tokens where the second is
// "<int>:<int>". Anything else reports false so the caller can fall back to a content scan.
func ParseReference(q string) (Reference, bool) {
	tokens := strings.Fields(q)
	if len(tokens) != 2 {
		return Reference{}, false
	}
	parts := strings.Split(tokens[1], ":")
	if len(parts) != 2 {
		return Reference{}, false
	}
	chapter, err := strconv.Atoi(parts[0])
	if err != nil {
		return Reference{}, false
	}
	verse, err := strconv.Atoi(parts[1])
	if err != nil {
		return Reference{}, false
	}
	return Reference{BookPrefix: tokens[0], Chapter: chapter, Verse: verse}, true
}

// ResolveBook returns the first book of b, in canonical order, whose English display name,
// canonical name, or abbreviation starts with prefix (case-insensitive).
func ResolveBook(catalog *bible.Catalog, b *bible.Bible, prefix string) (string, bool) {
	if b == nil {
		return "", false
	}
	p := Fold(prefix)
	if p == "" {
		return "", false
	}
	for _, book := range b.Books {
		candidates := []string{book.Name, catalog.DisplayName(book.Name)}
		if info, ok := catalog.Info(book.Name); ok && info.Abbr != "" {
			candidates = append(candidates, info.Abbr)
		}
		for _, c := range candidates {
			if strings.HasPrefix(Fold(c), p) {
				return book.Name, true
			}
		}
	}
	return "", false
}
