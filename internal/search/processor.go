package search

import (
	"strings"

	"github.com/hyperjump/vulgata/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ProcessQuery validates and applies defaults to the search query.
func ProcessQuery(query *models.SearchQuery, maxLimit int) error {
	query.Query = strings.TrimSpace(query.Query)
	return query.Validate(maxLimit)
}

// Fold normalises s for case-insensitive comparison: NFC composition, then Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
