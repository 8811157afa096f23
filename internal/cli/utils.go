// Package cli provides terminal output for the vulgata command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/vulgata/internal/bookmarks"
	"github.com/hyperjump/vulgata/internal/dictionary"
	"github.com/hyperjump/vulgata/internal/models"
	"github.com/hyperjump/vulgata/internal/search"
	"github.com/hyperjump/vulgata/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
	// OutputCompact prints one reference per line.
	OutputCompact SearchOutputFormat = "compact"
)

// WriteSearchResults writes search results to w in the given format.
// Unknown formats are written as text.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat, lang models.Language) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintln(w, Reference(r))
		}
		return nil
	default:
		writeSearchResultsText(w, response, lang)
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse, lang models.Language) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", response.Total, response.QueryTime)
	for _, r := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		if r.Kind == models.ResultBook {
			fmt.Fprintf(w, "[book] %s\n\n", r.DisplayName)
			continue
		}
		if r.Score > 0 {
			fmt.Fprintf(w, "%s  (score %.4f)\n", Reference(r), r.Score)
		} else {
			fmt.Fprintln(w, Reference(r))
		}
		if r.Text != nil {
			fmt.Fprintf(w, "\n%s\n", excerpt(r.Text.Text(lang), response))
			if lang != models.Latin {
				fmt.Fprintf(w, "%s\n", excerpt(r.Text.Latin, response))
			}
		}
		fmt.Fprintln(w)
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(response.Suggestions, ", "))
	}
}

// excerpt shortens verse text and stars the matched query. Reference lookups are not marked.
func excerpt(text string, response *models.SearchResponse) string {
	text = search.Highlight(text, 200)
	if response.Reference {
		return text
	}
	return search.Mark(text, response.Query, "*", "*")
}

// Reference formats a result as "Genesis 1:1", or the display name for book matches.
func Reference(r models.SearchResult) string {
	name := r.DisplayName
	if name == "" {
		name = r.Book
	}
	if r.Kind == models.ResultBook {
		return name
	}
	return fmt.Sprintf("%s %d:%d", name, r.Chapter, r.Verse)
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText, models.English)
}

// WriteBookmarks lists bookmarks, newest last.
func WriteBookmarks(w io.Writer, list []*bookmarks.Bookmark, format SearchOutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No bookmarks.")
		return nil
	}
	for _, b := range list {
		var label string
		switch b.Kind {
		case bookmarks.KindPrayer:
			label = "prayer  " + b.PrayerName
		default:
			label = fmt.Sprintf("verse   %s %d:%d", b.Book, b.Chapter, b.Verse)
		}
		fmt.Fprintf(w, "%s  %s  %s\n", b.ID, b.CreatedAt.Local().Format("2006-01-02"), label)
		if b.Note != "" {
			fmt.Fprintf(w, "    %s\n", TruncateWords(b.Note, 20))
		}
	}
	return nil
}

// WriteDefinitions prints dictionary entries for word.
func WriteDefinitions(w io.Writer, word string, entries []dictionary.Entry) {
	fmt.Fprintf(w, "%s\n", word)
	for _, e := range entries {
		if e.PartOfSpeech != "" {
			fmt.Fprintf(w, "  (%s)\n", e.PartOfSpeech)
		}
		for i, d := range e.Definitions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, Truncate(d, 300))
		}
	}
}

// Truncate truncates s to maxLen runes and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	return utils.Truncate(s, maxLen)
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
