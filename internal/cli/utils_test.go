package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/vulgata/internal/bookmarks"
	"github.com/hyperjump/vulgata/internal/dictionary"
	"github.com/hyperjump/vulgata/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:     "principio",
		QueryTime: 42,
		Total:     2,
		Results: []models.SearchResult{
			{Kind: models.ResultBook, Book: "Genesis", DisplayName: "Genesis"},
			{
				Kind: models.ResultVerse, Book: "Genesis", DisplayName: "Genesis", Chapter: 1, Verse: 1,
				Text: &models.Verse{
					Number:  1,
					Latin:   "In principio creavit Deus caelum et terram.",
					English: "In the beginning God created heaven, and earth.",
				},
			},
		},
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	response := sampleResponse()
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputJSON, models.English); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != response.Query || decoded.Total != 2 || len(decoded.Results) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Results[1].Text == nil || decoded.Results[1].Text.Latin != response.Results[1].Text.Latin {
		t.Errorf("verse text lost: %+v", decoded.Results[1])
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText, models.English); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 2 results", "42ms", "[book] Genesis", "Genesis 1:1", "In the beginning", "In *principio* creavit"} {
		if !strings.Contains(out, sub) {
			t.Errorf("output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_textLatinOnlyOnce(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteSearchResults(&buf, sampleResponse(), OutputText, models.Latin)
	if n := strings.Count(buf.String(), "In *principio*"); n != 1 {
		t.Errorf("latin text printed %d times", n)
	}
}

func TestWriteSearchResults_referenceNotMarked(t *testing.T) {
	resp := sampleResponse()
	resp.Query = "Gn 1:1"
	resp.Reference = true
	var buf bytes.Buffer
	_ = WriteSearchResults(&buf, resp, OutputText, models.Latin)
	if strings.Contains(buf.String(), "*") {
		t.Errorf("reference result should not be marked:\n%s", buf.String())
	}
}

func TestWriteSearchResults_suggestions(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.SearchResponse{Query: "principo", Suggestions: []string{"principio"}}
	_ = WriteSearchResults(&buf, resp, OutputText, models.Latin)
	if !strings.Contains(buf.String(), "Did you mean: principio?") {
		t.Errorf("missing suggestion:\n%s", buf.String())
	}
}

func TestWriteSearchResults_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputCompact, models.English); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "Genesis\nGenesis 1:1\n"; got != want {
		t.Errorf("compact = %q, want %q", got, want)
	}
}

func TestWriteSearchResults_unknownFormatTreatedAsText(t *testing.T) {
	response := &models.SearchResponse{Query: "x", QueryTime: 0}
	var buf bytes.Buffer
	err := WriteSearchResults(&buf, response, SearchOutputFormat("unknown"), models.English)
	if err != nil {
		t.Fatalf("WriteSearchResults(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Found") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestReference(t *testing.T) {
	tests := []struct {
		r    models.SearchResult
		want string
	}{
		{models.SearchResult{Kind: models.ResultBook, Book: "Psalmi", DisplayName: "Psalms"}, "Psalms"},
		{models.SearchResult{Kind: models.ResultVerse, Book: "Psalmi", DisplayName: "Psalms", Chapter: 23, Verse: 1}, "Psalms 23:1"},
		{models.SearchResult{Kind: models.ResultVerse, Book: "Psalmi", Chapter: 1, Verse: 2}, "Psalmi 1:2"},
	}
	for _, tt := range tests {
		if got := Reference(tt.r); got != tt.want {
			t.Errorf("Reference(%+v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestWriteBookmarks(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBookmarks(&buf, nil, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No bookmarks") {
		t.Errorf("empty list output = %q", buf.String())
	}

	list := []*bookmarks.Bookmark{
		{ID: "a1", Kind: bookmarks.KindVerse, Book: "Genesis", Chapter: 1, Verse: 3, Note: "fiat lux", CreatedAt: time.Now()},
		{ID: "b2", Kind: bookmarks.KindPrayer, PrayerID: "ave_maria", PrayerName: "Ave Maria", CreatedAt: time.Now()},
	}
	buf.Reset()
	_ = WriteBookmarks(&buf, list, OutputText)
	out := buf.String()
	for _, sub := range []string{"a1", "verse   Genesis 1:3", "fiat lux", "b2", "prayer  Ave Maria"} {
		if !strings.Contains(out, sub) {
			t.Errorf("output missing %q:\n%s", sub, out)
		}
	}

	buf.Reset()
	_ = WriteBookmarks(&buf, list, OutputJSON)
	var decoded []bookmarks.Bookmark
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || len(decoded) != 2 {
		t.Errorf("json bookmarks = %v, %v", decoded, err)
	}
}

func TestWriteDefinitions(t *testing.T) {
	var buf bytes.Buffer
	WriteDefinitions(&buf, "lux", []dictionary.Entry{
		{ID: "lux", Word: "lux", Definitions: []string{"light", "daylight"}, PartOfSpeech: "noun"},
	})
	want := "lux\n  (noun)\n  1. light\n  2. daylight\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"empty", "", 5, ""},
		{"short", "hi", 5, "hi"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"multibyte", "créó el cielo", 4, "créó..."},
		{"maxLen zero", "ab", 0, "ab"},
		{"maxLen negative", "ab", -1, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWords int
		want     string
	}{
		{"empty", "", 3, ""},
		{"few words", "one two", 3, "one two"},
		{"exact", "one two three", 3, "one two three"},
		{"more", "one two three four", 3, "one two three..."},
		{"single long", "word", 1, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWords(tt.s, tt.maxWords)
			if got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.s, tt.maxWords, got, tt.want)
			}
		})
	}
}

func TestPrintSearchResults(t *testing.T) {
	response := &models.SearchResponse{Query: "print test", QueryTime: 1}
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
		_ = w.Close()
	}()
	PrintSearchResults(response)
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	if !strings.Contains(buf.String(), "Found 0 results") {
		t.Errorf("PrintSearchResults should write to stdout; got %q", buf.String())
	}
}
