package bible

import (
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`{
		"charset": "utf-8",
		"Exodus": {"1": {"1": "Haec sunt nomina"}},
		"Genesis": {"1": {"2": "Terra autem", "1": "In principio"}, "2": {"1": "Igitur"}}
	}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Charset != "utf-8" {
		t.Errorf("charset = %q", doc.Charset)
	}
	if len(doc.Books) != 2 || doc.Books[0].Name != "Exodus" || doc.Books[1].Name != "Genesis" {
		t.Fatalf("books not in source order: %+v", doc.Books)
	}
	gen := doc.Book("Genesis")
	if gen.Chapters[1][2] != "Terra autem" || gen.Chapters[2][1] != "Igitur" {
		t.Errorf("genesis = %+v", gen.Chapters)
	}
	if doc.VerseCount() != 4 {
		t.Errorf("VerseCount = %d, want 4", doc.VerseCount())
	}
	if len(doc.Skipped) != 0 {
		t.Errorf("unexpected skips: %v", doc.Skipped)
	}
}

func TestParseDocument_SkipsMalformedEntries(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`{
		"Genesis": {
			"1": {"1": "ok", "x": "bad verse key", "2": 42},
			"prologus": {"1": "bad chapter key"},
			"3": "not an object"
		},
		"Notes": "not a book"
	}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Books) != 1 {
		t.Fatalf("books = %d, want 1", len(doc.Books))
	}
	if got := doc.Book("Genesis").Chapters[1]; len(got) != 1 || got[1] != "ok" {
		t.Errorf("chapter 1 = %v", got)
	}
	if len(doc.Skipped) != 5 {
		t.Errorf("skipped = %d entries, want 5: %v", len(doc.Skipped), doc.Skipped)
	}
}

func TestParseDocument_DuplicateKeysLastWins(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`{
		"Genesis": {"1": {"1": "first"}},
		"Genesis": {"1": {"1": "second", "2": "extra"}}
	}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Books) != 1 {
		t.Fatalf("books = %d, want 1", len(doc.Books))
	}
	ch := doc.Books[0].Chapters[1]
	if ch[1] != "second" || ch[2] != "extra" {
		t.Errorf("chapter = %v", ch)
	}
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"Genesis": `},
		{"array root", `[1, 2]`},
		{"string root", `"text"`},
		{"trailing data", `{} {}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDocument(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{" 12 ", 12, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"1a", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseNumber(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
