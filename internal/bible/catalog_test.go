package bible

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/vulgata/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() != 73 {
		t.Fatalf("Len = %d, want 73", c.Len())
	}
	books := c.Books()
	if books[0].Latin != "Genesis" || books[len(books)-1].Latin != "Apocalypsis" {
		t.Errorf("first/last = %s/%s", books[0].Latin, books[len(books)-1].Latin)
	}
	if c.Order("Genesis") != 0 || c.Order("Exodus") != 1 {
		t.Errorf("Order Genesis=%d Exodus=%d", c.Order("Genesis"), c.Order("Exodus"))
	}
	if c.Order("Liber Ignotus") != UnknownOrder {
		t.Errorf("unknown book order = %d", c.Order("Liber Ignotus"))
	}
	if c.Testament("Genesis") != OldTestament || c.Testament("Joannes") != NewTestament {
		t.Error("unexpected testament assignment")
	}
}

func TestCatalog_Canonical(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		lang models.Language
		name string
		want string
		ok   bool
	}{
		{models.English, "John", "Joannes", true},
		{models.English, "  john ", "Joannes", true},
		{models.English, "Song of Songs", "Canticum Canticorum", true},
		{models.Spanish, "Génesis", "Genesis", true},
		{models.Spanish, "apocalipsis", "Apocalypsis", true},
		{models.Latin, "regum iii", "Regum III", true},
		{models.English, "Atlantis", "", false},
	}
	for _, tt := range tests {
		got, ok := c.Canonical(tt.lang, tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Canonical(%s, %q) = %q, %v; want %q, %v", tt.lang, tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCatalog_Names(t *testing.T) {
	c := DefaultCatalog()
	if got := c.DisplayName("Regum III"); got != "1 Kings" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := c.Name(models.Spanish, "Joannes"); got != "Juan" {
		t.Errorf("Name(es) = %q", got)
	}
	if got := c.DisplayName("Liber Ignotus"); got != "Liber Ignotus" {
		t.Errorf("unknown DisplayName = %q", got)
	}
	if !c.KnownMissing(models.Spanish, "Tobiae") || c.KnownMissing(models.Spanish, "Genesis") {
		t.Error("unexpected KnownMissing result")
	}
	if c.KnownMissing(models.English, "Tobiae") {
		t.Error("Tobiae should not be missing in English")
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	if _, err := NewCatalog([]BookInfo{{English: "Nameless"}}, nil); err == nil {
		t.Error("expected error for entry without latin name")
	}
	if _, err := NewCatalog([]BookInfo{{Latin: "A"}, {Latin: "A"}}, nil); err == nil {
		t.Error("expected error for duplicate entry")
	}
	missing := map[models.Language][]string{models.Spanish: {"B"}}
	if _, err := NewCatalog([]BookInfo{{Latin: "A"}}, missing); err == nil {
		t.Error("expected error for unknown missing book")
	}

	c, err := NewCatalog([]BookInfo{{Latin: "Solus"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, _ := c.Info("Solus")
	if info.English != "Solus" || info.Spanish != "Solus" {
		t.Errorf("name fallbacks not applied: %+v", info)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.yaml")
	content := `books:
  - abbr: Gn
    latin: Genesis
    english: Genesis
    spanish: Génesis
    testament: old
  - abbr: Jo
    latin: Joannes
    english: John
    spanish: Juan
    testament: new
missing:
  spanish:
    - Joannes
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if got, _ := c.Canonical(models.English, "john"); got != "Joannes" {
		t.Errorf("Canonical = %q", got)
	}
	if !c.KnownMissing(models.Spanish, "Joannes") {
		t.Error("expected Joannes missing in Spanish")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("books: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(empty); err == nil {
		t.Error("expected error for empty catalog")
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
