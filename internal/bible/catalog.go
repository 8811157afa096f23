// Package bible builds the merged trilingual Bible from independently keyed source documents.
package bible

import (
	"fmt"
	"os"
	"strings"

	"github.com/hyperjump/vulgata/internal/models"
	"gopkg.in/yaml.v3"
)

// UnknownOrder is the sort position of books the catalog does not know.
const UnknownOrder = 1000

// Testament groups books for listing.
type Testament string

const (
	OldTestament Testament = "old"
	NewTestament Testament = "new"
)

// BookInfo is one row of the canonical book table.
type BookInfo struct {
	Abbr      string    `yaml:"abbr" json:"abbr"`
	Latin     string    `yaml:"latin" json:"latin"`
	English   string    `yaml:"english" json:"english"`
	Spanish   string    `yaml:"spanish" json:"spanish"`
	Testament Testament `yaml:"testament" json:"testament"`
}

// Name returns the book name in lang.
func (b BookInfo) Name(lang models.Language) string {
	switch lang {
	case models.English:
		return b.English
	case models.Spanish:
		return b.Spanish
	default:
		return b.Latin
	}
}

// Catalog is the immutable book metadata shared by merge, search, and display code:
// canonical ordering, per-language name mapping, and books known to be absent per language.
// Build it once with DefaultCatalog, LoadCatalog, or NewCatalog and pass it explicitly.
type Catalog struct {
	books       []BookInfo
	order       map[string]int
	byCanonical map[string]BookInfo
	toCanonical map[models.Language]map[string]string
	missing     map[models.Language]map[string]struct{}
}

// NewCatalog validates books and builds the lookup tables. missing lists canonical names
// known to be absent from a language's edition.
func NewCatalog(books []BookInfo, missing map[models.Language][]string) (*Catalog, error) {
	c := &Catalog{
		books:       make([]BookInfo, 0, len(books)),
		order:       make(map[string]int, len(books)),
		byCanonical: make(map[string]BookInfo, len(books)),
		toCanonical: make(map[models.Language]map[string]string, len(models.Languages)),
		missing:     make(map[models.Language]map[string]struct{}),
	}
	for _, lang := range models.Languages {
		c.toCanonical[lang] = make(map[string]string, len(books))
	}
	for i, b := range books {
		if b.Latin == "" {
			return nil, fmt.Errorf("catalog entry %d has no latin name", i)
		}
		if _, dup := c.order[b.Latin]; dup {
			return nil, fmt.Errorf("duplicate catalog entry: %s", b.Latin)
		}
		if b.English == "" {
			b.English = b.Latin
		}
		if b.Spanish == "" {
			b.Spanish = b.English
		}
		c.order[b.Latin] = i
		c.byCanonical[b.Latin] = b
		c.books = append(c.books, b)
		for _, lang := range models.Languages {
			c.toCanonical[lang][nameKey(b.Name(lang))] = b.Latin
		}
	}
	for lang, names := range missing {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			if _, ok := c.byCanonical[n]; !ok {
				return nil, fmt.Errorf("missing-book list for %s names unknown book %q", lang, n)
			}
			set[n] = struct{}{}
		}
		c.missing[lang] = set
	}
	return c, nil
}

// catalogFile is the YAML shape accepted by LoadCatalog.
type catalogFile struct {
	Books   []BookInfo                   `yaml:"books"`
	Missing map[models.Language][]string `yaml:"missing"`
}

// LoadCatalog reads a catalog from a YAML file with "books" and "missing" keys.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Books) == 0 {
		return nil, fmt.Errorf("catalog %s lists no books", path)
	}
	return NewCatalog(f.Books, f.Missing)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Books returns the catalog rows in canonical order.
func (c *Catalog) Books() []BookInfo {
	return append([]BookInfo(nil), c.books...)
}

// Len returns the number of known books.
func (c *Catalog) Len() int { return len(c.books) }

// Order returns the canonical position of a book, or UnknownOrder.
func (c *Catalog) Order(canonical string) int {
	if i, ok := c.order[canonical]; ok {
		return i
	}
	return UnknownOrder
}

// Info returns the catalog row for a canonical name.
func (c *Catalog) Info(canonical string) (BookInfo, bool) {
	b, ok := c.byCanonical[canonical]
	return b, ok
}

// Canonical maps a book name in lang to its canonical (Latin) name. Matching ignores case
// and surrounding whitespace.
func (c *Catalog) Canonical(lang models.Language, name string) (string, bool) {
	canon, ok := c.toCanonical[lang][nameKey(name)]
	return canon, ok
}

// Name returns the name of a canonical book in lang, falling back to the canonical name.
func (c *Catalog) Name(lang models.Language, canonical string) string {
	if b, ok := c.byCanonical[canonical]; ok {
		return b.Name(lang)
	}
	return canonical
}

// DisplayName is the English name used in listings and search results.
func (c *Catalog) DisplayName(canonical string) string {
	return c.Name(models.English, canonical)
}

// KnownMissing reports whether the canonical book is known to be absent in lang.
func (c *Catalog) KnownMissing(lang models.Language, canonical string) bool {
	_, ok := c.missing[lang][canonical]
	return ok
}

// Testament returns the testament of a canonical book; unknown books count as new.
func (c *Catalog) Testament(canonical string) Testament {
	if b, ok := c.byCanonical[canonical]; ok && b.Testament != "" {
		return b.Testament
	}
	return NewTestament
}
