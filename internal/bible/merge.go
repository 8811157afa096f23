package bible

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperjump/vulgata/internal/models"
)

// Bible is the merged, ordered result of Merge. It is never mutated after construction.
type Bible struct {
	Books  []*models.Book
	byName map[string]*models.Book
}

// NewBible wraps already ordered books.
func NewBible(books []*models.Book) *Bible {
	b := &Bible{Books: books, byName: make(map[string]*models.Book, len(books))}
	for _, book := range books {
		b.byName[book.Name] = book
	}
	return b
}

// Book returns the book with the canonical name, or nil.
func (b *Bible) Book(name string) *models.Book {
	if b == nil {
		return nil
	}
	return b.byName[name]
}

// Lookup returns the book, chapter, and verse for a reference.
func (b *Bible) Lookup(book string, chapter, verse int) (*models.Book, *models.Chapter, *models.Verse, bool) {
	bk := b.Book(book)
	if bk == nil {
		return nil, nil, nil, false
	}
	ch := bk.Chapter(chapter)
	if ch == nil {
		return bk, nil, nil, false
	}
	v := ch.Verse(verse)
	return bk, ch, v, v != nil
}

// VerseCount returns the number of merged verses.
func (b *Bible) VerseCount() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, book := range b.Books {
		n += book.VerseCount()
	}
	return n
}

// Report summarises a merge. Warnings are informational; nothing in a report aborts the merge.
type Report struct {
	Books         int      `json:"books"`
	Chapters      int      `json:"chapters"`
	Verses        int      `json:"verses"`
	SpanishVerses int      `json:"spanish_verses"`
	Warnings      []string `json:"warnings,omitempty"`
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge aligns the Latin, English, and optional Spanish editions by
// (canonical book, chapter, verse). Latin drives the result: a Latin verse without an
// English counterpart is dropped, and a missing Spanish verse becomes the empty string.
// spanish may be nil. The result is ordered by the catalog, then chapter and verse number.
func Merge(catalog *Catalog, latin, english, spanish *Document) (*Bible, *Report) {
	report := &Report{}
	if latin == nil || english == nil {
		return NewBible(nil), report
	}

	englishBooks := indexByCanonical(catalog, models.English, english, report)
	var spanishBooks map[string]*SourceBook
	if spanish != nil {
		spanishBooks = indexByCanonical(catalog, models.Spanish, spanish, report)
	}

	seen := make(map[string]*models.Book)
	var books []*models.Book
	for _, src := range latin.Books {
		canonical, ok := catalog.Canonical(models.Latin, src.Name)
		if !ok {
			canonical = src.Name
		}
		en := englishBooks[canonical]
		if en == nil {
			report.warnf("skipping book %s: no English edition", canonical)
			continue
		}
		var es *SourceBook
		if spanish != nil {
			es = spanishBooks[canonical]
			if es == nil && !catalog.KnownMissing(models.Spanish, canonical) {
				report.warnf("book %s: no Spanish edition", canonical)
			}
		}

		book := mergeBook(canonical, src, en, es, report)
		if len(book.Chapters) == 0 {
			report.warnf("skipping book %s: no aligned verses", canonical)
			continue
		}
		if prev := seen[canonical]; prev != nil {
			// Two Latin keys mapped to one canonical name; the later one wins.
			report.warnf("book %s appears more than once in the Latin edition", canonical)
			*prev = *book
			continue
		}
		seen[canonical] = book
		books = append(books, book)
	}

	sort.SliceStable(books, func(i, j int) bool {
		oi, oj := catalog.Order(books[i].Name), catalog.Order(books[j].Name)
		if oi != oj {
			return oi < oj
		}
		return books[i].Name < books[j].Name
	})

	for _, b := range books {
		report.Books++
		report.Chapters += len(b.Chapters)
		for _, ch := range b.Chapters {
			report.Verses += len(ch.Verses)
			for _, v := range ch.Verses {
				if v.Spanish != "" {
					report.SpanishVerses++
				}
			}
		}
	}
	return NewBible(books), report
}

// indexByCanonical maps each book of doc to its canonical name; unmapped books are skipped.
func indexByCanonical(catalog *Catalog, lang models.Language, doc *Document, report *Report) map[string]*SourceBook {
	out := make(map[string]*SourceBook, len(doc.Books))
	for _, b := range doc.Books {
		canonical, ok := catalog.Canonical(lang, b.Name)
		if !ok {
			report.warnf("skipping %s book %q: no canonical mapping", lang, b.Name)
			continue
		}
		out[canonical] = b
	}
	return out
}

func mergeBook(canonical string, latin, english, spanish *SourceBook, report *Report) *models.Book {
	book := &models.Book{Name: canonical}
	for _, chNum := range sortedKeys(latin.Chapters) {
		enVerses, ok := english.Chapters[chNum]
		if !ok {
			report.warnf("skipping %s %d: no English chapter", canonical, chNum)
			continue
		}
		var esVerses map[int]string
		if spanish != nil {
			esVerses = spanish.Chapters[chNum]
		}
		chapter := &models.Chapter{Number: chNum}
		laVerses := latin.Chapters[chNum]
		for _, vNum := range sortedKeys(laVerses) {
			la := strings.TrimSpace(laVerses[vNum])
			en, ok := enVerses[vNum]
			if !ok {
				report.warnf("skipping %s %d:%d: no English verse", canonical, chNum, vNum)
				continue
			}
			en = strings.TrimSpace(en)
			if la == "" || en == "" {
				report.warnf("skipping %s %d:%d: empty text", canonical, chNum, vNum)
				continue
			}
			chapter.Verses = append(chapter.Verses, &models.Verse{
				Number:  vNum,
				Latin:   la,
				English: en,
				Spanish: strings.TrimSpace(esVerses[vNum]),
			})
		}
		if len(chapter.Verses) > 0 {
			book.Chapters = append(book.Chapters, chapter)
		}
	}
	return book
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
