// Package e2e provides end-to-end tests over a generated trilingual Bible.
package e2e

import (
	"fmt"
	"strconv"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/models"
)

// Edition is one language's content keyed as in the source files: book name, chapter
// number, verse number.
type Edition map[string]map[string]map[string]string

// QueryTestCase defines a query and the verse references that must appear in its results.
type QueryTestCase struct {
	Query        string
	Language     models.Language
	AllLanguages bool
	FullText     bool
	Expected     []string
	Description  string
}

// Corpus holds the generated editions and query test cases.
type Corpus struct {
	Editions     map[models.Language]Edition
	TestCases    []QueryTestCase
	TotalBooks   int
	TotalVerses  int
	TotalQueries int
}

// Every spanishGap-th verse is missing from the Spanish edition.
const spanishGap = 5

// Marker returns the token that makes a verse unique in lang. Markers have a fixed width
// so no marker is a substring of another.
func Marker(lang models.Language, book, chapter, verse int) string {
	prefix := map[models.Language]string{
		models.Latin:   "signum",
		models.English: "mark",
		models.Spanish: "senal",
	}[lang]
	return fmt.Sprintf("%s%02d%02d%02d", prefix, book, chapter, verse)
}

// Ref formats a verse reference the way the tests compare results.
func Ref(book string, chapter, verse int) string {
	return fmt.Sprintf("%s %d:%d", book, chapter, verse)
}

// BuildCorpus generates the first books books of the default catalog, each with chapters
// chapters of verses verses, in all three languages.
func BuildCorpus(books, chapters, verses int) *Corpus {
	catalog := bible.DefaultCatalog()
	infos := catalog.Books()
	if books > len(infos) {
		books = len(infos)
	}
	c := &Corpus{Editions: make(map[models.Language]Edition, len(models.Languages))}
	for _, lang := range models.Languages {
		c.Editions[lang] = Edition{}
	}
	texts := map[models.Language]string{
		models.Latin:   "Et dixit Deus %s.",
		models.English: "And God said %s.",
		models.Spanish: "Y dijo Dios %s.",
	}

	for b := 0; b < books; b++ {
		info := infos[b]
		for _, lang := range models.Languages {
			c.Editions[lang][info.Name(lang)] = map[string]map[string]string{}
		}
		for ch := 1; ch <= chapters; ch++ {
			chKey := strconv.Itoa(ch)
			for _, lang := range models.Languages {
				c.Editions[lang][info.Name(lang)][chKey] = map[string]string{}
			}
			for v := 1; v <= verses; v++ {
				vKey := strconv.Itoa(v)
				for _, lang := range models.Languages {
					if lang == models.Spanish && (c.TotalVerses+1)%spanishGap == 0 {
						continue
					}
					c.Editions[lang][info.Name(lang)][chKey][vKey] = fmt.Sprintf(texts[lang], Marker(lang, b, ch, v))
				}
				c.TotalVerses++
			}
		}
	}
	c.TotalBooks = books
	c.TestCases = buildQueryTestCases(infos[:books], chapters, verses)
	c.TotalQueries = len(c.TestCases)
	return c
}

func buildQueryTestCases(infos []bible.BookInfo, chapters, verses int) []QueryTestCase {
	var cases []QueryTestCase
	for b, info := range infos {
		ch := 1 + b%chapters
		v := 1 + (b*7)%verses
		want := []string{Ref(info.Latin, ch, v)}
		cases = append(cases,
			QueryTestCase{
				Query:       Marker(models.English, b, ch, v),
				Language:    models.English,
				Expected:    want,
				Description: fmt.Sprintf("english scan finds %s", want[0]),
			},
			QueryTestCase{
				Query:        Marker(models.Latin, b, ch, v),
				Language:     models.Latin,
				AllLanguages: true,
				Expected:     want,
				Description:  fmt.Sprintf("latin scan finds %s", want[0]),
			},
			QueryTestCase{
				Query:       fmt.Sprintf("%s %d:%d", info.Abbr, ch, v),
				Language:    models.English,
				Expected:    want,
				Description: fmt.Sprintf("reference %s %d:%d resolves", info.Abbr, ch, v),
			},
			QueryTestCase{
				Query:        Marker(models.Latin, b, ch, v),
				AllLanguages: true,
				FullText:     true,
				Expected:     want,
				Description:  fmt.Sprintf("full-text finds %s", want[0]),
			},
		)
	}
	return cases
}
