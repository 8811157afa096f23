package bible

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/vulgata/internal/models"
)

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(s))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func TestMerge_GenesisEndToEnd(t *testing.T) {
	latin := mustParse(t, `{"charset":"utf-8","Genesis":{"1":{"1":"In principio creavit Deus caelum et terram."}}}`)
	english := mustParse(t, `{"charset":"utf-8","Genesis":{"1":{"1":"In the beginning God created heaven, and earth."}}}`)
	spanish := mustParse(t, `{"charset":"utf-8"}`)

	b, report := Merge(DefaultCatalog(), latin, english, spanish)
	if len(b.Books) != 1 {
		t.Fatalf("books = %d, want 1", len(b.Books))
	}
	book := b.Books[0]
	if book.Name != "Genesis" || len(book.Chapters) != 1 || book.Chapters[0].Number != 1 {
		t.Fatalf("unexpected book: %+v", book)
	}
	v := book.Chapters[0].Verses[0]
	if v.Number != 1 || !strings.HasPrefix(v.Latin, "In principio") || !strings.HasPrefix(v.English, "In the beginning") {
		t.Errorf("unexpected verse: %+v", v)
	}
	if v.Spanish != "" {
		t.Errorf("spanish = %q, want empty", v.Spanish)
	}
	if report.Verses != 1 || report.SpanishVerses != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestMerge_SkipsUnalignedUnits(t *testing.T) {
	latin := mustParse(t, `{
		"Genesis": {"1": {"1": "la 1:1", "2": "la 1:2"}, "2": {"1": "la 2:1"}},
		"Exodus": {"1": {"1": "la ex"}},
		"Liber Ignotus": {"1": {"1": "la unknown"}}
	}`)
	english := mustParse(t, `{
		"Genesis": {"1": {"1": "en 1:1"}},
		"Atlantis": {"1": {"1": "en atlantis"}}
	}`)
	spanish := mustParse(t, `{"Génesis": {"1": {"1": "es 1:1"}}}`)

	b, report := Merge(DefaultCatalog(), latin, english, spanish)
	if len(b.Books) != 1 || b.Books[0].Name != "Genesis" {
		t.Fatalf("books = %+v", b.Books)
	}
	gen := b.Books[0]
	if len(gen.Chapters) != 1 || len(gen.Chapters[0].Verses) != 1 {
		t.Fatalf("genesis = %+v", gen.Chapters)
	}
	if gen.Chapters[0].Verses[0].Spanish != "es 1:1" {
		t.Errorf("spanish = %q", gen.Chapters[0].Verses[0].Spanish)
	}

	want := []string{
		"no canonical mapping", // Atlantis
		"Genesis 1:2: no English verse",
		"Genesis 2: no English chapter",
		"book Exodus: no English edition",
		"book Liber Ignotus: no English edition",
	}
	joined := strings.Join(report.Warnings, "\n")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Errorf("warnings missing %q:\n%s", w, joined)
		}
	}
}

func TestMerge_EveryVerseHasLatinAndEnglish(t *testing.T) {
	latin := mustParse(t, `{"Psalmi": {"1": {"1": "Beatus vir", "2": "  ", "3": "sed in lege"}}}`)
	english := mustParse(t, `{"Psalms": {"1": {"1": "Blessed is the man", "2": "But his will", "3": ""}}}`)

	b, report := Merge(DefaultCatalog(), latin, english, nil)
	for _, book := range b.Books {
		for _, ch := range book.Chapters {
			for _, v := range ch.Verses {
				if v.Latin == "" || v.English == "" {
					t.Errorf("verse %d has empty text: %+v", v.Number, v)
				}
			}
		}
	}
	if report.Verses != 1 {
		t.Errorf("verses = %d, want 1", report.Verses)
	}
}

func TestMerge_OrderingAndIdempotence(t *testing.T) {
	latinSrc := `{
		"Apocalypsis": {"1": {"1": "Apocalypsis Jesu Christi"}},
		"Liber Ignotus": {"1": {"1": "ignotus"}},
		"Genesis": {"2": {"1": "Igitur perfecti", "10": "Et fluvius"}, "1": {"2": "Terra autem", "1": "In principio"}},
		"Exodus": {"1": {"1": "Haec sunt nomina"}}
	}`
	englishSrc := `{
		"Revelation": {"1": {"1": "The Revelation of Jesus Christ"}},
		"Exodus": {"1": {"1": "These are the names"}},
		"Genesis": {"1": {"1": "In the beginning", "2": "And the earth"}, "2": {"1": "So the heavens", "10": "And a river"}}
	}`
	catalog := DefaultCatalog()
	first, _ := Merge(catalog, mustParse(t, latinSrc), mustParse(t, englishSrc), nil)
	second, _ := Merge(catalog, mustParse(t, latinSrc), mustParse(t, englishSrc), nil)

	var names []string
	for _, b := range first.Books {
		names = append(names, b.Name)
	}
	if !reflect.DeepEqual(names, []string{"Genesis", "Exodus", "Apocalypsis"}) {
		t.Errorf("order = %v", names)
	}
	gen := first.Book("Genesis")
	if gen.Chapters[0].Number != 1 || gen.Chapters[1].Number != 2 {
		t.Errorf("chapters not ascending: %d, %d", gen.Chapters[0].Number, gen.Chapters[1].Number)
	}
	if gen.Chapters[1].Verses[0].Number != 1 || gen.Chapters[1].Verses[1].Number != 10 {
		t.Errorf("verses not numerically ascending")
	}
	if !reflect.DeepEqual(first.Books, second.Books) {
		t.Error("merging the same inputs twice produced different output")
	}
}

func TestMerge_FollowsCatalogOrderNotSourceOrder(t *testing.T) {
	catalog, err := NewCatalog([]BookInfo{
		{Latin: "Zeta", English: "Zeta"},
		{Latin: "Alpha", English: "Alpha"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	latin := mustParse(t, `{"Alpha": {"1": {"1": "a"}}, "Zeta": {"1": {"1": "z"}}}`)
	english := mustParse(t, `{"Alpha": {"1": {"1": "a"}}, "Zeta": {"1": {"1": "z"}}}`)

	b, _ := Merge(catalog, latin, english, nil)
	if len(b.Books) != 2 || b.Books[0].Name != "Zeta" || b.Books[1].Name != "Alpha" {
		t.Errorf("unexpected order: %+v", b.Books)
	}
}

func TestMerge_KnownMissingSpanishBookIsQuiet(t *testing.T) {
	latin := mustParse(t, `{"Tobiae": {"1": {"1": "Tobias ex tribu"}}, "Exodus": {"1": {"1": "Haec sunt"}}}`)
	english := mustParse(t, `{"Tobit": {"1": {"1": "Tobias of the tribe"}}, "Exodus": {"1": {"1": "These are"}}}`)
	spanish := mustParse(t, `{}`)

	_, report := Merge(DefaultCatalog(), latin, english, spanish)
	joined := strings.Join(report.Warnings, "\n")
	if strings.Contains(joined, "Tobiae") {
		t.Errorf("known-missing Spanish book should not warn:\n%s", joined)
	}
	if !strings.Contains(joined, "book Exodus: no Spanish edition") {
		t.Errorf("expected warning for Exodus:\n%s", joined)
	}
}

func TestMerge_NilInputsYieldEmptyBible(t *testing.T) {
	b, _ := Merge(DefaultCatalog(), nil, nil, nil)
	if len(b.Books) != 0 || b.VerseCount() != 0 {
		t.Errorf("expected empty bible, got %d books", len(b.Books))
	}
}

func TestBible_Lookup(t *testing.T) {
	latin := mustParse(t, `{"Joannes": {"3": {"16": "Sic enim Deus dilexit mundum"}}}`)
	english := mustParse(t, `{"John": {"3": {"16": "For God so loved the world"}}}`)
	b, _ := Merge(DefaultCatalog(), latin, english, nil)

	_, _, v, ok := b.Lookup("Joannes", 3, 16)
	if !ok || v.Text(models.English) != "For God so loved the world" {
		t.Fatalf("Lookup = %+v, %v", v, ok)
	}
	if _, _, _, ok := b.Lookup("Joannes", 3, 17); ok {
		t.Error("expected miss for 3:17")
	}
	if _, _, _, ok := b.Lookup("Marcus", 1, 1); ok {
		t.Error("expected miss for unknown book")
	}
}
