package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/config"
	"github.com/hyperjump/vulgata/internal/keyword"
	"github.com/hyperjump/vulgata/internal/models"
)

// staticSource serves a fixed Bible.
type staticSource struct {
	bible   *bible.Bible
	catalog *bible.Catalog
}

func (s *staticSource) Bible() *bible.Bible     { return s.bible }
func (s *staticSource) Catalog() *bible.Catalog { return s.catalog }

func newTestSource(t *testing.T) *staticSource {
	t.Helper()
	parse := func(s string) *bible.Document {
		doc, err := bible.ParseDocument(strings.NewReader(s))
		if err != nil {
			t.Fatal(err)
		}
		return doc
	}
	latin := parse(`{
		"Genesis": {"1": {"1": "In principio creavit Deus caelum et terram.", "3": "Dixitque Deus: Fiat lux. Et facta est lux."}},
		"Joannes": {"1": {"1": "In principio erat Verbum", "9": "Erat lux vera"}, "3": {"16": "Sic enim Deus dilexit mundum"}},
		"Judae": {"1": {"1": "Judas Jesu Christi servus"}}
	}`)
	english := parse(`{
		"Genesis": {"1": {"1": "In the beginning God created heaven, and earth.", "3": "And God said: Be light made. And light was made."}},
		"John": {"1": {"1": "In the beginning was the Word", "9": "That was the true light"}, "3": {"16": "For God so loved the world"}},
		"Jude": {"1": {"1": "Jude, the servant of Jesus Christ"}}
	}`)
	spanish := parse(`{
		"Génesis": {"1": {"1": "En el principio creó Dios los cielos y la tierra."}},
		"Juan": {"3": {"16": "Porque de tal manera amó Dios al mundo"}}
	}`)
	catalog := bible.DefaultCatalog()
	b, _ := bible.Merge(catalog, latin, english, spanish)
	return &staticSource{bible: b, catalog: catalog}
}

func search(t *testing.T, e *Engine, q string) *models.SearchResponse {
	t.Helper()
	resp, err := e.Search(context.Background(), &models.SearchQuery{Query: q})
	if err != nil {
		t.Fatalf("Search(%q): %v", q, err)
	}
	return resp
}

func TestEngine_SearchReference(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{})

	resp := search(t, e, "john 3:16")
	if !resp.Reference || len(resp.Results) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	r := resp.Results[0]
	if r.Kind != models.ResultVerse || r.Book != "Joannes" || r.Chapter != 3 || r.Verse != 16 {
		t.Errorf("result = %+v", r)
	}
	if r.DisplayName != "John" || r.Text == nil || !strings.HasPrefix(r.Text.English, "For God") {
		t.Errorf("result = %+v", r)
	}

	// Canonical and abbreviation prefixes resolve too.
	if resp := search(t, e, "Joan 1:9"); !resp.Reference || resp.Results[0].Verse != 9 {
		t.Errorf("canonical prefix: %+v", resp)
	}
	if resp := search(t, e, "gn 1:3"); !resp.Reference || resp.Results[0].Book != "Genesis" {
		t.Errorf("abbreviation: %+v", resp)
	}
}

func TestEngine_SearchReferenceFirstMatchInCanonicalOrder(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{})
	// "j" prefixes both John and Jude; John comes first.
	resp := search(t, e, "j 1:1")
	if !resp.Reference || resp.Results[0].Book != "Joannes" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestEngine_SearchMalformedReferenceFallsBack(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{})
	for _, q := range []string{"3:16", "john 3:sixteen", "john 99:1", "atlantis 1:1"} {
		resp := search(t, e, q)
		if resp.Reference {
			t.Errorf("%q should not resolve as a reference", q)
		}
	}
}

func TestEngine_SearchContentOrder(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{})
	resp := search(t, e, "LIGHT")
	var ids []string
	for _, r := range resp.Results {
		ids = append(ids, r.ID())
	}
	want := []string{"verse-Genesis-1-3", "verse-Joannes-1-9"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d", resp.Total)
	}
}

func TestEngine_SearchBookNames(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{})
	resp := search(t, e, "jud")
	if len(resp.Results) == 0 || resp.Results[0].Kind != models.ResultBook || resp.Results[0].Book != "Judae" {
		t.Fatalf("resp = %+v", resp.Results)
	}

	resp, err := e.Search(context.Background(), &models.SearchQuery{Query: "juan", Language: models.Spanish})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Kind != models.ResultBook || resp.Results[0].DisplayName != "John" {
		t.Errorf("spanish names: %+v", resp.Results)
	}
}

func TestEngine_SearchAllLanguages(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{})
	if resp := search(t, e, "mundo"); len(resp.Results) != 0 {
		t.Errorf("spanish text matched english-only scan: %+v", resp.Results)
	}
	resp, err := e.Search(context.Background(), &models.SearchQuery{Query: "CREÓ", AllLanguages: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID() != "verse-Genesis-1-1" {
		t.Errorf("all-languages scan: %+v", resp.Results)
	}

	e = NewEngine(newTestSource(t), &config.SearchConfig{AllLanguages: true})
	if resp := search(t, e, "principio"); len(resp.Results) != 2 {
		t.Errorf("config all_languages: %+v", resp.Results)
	}
}

func TestEngine_SearchEmptyAndLimit(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{MaxLimit: 1})
	if resp := search(t, e, "   "); len(resp.Results) != 0 {
		t.Errorf("empty query returned %d results", len(resp.Results))
	}
	resp, err := e.Search(context.Background(), &models.SearchQuery{Query: "the", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 {
		t.Errorf("limit not applied: %d results", len(resp.Results))
	}
	if resp.Total != 5 || !resp.Truncated {
		t.Errorf("total = %d, truncated = %v; want 5 matches reported as truncated", resp.Total, resp.Truncated)
	}
}

func TestEngine_SearchDefaultLimitReturnsEveryMatch(t *testing.T) {
	verses := make(map[int]string, 600)
	for v := 1; v <= 600; v++ {
		verses[v] = fmt.Sprintf("And there was light %d.", v)
	}
	doc := func(name string) *bible.Document {
		return &bible.Document{Books: []*bible.SourceBook{{Name: name, Chapters: map[int]map[int]string{1: verses}}}}
	}
	catalog := bible.DefaultCatalog()
	b, _ := bible.Merge(catalog, doc("Genesis"), doc("Genesis"), nil)

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	e := NewEngine(&staticSource{bible: b, catalog: catalog}, &cfg.Search)
	resp := search(t, e, "light")
	if len(resp.Results) != 600 || resp.Total != 600 || resp.Truncated {
		t.Errorf("results = %d, total = %d, truncated = %v; want all 600", len(resp.Results), resp.Total, resp.Truncated)
	}
}

func TestEngine_SearchLeavesQueryUntouched(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{MaxLimit: 2, AllLanguages: true})
	q := &models.SearchQuery{Query: "  lux  ", Limit: 10}
	if _, err := e.Search(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	want := models.SearchQuery{Query: "  lux  ", Limit: 10}
	if *q != want {
		t.Errorf("query modified: %+v", *q)
	}
}

func TestEngine_SearchCancelled(t *testing.T) {
	e := NewEngine(newTestSource(t), &config.SearchConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Search(ctx, &models.SearchQuery{Query: "light"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEngine_SearchNoContent(t *testing.T) {
	e := NewEngine(&staticSource{catalog: bible.DefaultCatalog()}, &config.SearchConfig{})
	if resp := search(t, e, "light"); len(resp.Results) != 0 {
		t.Errorf("results without content: %+v", resp.Results)
	}
}

func TestEngine_CorpusRebuiltAfterReload(t *testing.T) {
	src := newTestSource(t)
	e := NewEngine(src, &config.SearchConfig{})
	if resp := search(t, e, "servant"); len(resp.Results) != 1 {
		t.Fatalf("results = %d", len(resp.Results))
	}
	src.bible = bible.NewBible(nil)
	if resp := search(t, e, "servant"); len(resp.Results) != 0 {
		t.Errorf("stale corpus served after reload: %+v", resp.Results)
	}
}

func TestEngine_FullText(t *testing.T) {
	src := newTestSource(t)
	idx, err := keyword.NewBleveIndex("")
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	if err := idx.IndexBible(context.Background(), src.bible); err != nil {
		t.Fatal(err)
	}
	e := NewEngine(src, &config.SearchConfig{DefaultLimit: 10, Fuzziness: 2}, WithFullText(idx, keyword.NewSpellChecker(idx)))

	resp, err := e.FullText(context.Background(), &models.SearchQuery{Query: "light"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.Results[0].Score != 1.0 || resp.Results[0].Text == nil {
		t.Errorf("top result = %+v", resp.Results[0])
	}

	resp, err = e.FullText(context.Background(), &models.SearchQuery{Query: "ligth"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 0 || len(resp.Suggestions) == 0 || resp.Suggestions[0] != "light" {
		t.Errorf("expected suggestion, got %+v", resp)
	}

	resp, err = e.FullText(context.Background(), &models.SearchQuery{Query: "ligth", Fuzzy: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) == 0 {
		t.Error("fuzzy query should match")
	}

	q := &models.SearchQuery{Query: " light ", Limit: 100}
	if _, err := e.FullText(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if *q != (models.SearchQuery{Query: " light ", Limit: 100}) {
		t.Errorf("query modified: %+v", *q)
	}

	if _, err := NewEngine(src, nil).FullText(context.Background(), &models.SearchQuery{Query: "x"}); !errors.Is(err, ErrFullTextDisabled) {
		t.Errorf("err = %v, want ErrFullTextDisabled", err)
	}
}
