package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

func writeLetter(t *testing.T, dir, letter, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "ls_"+letter+".json"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func testDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeLetter(t, dir, "L", `[
		{"word_id": "lux1", "word": "lux", "def": ["light", "daylight"], "pos": "noun"},
		{"word_id": "lux2", "word": "Lux", "def": ["a lamp"]},
		{"word_id": "lex", "word": "lex", "def": ["law"]},
		{"word_id": "laus", "word": "laus", "def": ["praise"]},
		{"word_id": "luxuria", "word": "luxuria", "def": ["luxury"]}
	]`)
	writeLetter(t, dir, "D", `[{"word_id": "deus", "word": "deus", "def": ["god"]}]`)
	writeLetter(t, dir, "V", `[{"word_id": "verbum", "word": "verbum", "def": ["word"]}]`)
	writeLetter(t, dir, "X", `not json`)
	return dir
}

func TestLookup(t *testing.T) {
	d := New(testDir(t), WithLogger(zaptest.NewLogger(t)))
	entries, err := d.Lookup("LUX")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].ID != "lux1" || entries[0].PartOfSpeech != "noun" {
		t.Errorf("entries = %+v", entries)
	}
	if !reflect.DeepEqual(entries[0].Definitions, []string{"light", "daylight"}) {
		t.Errorf("definitions = %v", entries[0].Definitions)
	}

	if _, err := d.Lookup("lumen"); !errors.Is(err, ErrNoEntries) {
		t.Errorf("unknown word: err = %v", err)
	}
	if _, err := d.Lookup("zelus"); !errors.Is(err, ErrNoEntries) {
		t.Errorf("missing letter file: err = %v", err)
	}
	if _, err := d.Lookup("  "); !errors.Is(err, ErrNoEntries) {
		t.Errorf("blank word: err = %v", err)
	}
	if _, err := d.Lookup("xenium"); err == nil || errors.Is(err, ErrNoEntries) {
		t.Errorf("malformed file: err = %v", err)
	}
}

func TestSuggest(t *testing.T) {
	d := New(testDir(t))
	got, err := d.Suggest("lax", 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"lex", "lux", "laus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}
	if got, _ := d.Suggest("qqq", 3); len(got) != 0 {
		t.Errorf("Suggest without letter file = %v", got)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	d := New(testDir(t), WithCacheSize(2))
	for _, w := range []string{"lux", "deus", "lux", "verbum"} {
		if _, err := d.Lookup(w); err != nil {
			t.Fatal(err)
		}
	}
	if d.CachedLetters() != 2 {
		t.Fatalf("cached = %d", d.CachedLetters())
	}
	if _, ok := d.cache.Get("D"); ok {
		t.Error("D should have been evicted")
	}
	if _, ok := d.cache.Get("L"); !ok {
		t.Error("L should still be cached")
	}
}

func TestLookup_Concurrent(t *testing.T) {
	d := New(testDir(t))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Lookup("deus"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if d.CachedLetters() != 1 {
		t.Errorf("cached = %d", d.CachedLetters())
	}
}

func TestLetterCache(t *testing.T) {
	c := newLetterCache(0)
	c.Set("A", []Entry{{Word: "a"}})
	c.Set("B", []Entry{{Word: "b"}})
	if _, ok := c.Get("A"); ok {
		t.Error("capacity clamps to one entry")
	}
	c.Set("B", []Entry{{Word: "bb"}})
	if v, ok := c.Get("B"); !ok || v[0].Word != "bb" {
		t.Errorf("Get(B) = %v, %v", v, ok)
	}
}
