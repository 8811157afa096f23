// Package dictionary looks up Latin words in per-letter JSON files.
package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/vulgata/internal/keyword"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNoEntries is returned when a word has no dictionary entry.
var ErrNoEntries = errors.New("no dictionary entries")

const (
	defaultCacheSize   = 8
	defaultMaxDistance = 2
)

// Entry is one dictionary headword with its definitions.
type Entry struct {
	ID           string   `json:"word_id"`
	Word         string   `json:"word"`
	Definitions  []string `json:"def"`
	PartOfSpeech string   `json:"pos,omitempty"`
}

// Dictionary reads ls_<LETTER>.json files from a directory on first use of each letter.
type Dictionary struct {
	dir         string
	cache       *letterCache
	loads       singleflight.Group
	maxDistance int
	logger      *zap.Logger
}

// Option configures a Dictionary.
type Option func(*Dictionary)

// WithCacheSize sets how many letter files stay in memory.
func WithCacheSize(n int) Option {
	return func(d *Dictionary) { d.cache = newLetterCache(n) }
}

// WithMaxDistance sets the largest edit distance Suggest accepts.
func WithMaxDistance(n int) Option {
	return func(d *Dictionary) { d.maxDistance = n }
}

// WithLogger sets the dictionary logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dictionary) { d.logger = l }
}

// New creates a Dictionary over dir.
func New(dir string, opts ...Option) *Dictionary {
	d := &Dictionary{
		dir:         dir,
		cache:       newLetterCache(defaultCacheSize),
		maxDistance: defaultMaxDistance,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// letterOf returns the file letter for word, or "" when word does not start with a letter.
func letterOf(word string) string {
	r, _ := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Lookup returns the entries whose headword equals word, ignoring case.
func (d *Dictionary) Lookup(word string) ([]Entry, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	entries, err := d.letter(letterOf(word))
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range entries {
		if strings.ToLower(e.Word) == word {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoEntries, word)
	}
	return out, nil
}

// Suggest returns up to limit headwords from the same letter file closest to word by
// edit distance, nearest first, ties alphabetical.
func (d *Dictionary) Suggest(word string, limit int) ([]string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	entries, err := d.letter(letterOf(word))
	if errors.Is(err, ErrNoEntries) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	type candidate struct {
		word string
		dist int
	}
	seen := make(map[string]bool)
	var cands []candidate
	for _, e := range entries {
		w := strings.ToLower(e.Word)
		if seen[w] || w == word {
			continue
		}
		seen[w] = true
		if !keyword.WithinDistance(word, w, d.maxDistance) {
			continue
		}
		cands = append(cands, candidate{word: w, dist: keyword.LevenshteinDistance(word, w)})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].word < cands[j].word
	})
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.word
	}
	return out, nil
}

// letter returns the parsed file for letter, loading it at most once concurrently.
func (d *Dictionary) letter(letter string) ([]Entry, error) {
	if letter == "" {
		return nil, ErrNoEntries
	}
	if entries, ok := d.cache.Get(letter); ok {
		return entries, nil
	}
	v, err, _ := d.loads.Do(letter, func() (any, error) {
		entries, err := d.load(letter)
		if err != nil {
			return nil, err
		}
		d.cache.Set(letter, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entry), nil
}

func (d *Dictionary) load(letter string) ([]Entry, error) {
	path := filepath.Join(d.dir, "ls_"+letter+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		d.logger.Debug("no dictionary file for letter", zap.String("path", path))
		return nil, fmt.Errorf("%w: no file for %q", ErrNoEntries, letter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary %s: %w", path, err)
	}
	d.logger.Debug("dictionary file loaded", zap.String("letter", letter), zap.Int("entries", len(entries)))
	return entries, nil
}

// CachedLetters returns the number of letter files held in memory.
func (d *Dictionary) CachedLetters() int {
	return d.cache.Len()
}
