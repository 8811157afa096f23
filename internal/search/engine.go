// Package search resolves verse references and scans the merged Bible for matching text.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/config"
	"github.com/hyperjump/vulgata/internal/keyword"
	"github.com/hyperjump/vulgata/internal/models"
	"go.uber.org/zap"
)

// Source supplies the content to search. content.Library satisfies it.
type Source interface {
	Bible() *bible.Bible
	Catalog() *bible.Catalog
}

// Engine runs reference lookups, content scans, and full-text queries.
type Engine struct {
	source   Source
	fulltext keyword.VerseIndex
	spell    *keyword.SpellChecker
	config   *config.SearchConfig
	logger   *zap.Logger

	mu     sync.Mutex
	corpus *corpus
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFullText enables ranked full-text search and spelling suggestions.
func WithFullText(idx keyword.VerseIndex, spell *keyword.SpellChecker) EngineOption {
	return func(e *Engine) {
		e.fulltext = idx
		e.spell = spell
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine over source.
func NewEngine(source Source, cfg *config.SearchConfig, opts ...EngineOption) *Engine {
	if cfg == nil {
		cfg = &config.SearchConfig{}
	}
	e := &Engine{source: source, config: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search resolves query as a verse reference when possible and otherwise scans book names
// and verse text. Results keep book, chapter, verse order. An empty query yields no results.
// A zero limit returns every match; with a limit, Total still counts all matches and
// Truncated reports the cut. A cancelled ctx stops the scan and returns ctx.Err().
// The caller's query is not modified.
func (e *Engine) Search(ctx context.Context, in *models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if strings.TrimSpace(in.Query) == "" {
		return &models.SearchResponse{Results: []models.SearchResult{}, Query: in.Query}, nil
	}
	q := *in
	query := &q
	if err := ProcessQuery(query, e.config.MaxLimit); err != nil {
		return nil, err
	}
	if !query.AllLanguages && e.config.AllLanguages {
		query.AllLanguages = true
	}

	b := e.source.Bible()
	catalog := e.source.Catalog()
	resp := &models.SearchResponse{Results: []models.SearchResult{}, Query: query.Query}
	if b == nil {
		return resp, nil
	}

	if ref, ok := ParseReference(query.Query); ok {
		if r, found := e.lookupReference(catalog, b, ref); found {
			resp.Results = append(resp.Results, r)
			resp.Total = 1
			resp.Reference = true
			resp.QueryTime = time.Since(start).Milliseconds()
			return resp, nil
		}
		e.logger.Debug("reference did not resolve; scanning content", zap.String("query", query.Query))
	}

	results, total, err := e.scan(ctx, e.corpusFor(b, catalog), query)
	if err != nil {
		return nil, err
	}
	resp.Results = results
	resp.Total = total
	resp.Truncated = total > len(results)
	resp.QueryTime = time.Since(start).Milliseconds()
	return resp, nil
}

func (e *Engine) lookupReference(catalog *bible.Catalog, b *bible.Bible, ref Reference) (models.SearchResult, bool) {
	name, ok := ResolveBook(catalog, b, ref.BookPrefix)
	if !ok {
		return models.SearchResult{}, false
	}
	_, _, v, ok := b.Lookup(name, ref.Chapter, ref.Verse)
	if !ok {
		return models.SearchResult{}, false
	}
	return models.SearchResult{
		Kind:        models.ResultVerse,
		Book:        name,
		DisplayName: catalog.DisplayName(name),
		Chapter:     ref.Chapter,
		Verse:       ref.Verse,
		Text:        v,
	}, true
}

// scan walks the corpus in canonical order. Each book contributes a book result when its
// name matches, followed by its matching verses. It returns at most query.Limit results
// (all when zero) and the count of every match.
func (e *Engine) scan(ctx context.Context, c *corpus, query *models.SearchQuery) ([]models.SearchResult, int, error) {
	needle := Fold(query.Query)
	results := []models.SearchResult{}
	total := 0
	keep := func() bool {
		total++
		return query.Limit == 0 || len(results) < query.Limit
	}

	for _, book := range c.books {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if strings.Contains(book.names[query.Language], needle) && keep() {
			results = append(results, models.SearchResult{
				Kind:        models.ResultBook,
				Book:        book.book.Name,
				DisplayName: book.displayName,
			})
		}
		for _, v := range book.verses {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
			if !v.matches(needle, query.AllLanguages) || !keep() {
				continue
			}
			results = append(results, models.SearchResult{
				Kind:        models.ResultVerse,
				Book:        book.book.Name,
				DisplayName: book.displayName,
				Chapter:     v.chapter,
				Verse:       v.verse.Number,
				Text:        v.verse,
			})
		}
	}
	return results, total, nil
}

// corpusFor returns the folded text of b, building it on first use after each reload.
func (e *Engine) corpusFor(b *bible.Bible, catalog *bible.Catalog) *corpus {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.corpus == nil || e.corpus.source != b {
		e.corpus = newCorpus(b, catalog)
	}
	return e.corpus
}

// corpus is a case-folded copy of a Bible for substring matching.
type corpus struct {
	source *bible.Bible
	books  []corpusBook
}

type corpusBook struct {
	book        *models.Book
	displayName string
	names       map[models.Language]string
	verses      []corpusVerse
}

type corpusVerse struct {
	chapter                 int
	verse                   *models.Verse
	english, latin, spanish string
}

func (v *corpusVerse) matches(needle string, allLanguages bool) bool {
	if strings.Contains(v.english, needle) {
		return true
	}
	if !allLanguages {
		return false
	}
	return strings.Contains(v.latin, needle) || strings.Contains(v.spanish, needle)
}

func newCorpus(b *bible.Bible, catalog *bible.Catalog) *corpus {
	c := &corpus{source: b, books: make([]corpusBook, 0, len(b.Books))}
	for _, book := range b.Books {
		cb := corpusBook{
			book:        book,
			displayName: catalog.DisplayName(book.Name),
			names:       make(map[models.Language]string, len(models.Languages)),
			verses:      make([]corpusVerse, 0, book.VerseCount()),
		}
		for _, lang := range models.Languages {
			cb.names[lang] = Fold(catalog.Name(lang, book.Name))
		}
		for _, ch := range book.Chapters {
			for _, v := range ch.Verses {
				cb.verses = append(cb.verses, corpusVerse{
					chapter: ch.Number,
					verse:   v,
					english: Fold(v.English),
					latin:   Fold(v.Latin),
					spanish: Fold(v.Spanish),
				})
			}
		}
		c.books = append(c.books, cb)
	}
	return c
}
