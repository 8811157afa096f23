package keyword

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/models"
	"go.uber.org/zap"
)

const (
	batchSize    = 1000
	signatureKey = "content_signature"
	bookField    = "book"
)

// verseDoc is the indexed representation of a verse.
type verseDoc struct {
	Book    string `json:"book"`
	Latin   string `json:"latin"`
	English string `json:"english"`
	Spanish string `json:"spanish"`
}

// BleveIndex implements VerseIndex using Bleve.
type BleveIndex struct {
	index  bleve.Index
	logger *zap.Logger

	mu    sync.RWMutex
	terms map[string]int // lazily built term -> doc frequency
}

// BleveOption configures a BleveIndex.
type BleveOption func(*BleveIndex)

// WithLogger sets a logger for indexing diagnostics.
func WithLogger(l *zap.Logger) BleveOption {
	return func(b *BleveIndex) { b.logger = l }
}

// NewBleveIndex creates or opens a Bleve index at path. An empty path keeps the index in memory.
// If the path already exists, the existing index is opened and IndexBible skips re-indexing
// when the content has not changed.
// If you change the index mapping in code, remove the index directory to force a full re-index.
func NewBleveIndex(path string, opts ...BleveOption) (*BleveIndex, error) {
	b := &BleveIndex{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	im := buildMapping()
	if path == "" {
		index, err := bleve.NewMemOnly(im)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
		}
		b.index = index
		return b, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		b.index = index
		return b, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	b.index = index
	return b, nil
}

func buildMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// No stemming; exact words must match in all three languages.
	textFieldMapping.Analyzer = standard.Name
	textFieldMapping.Store = false
	for _, lang := range models.Languages {
		docMapping.AddFieldMappingsAt(string(lang), textFieldMapping)
	}
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt(bookField, keywordFieldMapping)
	im.AddDocumentMapping("verse", docMapping)
	im.DefaultType = "verse"
	im.DefaultMapping = docMapping
	return im
}

// IndexBible indexes every verse of b in batches and deletes verses no longer in b.
func (b *BleveIndex) IndexBible(ctx context.Context, bib *bible.Bible) error {
	if bib == nil {
		return nil
	}
	sig := signature(bib)
	if prev, err := b.index.GetInternal([]byte(signatureKey)); err == nil && string(prev) == sig {
		b.logger.Debug("full-text index up to date", zap.String("signature", sig))
		return nil
	}
	stale, err := b.indexedIDs(ctx)
	if err != nil {
		return err
	}

	batch := b.index.NewBatch()
	indexed := 0
	for _, book := range bib.Books {
		for _, ch := range book.Chapters {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, v := range ch.Verses {
				doc := verseDoc{Book: book.Name, Latin: v.Latin, English: v.English, Spanish: v.Spanish}
				id := VerseID(book.Name, ch.Number, v.Number)
				delete(stale, id)
				if err := batch.Index(id, doc); err != nil {
					return fmt.Errorf("failed to index %s %d:%d: %w", book.Name, ch.Number, v.Number, err)
				}
				indexed++
				if batch.Size() >= batchSize {
					if err := b.index.Batch(batch); err != nil {
						return fmt.Errorf("failed to write index batch: %w", err)
					}
					batch.Reset()
				}
			}
		}
	}
	for id := range stale {
		batch.Delete(id)
		if batch.Size() >= batchSize {
			if err := b.index.Batch(batch); err != nil {
				return fmt.Errorf("failed to write index batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to write index batch: %w", err)
		}
	}
	if err := b.index.SetInternal([]byte(signatureKey), []byte(sig)); err != nil {
		return fmt.Errorf("failed to record index signature: %w", err)
	}

	b.mu.Lock()
	b.terms = nil
	b.mu.Unlock()
	b.logger.Info("full-text index built", zap.Int("verses", indexed), zap.Int("removed", len(stale)))
	return nil
}

// indexedIDs returns the ids of every document currently in the index.
func (b *BleveIndex) indexedIDs(ctx context.Context) (map[string]struct{}, error) {
	count, err := b.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count indexed verses: %w", err)
	}
	ids := make(map[string]struct{}, count)
	if count == 0 {
		return ids, nil
	}
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(count)
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed verses: %w", err)
	}
	for _, hit := range res.Hits {
		ids[hit.ID] = struct{}{}
	}
	return ids, nil
}

// signature identifies the exact content of a Bible so unchanged content is not re-indexed.
func signature(bib *bible.Bible) string {
	h := fnv.New64a()
	for _, book := range bib.Books {
		h.Write([]byte(book.Name))
		for _, ch := range book.Chapters {
			for _, v := range ch.Verses {
				h.Write([]byte(strconv.Itoa(ch.Number) + ":" + strconv.Itoa(v.Number)))
				h.Write([]byte(v.Latin))
				h.Write([]byte(v.English))
				h.Write([]byte(v.Spanish))
			}
		}
	}
	return strconv.Itoa(bib.VerseCount()) + "-" + strconv.FormatUint(h.Sum64(), 16)
}

// Search runs a match (or fuzzy) query over the selected language fields and returns up
// to limit hits ordered by score.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*VerseHit, error) {
	fuzzyEnabled := false
	fuzziness := 1
	langs := models.Languages
	book := ""
	if opts != nil {
		fuzzyEnabled = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
		if len(opts.Languages) > 0 {
			langs = opts.Languages
		}
		book = opts.Book
	}
	if limit <= 0 {
		limit = 10
	}

	fieldQueries := make([]blevequery.Query, 0, len(langs))
	for _, lang := range langs {
		if fuzzyEnabled {
			fieldQueries = append(fieldQueries, buildFuzzyQuery(query, fuzziness, string(lang)))
		} else {
			mq := bleve.NewMatchQuery(query)
			mq.SetField(string(lang))
			fieldQueries = append(fieldQueries, mq)
		}
	}
	var q blevequery.Query = bleve.NewDisjunctionQuery(fieldQueries...)
	if book != "" {
		bq := bleve.NewTermQuery(book)
		bq.SetField(bookField)
		q = bleve.NewConjunctionQuery(q, bq)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*VerseHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		bk, ch, v, err := ParseVerseID(hit.ID)
		if err != nil {
			b.logger.Debug("skipping hit with foreign id", zap.String("id", hit.ID))
			continue
		}
		out = append(out, &VerseHit{Book: bk, Chapter: ch, Verse: v, Score: hit.Score})
	}
	return out, nil
}

// tokenizeQuery splits query into lowercase terms, filtering out empty strings.
func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// buildFuzzyQuery creates a disjunction of FuzzyQueries for each term of the query on field.
func buildFuzzyQuery(queryStr string, fuzziness int, field string) blevequery.Query {
	terms := tokenizeQuery(queryStr)
	if len(terms) == 0 {
		mq := bleve.NewMatchQuery(queryStr)
		mq.SetField(field)
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of verses in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// termCounts reads the language field dictionaries once and caches term -> doc frequency.
func (b *BleveIndex) termCounts() (map[string]int, error) {
	b.mu.RLock()
	terms := b.terms
	b.mu.RUnlock()
	if terms != nil {
		return terms, nil
	}

	terms = make(map[string]int)
	for _, lang := range models.Languages {
		dict, err := b.index.FieldDict(string(lang))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s terms: %w", lang, err)
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			terms[entry.Term] += int(entry.Count)
		}
		dict.Close()
	}

	b.mu.Lock()
	b.terms = terms
	b.mu.Unlock()
	return terms, nil
}

// GetAllTerms returns all unique terms from the language field dictionaries.
func (b *BleveIndex) GetAllTerms() ([]string, error) {
	counts, err := b.termCounts()
	if err != nil {
		return nil, err
	}
	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	return terms, nil
}

// GetTermFrequency returns the number of verse fields containing term.
func (b *BleveIndex) GetTermFrequency(term string) (int, error) {
	counts, err := b.termCounts()
	if err != nil {
		return 0, err
	}
	return counts[strings.ToLower(term)], nil
}
