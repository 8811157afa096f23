package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/vulgata/internal/keyword"
	"github.com/hyperjump/vulgata/internal/models"
	"go.uber.org/zap"
)

// ErrFullTextDisabled is returned by FullText when no index was configured.
var ErrFullTextDisabled = errors.New("full-text search is not enabled")

// FullText runs a ranked query against the verse index. When nothing matches and a spell
// checker is configured, the response carries "did you mean" suggestions. The caller's
// query is not modified.
func (e *Engine) FullText(ctx context.Context, in *models.SearchQuery) (*models.SearchResponse, error) {
	if e.fulltext == nil {
		return nil, ErrFullTextDisabled
	}
	start := time.Now()
	q := *in
	query := &q
	if err := ProcessQuery(query, e.config.MaxLimit); err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit == 0 {
		limit = e.config.DefaultLimit
	}

	opts := &keyword.SearchOptions{FuzzyEnabled: query.Fuzzy, Fuzziness: e.config.Fuzziness}
	if !query.AllLanguages && !e.config.AllLanguages {
		opts.Languages = []models.Language{query.Language}
	}
	hits, err := e.fulltext.Search(ctx, query.Query, limit, opts)
	if err != nil {
		return nil, fmt.Errorf("full-text search failed: %w", err)
	}

	b := e.source.Bible()
	catalog := e.source.Catalog()
	resp := &models.SearchResponse{Results: make([]models.SearchResult, 0, len(hits)), Query: query.Query}
	scores := NormalizeScores(hits)
	for i, hit := range hits {
		_, _, v, ok := b.Lookup(hit.Book, hit.Chapter, hit.Verse)
		if !ok {
			e.logger.Debug("stale full-text hit", zap.String("id", keyword.VerseID(hit.Book, hit.Chapter, hit.Verse)))
			continue
		}
		resp.Results = append(resp.Results, models.SearchResult{
			Kind:        models.ResultVerse,
			Book:        hit.Book,
			DisplayName: catalog.DisplayName(hit.Book),
			Chapter:     hit.Chapter,
			Verse:       hit.Verse,
			Text:        v,
			Score:       scores[i],
		})
	}
	resp.Total = len(resp.Results)
	if resp.Total == 0 && e.spell != nil {
		resp.Suggestions = e.spell.GetTopSuggestions(query.Query, 3)
	}
	resp.QueryTime = time.Since(start).Milliseconds()
	return resp, nil
}

// RefreshSpelling reloads the spell checker's term list after the index changes.
func (e *Engine) RefreshSpelling() error {
	if e.spell == nil {
		return nil
	}
	return e.spell.RefreshCache()
}
