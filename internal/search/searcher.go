package search

import (
	"context"
	"errors"
	"sync"

	"github.com/hyperjump/vulgata/internal/models"
	"go.uber.org/zap"
)

// Publisher receives the results of the most recent query. It runs with the searcher
// locked and must not call back into it.
type Publisher func(resp *models.SearchResponse)

// Searcher runs one scan at a time with cancel-and-replace semantics: submitting a query
// cancels the scan in flight, and only the newest query's results are ever published.
type Searcher struct {
	engine  *Engine
	publish Publisher
	logger  *zap.Logger
	base    models.SearchQuery

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	latest     *models.SearchResponse
	closed     bool
	wg         sync.WaitGroup
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithPublisher sets the callback invoked with each published result set.
func WithPublisher(p Publisher) SearcherOption {
	return func(s *Searcher) { s.publish = p }
}

// WithQueryDefaults sets the options applied to every submitted query string.
func WithQueryDefaults(q models.SearchQuery) SearcherOption {
	return func(s *Searcher) { s.base = q }
}

// WithSearcherLogger sets the searcher logger.
func WithSearcherLogger(l *zap.Logger) SearcherOption {
	return func(s *Searcher) { s.logger = l }
}

// NewSearcher creates a Searcher over engine.
func NewSearcher(engine *Engine, opts ...SearcherOption) *Searcher {
	s := &Searcher{engine: engine, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit cancels any scan in flight and starts one for query in the background. An empty
// query publishes an empty result set once its goroutine runs, like any other query. It
// returns the generation assigned to the query.
func (s *Searcher) Submit(query string) uint64 {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	q := s.base
	q.Query = query
	go func() {
		defer s.wg.Done()
		defer cancel()
		resp, err := s.engine.Search(ctx, &q)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
			}
			return
		}
		s.deliver(gen, resp)
	}()
	return gen
}

// deliver publishes resp only if gen is still the newest generation. The check and the
// publish happen under the lock so a stale scan can never overwrite newer results.
func (s *Searcher) deliver(gen uint64, resp *models.SearchResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.closed {
		s.logger.Debug("dropping stale results", zap.Uint64("generation", gen))
		return
	}
	s.latest = resp
	if s.publish != nil {
		s.publish(resp)
	}
}

// Latest returns the most recently published results, or nil.
func (s *Searcher) Latest() *models.SearchResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Generation returns the generation of the newest submitted query.
func (s *Searcher) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Wait blocks until every submitted scan has finished.
func (s *Searcher) Wait() {
	s.wg.Wait()
}

// Close cancels the scan in flight and stops publishing.
func (s *Searcher) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
