package content

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyperjump/vulgata/internal/bible"
	"go.uber.org/zap"
)

// snapshot is one successful load.
type snapshot struct {
	bible    *bible.Bible
	report   *bible.Report
	loadedAt time.Time
}

// Library holds the current merged Bible. Readers never block on a reload.
type Library struct {
	repo    Repository
	catalog *bible.Catalog
	logger  *zap.Logger

	current atomic.Pointer[snapshot]

	mu       sync.Mutex // serialises reloads and guards onReload
	onReload []func(*bible.Bible)
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithLogger sets the logger used for load and merge diagnostics.
func WithLogger(l *zap.Logger) LibraryOption {
	return func(lib *Library) { lib.logger = l }
}

// NewLibrary creates an empty library. Call Reload to populate it.
func NewLibrary(repo Repository, catalog *bible.Catalog, opts ...LibraryOption) *Library {
	lib := &Library{repo: repo, catalog: catalog, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// Catalog returns the book catalog the library merges with.
func (l *Library) Catalog() *bible.Catalog { return l.catalog }

// Bible returns the current content, or nil before the first successful load.
func (l *Library) Bible() *bible.Bible {
	if s := l.current.Load(); s != nil {
		return s.bible
	}
	return nil
}

// Report returns the merge report of the current content.
func (l *Library) Report() *bible.Report {
	if s := l.current.Load(); s != nil {
		return s.report
	}
	return nil
}

// LoadedAt returns when the current content was loaded.
func (l *Library) LoadedAt() time.Time {
	if s := l.current.Load(); s != nil {
		return s.loadedAt
	}
	return time.Time{}
}

// OnReload registers fn to run after each successful load.
func (l *Library) OnReload(fn func(*bible.Bible)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onReload = append(l.onReload, fn)
}

// Reload loads and merges the editions again. On failure the previous content stays in place.
func (l *Library) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, report, err := Load(ctx, l.repo, l.catalog, l.logger)
	if err != nil {
		if l.current.Load() != nil {
			l.logger.Warn("reload failed; keeping previous content", zap.Error(err))
		}
		return err
	}
	l.current.Store(&snapshot{bible: b, report: report, loadedAt: time.Now()})
	for _, fn := range l.onReload {
		fn(b)
	}
	return nil
}
