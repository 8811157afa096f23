package content

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoadError is returned when a mandatory edition cannot be loaded.
// Its message is the single user-facing text for every such failure.
type LoadError struct {
	Lang models.Language
	Err  error
}

func (e *LoadError) Error() string { return "could not load Bible content" }

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the three editions concurrently and merges them. Latin and English are
// mandatory; a Spanish failure is logged and the merge continues without Spanish text.
// Merge warnings are logged one per entry.
func Load(ctx context.Context, repo Repository, catalog *bible.Catalog, logger *zap.Logger) (*bible.Bible, *bible.Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	var latin, english, spanish *bible.Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := repo.LoadBook(gctx, models.Latin)
		if err != nil {
			return &LoadError{Lang: models.Latin, Err: err}
		}
		latin = doc
		return nil
	})
	g.Go(func() error {
		doc, err := repo.LoadBook(gctx, models.English)
		if err != nil {
			return &LoadError{Lang: models.English, Err: err}
		}
		english = doc
		return nil
	})
	g.Go(func() error {
		doc, err := repo.LoadBook(gctx, models.Spanish)
		if err != nil {
			logger.Warn("spanish edition unavailable", zap.Error(err))
			return nil
		}
		spanish = doc
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("failed to load content", zap.Error(err))
		return nil, nil, err
	}

	for lang, doc := range map[models.Language]*bible.Document{models.Latin: latin, models.English: english, models.Spanish: spanish} {
		if doc == nil {
			continue
		}
		for _, s := range doc.Skipped {
			logger.Debug("skipped source entry", zap.String("language", string(lang)), zap.String("entry", s))
		}
	}

	b, report := bible.Merge(catalog, latin, english, spanish)
	for _, w := range report.Warnings {
		logger.Warn("merge", zap.String("warning", w))
	}
	if len(b.Books) == 0 {
		return nil, report, fmt.Errorf("merge produced no books: %w", ErrEmptyLibrary)
	}
	logger.Info("content loaded",
		zap.Int("books", report.Books),
		zap.Int("chapters", report.Chapters),
		zap.Int("verses", report.Verses),
		zap.Int("spanish_verses", report.SpanishVerses),
		zap.Int("warnings", len(report.Warnings)),
		zap.Duration("elapsed", time.Since(start)))
	return b, report, nil
}
