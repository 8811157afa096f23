package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/bookmarks"
	"github.com/hyperjump/vulgata/internal/config"
	"github.com/hyperjump/vulgata/internal/content"
	"github.com/hyperjump/vulgata/internal/dictionary"
	"github.com/hyperjump/vulgata/internal/keyword"
	"github.com/hyperjump/vulgata/internal/models"
	"github.com/hyperjump/vulgata/internal/prayers"
	"github.com/hyperjump/vulgata/internal/search"
	"github.com/hyperjump/vulgata/internal/settings"
	"github.com/hyperjump/vulgata/internal/storage"
	"github.com/hyperjump/vulgata/pkg/utils"
	"go.uber.org/zap"
)

// Components holds initialized services.
type Components struct {
	Repository   *content.FileRepository
	Library      *content.Library
	Storage      storage.KeyValueStore
	KeywordIndex *keyword.BleveIndex
	Engine       *search.Engine
	Bookmarks    *bookmarks.Store
	Settings     *settings.Store
	Prayers      *prayers.Collection
	Dictionary   *dictionary.Dictionary
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

// contentPaths maps each language to its configured edition file.
func contentPaths(cfg *config.ContentConfig) map[models.Language]string {
	paths := make(map[models.Language]string, len(models.Languages))
	for _, lang := range models.Languages {
		paths[lang] = cfg.FileFor(string(lang))
	}
	return paths
}

// watchTargets returns the directories and file names to watch for content changes.
func watchTargets(repo *content.FileRepository, cfg *config.ContentConfig) (dirs, files []string) {
	paths := repo.Paths()
	if cfg.PrayersFile != "" {
		paths = append(paths, cfg.PrayersFile)
	}
	seen := make(map[string]bool)
	for _, p := range paths {
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
		files = append(files, filepath.Base(p))
	}
	return dirs, files
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c := &Components{}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	catalog := bible.DefaultCatalog()
	if cfg.Content.CatalogPath != "" {
		loaded, err := bible.LoadCatalog(cfg.Content.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		catalog = loaded
	}

	index, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath, keyword.WithLogger(utils.Component(logger, "keyword")))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}
	c.KeywordIndex = index
	spell := keyword.NewSpellChecker(index)

	c.Repository = content.NewFileRepository(contentPaths(&cfg.Content))
	c.Library = content.NewLibrary(c.Repository, catalog, content.WithLogger(utils.Component(logger, "content")))
	c.Engine = search.NewEngine(c.Library, &cfg.Search,
		search.WithFullText(index, spell),
		search.WithLogger(utils.Component(logger, "search")),
	)
	c.Library.OnReload(func(b *bible.Bible) {
		if err := index.IndexBible(ctx, b); err != nil {
			logger.Warn("full-text indexing failed", zap.Error(err))
			return
		}
		if err := c.Engine.RefreshSpelling(); err != nil {
			logger.Warn("spelling refresh failed", zap.Error(err))
		}
	})
	if err := c.Library.Reload(ctx); err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.Storage = store
	c.Bookmarks, err = bookmarks.Open(ctx, store)
	if err != nil {
		return nil, err
	}
	c.Settings = settings.NewStore(store, settings.Defaults(&cfg.Reader))

	if cfg.Content.PrayersFile != "" {
		c.Prayers, err = prayers.Load(cfg.Content.PrayersFile)
		if err != nil {
			logger.Warn("prayers unavailable", zap.String("path", cfg.Content.PrayersFile), zap.Error(err))
		}
	}
	if cfg.Content.DictionaryDir != "" {
		c.Dictionary = dictionary.New(cfg.Content.DictionaryDir,
			dictionary.WithCacheSize(cfg.Dictionary.CacheSize),
			dictionary.WithLogger(utils.Component(logger, "dictionary")),
		)
	}

	ok = true
	return c, nil
}
