// Package content loads the language editions from disk and keeps the merged Bible current.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/models"
)

var (
	// ErrMissingLanguage is returned when a language edition has no source.
	ErrMissingLanguage = errors.New("language edition not available")
	// ErrEmptyLibrary is returned when a merge produces no books.
	ErrEmptyLibrary = errors.New("no Bible content")
)

// Repository supplies the parsed source document for a language.
type Repository interface {
	LoadBook(ctx context.Context, lang models.Language) (*bible.Document, error)
}

// FileRepository reads one JSON file per language.
type FileRepository struct {
	paths map[models.Language]string
}

// NewFileRepository creates a repository over the given per-language file paths.
// A language with an empty path is reported as missing.
func NewFileRepository(paths map[models.Language]string) *FileRepository {
	cp := make(map[models.Language]string, len(paths))
	for k, v := range paths {
		cp[k] = v
	}
	return &FileRepository{paths: cp}
}

// Path returns the file configured for lang.
func (r *FileRepository) Path(lang models.Language) string {
	return r.paths[lang]
}

// Paths returns every configured file path.
func (r *FileRepository) Paths() []string {
	var out []string
	for _, lang := range models.Languages {
		if p := r.paths[lang]; p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadBook opens and parses the edition for lang.
func (r *FileRepository) LoadBook(ctx context.Context, lang models.Language) (*bible.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.paths[lang]
	if path == "" {
		return nil, fmt.Errorf("%s: %w", lang, ErrMissingLanguage)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w: %w", lang, ErrMissingLanguage, err)
		}
		return nil, fmt.Errorf("failed to open %s edition: %w", lang, err)
	}
	defer f.Close()

	doc, err := bible.ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s edition %s: %w", lang, path, err)
	}
	return doc, nil
}

// MemoryRepository serves documents held in memory; used by tests and embedded content.
type MemoryRepository map[models.Language]*bible.Document

// LoadBook returns the stored document or ErrMissingLanguage.
func (m MemoryRepository) LoadBook(ctx context.Context, lang models.Language) (*bible.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, ok := m[lang]
	if !ok || doc == nil {
		return nil, fmt.Errorf("%s: %w", lang, ErrMissingLanguage)
	}
	return doc, nil
}
