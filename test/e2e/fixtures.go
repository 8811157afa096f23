package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/vulgata/internal/models"
)

// EditionFile is the file name each language is written to.
func EditionFile(lang models.Language) string {
	return string(lang) + ".json"
}

// EncodeEdition renders an edition in the source file format, including the charset key.
func EncodeEdition(e Edition) ([]byte, error) {
	doc := make(map[string]interface{}, len(e)+1)
	doc["charset"] = "utf-8"
	for book, chapters := range e {
		doc[book] = chapters
	}
	return json.Marshal(doc)
}

// WriteEditions writes every edition of c into dir and returns the file per language.
func WriteEditions(dir string, c *Corpus) (map[models.Language]string, error) {
	paths := make(map[models.Language]string, len(c.Editions))
	for lang, edition := range c.Editions {
		data, err := EncodeEdition(edition)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s edition: %w", lang, err)
		}
		p := filepath.Join(dir, EditionFile(lang))
		if err := os.WriteFile(p, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s edition: %w", lang, err)
		}
		paths[lang] = p
	}
	return paths, nil
}
