// Package prayers loads the bilingual prayer collection.
package prayers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hyperjump/vulgata/internal/models"
)

// ErrNotFound is returned when no prayer has the requested id.
var ErrNotFound = errors.New("prayer not found")

// Prayer is one prayer with Latin and English text and optional Spanish text.
type Prayer struct {
	Title        string `json:"title"`
	TitleLatin   string `json:"title_latin,omitempty"`
	TitleEnglish string `json:"title_english,omitempty"`
	Latin        string `json:"latin"`
	English      string `json:"english"`
	Spanish      string `json:"spanish,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Category     string `json:"category,omitempty"`
}

var idReplacer = strings.NewReplacer(" ", "_", ",", "", ".", "", "'", "", "\"", "", "(", "", ")", "")

// ID derives a stable identifier from the title: lowercased, spaces as underscores and
// punctuation removed.
func (p *Prayer) ID() string {
	return idReplacer.Replace(strings.ToLower(p.Title))
}

// DisplayTitle returns the title to show for lang.
func (p *Prayer) DisplayTitle(lang models.Language) string {
	switch {
	case lang == models.Latin && p.TitleLatin != "":
		return p.TitleLatin
	case lang != models.Latin && p.TitleEnglish != "":
		return p.TitleEnglish
	}
	return p.Title
}

// Text returns the prayer text for lang. Spanish falls back to English when absent.
func (p *Prayer) Text(lang models.Language) string {
	switch lang {
	case models.English:
		return p.English
	case models.Spanish:
		if p.Spanish != "" {
			return p.Spanish
		}
		return p.English
	default:
		return p.Latin
	}
}

// Collection is an ordered set of prayers with lookup by id.
type Collection struct {
	prayers []*Prayer
	byID    map[string]*Prayer
}

type file struct {
	Prayers []*Prayer `json:"prayers"`
}

// NewCollection indexes prayers. On duplicate ids the first prayer wins.
func NewCollection(prayers []*Prayer) *Collection {
	c := &Collection{byID: make(map[string]*Prayer, len(prayers))}
	for _, p := range prayers {
		if p == nil {
			continue
		}
		if _, dup := c.byID[p.ID()]; dup {
			continue
		}
		c.prayers = append(c.prayers, p)
		c.byID[p.ID()] = p
	}
	return c
}

// Load reads a {"prayers": [...]} document from path.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prayers: %w", err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse prayers %s: %w", path, err)
	}
	return NewCollection(f.Prayers), nil
}

// All returns the prayers in file order.
func (c *Collection) All() []*Prayer {
	if c == nil {
		return nil
	}
	return c.prayers
}

// Len returns the number of prayers.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.prayers)
}

// Get returns the prayer with the given id.
func (c *Collection) Get(id string) (*Prayer, error) {
	if c != nil {
		if p, ok := c.byID[id]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Category returns the prayers whose category matches name, case-insensitively.
func (c *Collection) Category(name string) []*Prayer {
	var out []*Prayer
	for _, p := range c.All() {
		if strings.EqualFold(p.Category, name) {
			out = append(out, p)
		}
	}
	return out
}
