// Package models defines core data structures for books, verses, queries, and search results.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned for a language name that is not supported.
var ErrUnknownLanguage = errors.New("unknown language")

// Language identifies one of the three editions the reader carries.
type Language string

const (
	Latin   Language = "latin"
	English Language = "english"
	Spanish Language = "spanish"
)

// Languages lists every supported language in display order.
var Languages = []Language{Latin, English, Spanish}

// ParseLanguage returns the Language for s (case-insensitive). Short codes la, en and es are accepted.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latin", "la":
		return Latin, nil
	case "english", "en":
		return English, nil
	case "spanish", "es":
		return Spanish, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Book is a merged book keyed by its canonical (Latin) name.
type Book struct {
	Name     string     `json:"name"`
	Chapters []*Chapter `json:"chapters"`
}

// Chapter returns the chapter with the given number, or nil.
func (b *Book) Chapter(number int) *Chapter {
	for _, ch := range b.Chapters {
		if ch.Number == number {
			return ch
		}
	}
	return nil
}

// VerseCount returns the number of verses across all chapters.
func (b *Book) VerseCount() int {
	n := 0
	for _, ch := range b.Chapters {
		n += len(ch.Verses)
	}
	return n
}

// Chapter is an ordered list of verses.
type Chapter struct {
	Number int      `json:"number"`
	Verses []*Verse `json:"verses"`
}

// Verse returns the verse with the given number, or nil.
func (c *Chapter) Verse(number int) *Verse {
	for _, v := range c.Verses {
		if v.Number == number {
			return v
		}
	}
	return nil
}

// Verse carries the text of one verse in every available language.
// Spanish is the empty string when the Spanish edition lacks the verse.
type Verse struct {
	Number  int    `json:"number"`
	Latin   string `json:"latin"`
	English string `json:"english"`
	Spanish string `json:"spanish"`
}

// Text returns the verse text for lang. Unknown languages yield the Latin text.
func (v *Verse) Text(lang Language) string {
	switch lang {
	case English:
		return v.English
	case Spanish:
		return v.Spanish
	default:
		return v.Latin
	}
}

// DisplayMode controls which languages a reader shows side by side.
type DisplayMode string

const (
	DisplayLatin     DisplayMode = "latin"
	DisplayEnglish   DisplayMode = "english"
	DisplayBilingual DisplayMode = "bilingual"
)

// Valid reports whether m is a known display mode.
func (m DisplayMode) Valid() bool {
	switch m {
	case DisplayLatin, DisplayEnglish, DisplayBilingual:
		return true
	}
	return false
}
