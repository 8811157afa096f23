// Package reader implements rapid serial visual presentation: words are shown one at a
// time, paced by a words-per-minute setting, with the optimal recognition point marked.
package reader

import (
	"strings"
	"unicode/utf8"
)

// ORP returns the rune index of the optimal recognition point of word.
func ORP(word string) int {
	switch n := utf8.RuneCountInString(word); {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	case n <= 13:
		return 3
	default:
		return 4
	}
}

// Word is a display token with its recognition point.
type Word struct {
	Text string `json:"text"`
	ORP  int    `json:"orp"`
}

// NewWord builds a Word for text.
func NewWord(text string) Word {
	return Word{Text: text, ORP: ORP(text)}
}

// Before returns the runes preceding the recognition point.
func (w Word) Before() string {
	r := []rune(w.Text)
	if w.ORP <= 0 || w.ORP > len(r) {
		return ""
	}
	return string(r[:w.ORP])
}

// Letter returns the rune at the recognition point, or "" when out of range.
func (w Word) Letter() string {
	r := []rune(w.Text)
	if w.ORP < 0 || w.ORP >= len(r) {
		return ""
	}
	return string(r[w.ORP])
}

// After returns the runes following the recognition point.
func (w Word) After() string {
	r := []rune(w.Text)
	if w.ORP < 0 || w.ORP >= len(r)-1 {
		return ""
	}
	return string(r[w.ORP+1:])
}

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// Tokenize splits text into words on whitespace. Line breaks count as spaces.
func Tokenize(text string) []Word {
	fields := strings.Fields(lineBreaks.Replace(text))
	words := make([]Word, len(fields))
	for i, f := range fields {
		words[i] = NewWord(f)
	}
	return words
}

// pauseFactor returns the delay multiplier for a word's trailing punctuation.
func pauseFactor(text string) float64 {
	switch {
	case strings.HasSuffix(text, "."), strings.HasSuffix(text, "!"), strings.HasSuffix(text, "?"):
		return 2.5
	case strings.HasSuffix(text, ","), strings.HasSuffix(text, ";"), strings.HasSuffix(text, ":"):
		return 1.5
	}
	return 1
}
