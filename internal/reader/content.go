package reader

import (
	"fmt"

	"github.com/hyperjump/vulgata/internal/models"
	"github.com/hyperjump/vulgata/internal/prayers"
)

// Item is a word in reading order together with its origin.
type Item struct {
	Word
	// Verse is set on the first word of each verse.
	Verse       int  `json:"verse,omitempty"`
	Instruction bool `json:"instruction,omitempty"`
}

// ChapterMarker locates a chapter within the item sequence.
type ChapterMarker struct {
	Book   string `json:"book"`
	Number int    `json:"number"`
	Start  int    `json:"start"`
	Count  int    `json:"count"`
}

// VerseMarker locates a verse within the item sequence.
type VerseMarker struct {
	Chapter int `json:"chapter"`
	Number  int `json:"number"`
	Start   int `json:"start"`
	Count   int `json:"count"`
}

// Preset is a named reading speed.
type Preset struct {
	Name string `json:"name"`
	WPM  int    `json:"wpm"`
}

// Presets lists the standard reading speeds from slowest to fastest.
var Presets = []Preset{
	{Name: "slow", WPM: 150},
	{Name: "normal", WPM: 250},
	{Name: "fast", WPM: 350},
	{Name: "turbo", WPM: 500},
}

// PresetWPM returns the speed of the named preset.
func PresetWPM(name string) (int, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p.WPM, true
		}
	}
	return 0, false
}

// ChapterProgressKey is the progress key for a Bible chapter.
func ChapterProgressKey(book string, chapter int) string {
	return fmt.Sprintf("reader/progress/bible/%s/%d", book, chapter)
}

// PrayerProgressKey is the progress key for a prayer.
func PrayerProgressKey(id string) string {
	return "reader/progress/prayer/" + id
}

// ChapterItems tokenizes a chapter in lang, returning its items and verse markers.
// Marker starts are offset by base.
func ChapterItems(ch *models.Chapter, lang models.Language, base int) ([]Item, []VerseMarker) {
	var items []Item
	markers := make([]VerseMarker, 0, len(ch.Verses))
	for _, v := range ch.Verses {
		words := Tokenize(v.Text(lang))
		markers = append(markers, VerseMarker{
			Chapter: ch.Number,
			Number:  v.Number,
			Start:   base + len(items),
			Count:   len(words),
		})
		for i, w := range words {
			item := Item{Word: w}
			if i == 0 {
				item.Verse = v.Number
			}
			items = append(items, item)
		}
	}
	return items, markers
}

// PrayerItems tokenizes a prayer in lang. Instruction words come first.
func PrayerItems(p *prayers.Prayer, lang models.Language) []Item {
	var items []Item
	for _, w := range Tokenize(p.Instructions) {
		items = append(items, Item{Word: w, Instruction: true})
	}
	for _, w := range Tokenize(p.Text(lang)) {
		items = append(items, Item{Word: w})
	}
	return items
}

func textItems(text string) []Item {
	words := Tokenize(text)
	items := make([]Item, len(words))
	for i, w := range words {
		items[i] = Item{Word: w}
	}
	return items
}
