package bible

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// charsetKey is the only top-level key that is not a book.
const charsetKey = "charset"

// Document is one language edition as parsed from its source file:
// book name (in the source language) → chapter → verse → text.
type Document struct {
	Charset string
	Books   []*SourceBook
	// Skipped records entries that failed projection (bad keys or values).
	Skipped []string
}

// SourceBook is a book keyed by its source-language name.
type SourceBook struct {
	Name     string
	Chapters map[int]map[int]string
}

// Book returns the book named name, or nil.
func (d *Document) Book(name string) *SourceBook {
	for _, b := range d.Books {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// VerseCount returns the number of verses in the document.
func (d *Document) VerseCount() int {
	n := 0
	for _, b := range d.Books {
		for _, ch := range b.Chapters {
			n += len(ch)
		}
	}
	return n
}

// member is one key/value pair of a JSON object with document order preserved.
type member struct {
	Key   string
	Value any
}

// object is a JSON object whose members keep their source order.
type object []member

// ParseDocument decodes the dynamic-key JSON shape
//
//	{"charset": "utf-8", "<book>": {"<chapter>": {"<verse>": "text"}}}
//
// into a Document. Entries that do not fit the shape are skipped and listed in
// Document.Skipped; only malformed JSON or a non-object root is an error.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	root, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode document: trailing data")
	}
	obj, ok := root.(object)
	if !ok {
		return nil, fmt.Errorf("document root must be an object")
	}
	return project(obj), nil
}

// decodeValue reads one JSON value from dec, keeping object member order.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		var obj object
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, member{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		var arr []any
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// project converts the generic tree into the typed Document.
func project(root object) *Document {
	doc := &Document{}
	byName := make(map[string]*SourceBook)
	for _, m := range root {
		if m.Key == charsetKey {
			if s, ok := m.Value.(string); ok {
				doc.Charset = s
			}
			continue
		}
		chapters, ok := m.Value.(object)
		if !ok {
			doc.skip("book %q is not an object", m.Key)
			continue
		}
		book, seen := byName[m.Key]
		if !seen {
			book = &SourceBook{Name: m.Key, Chapters: make(map[int]map[int]string)}
			byName[m.Key] = book
			doc.Books = append(doc.Books, book)
		}
		for _, cm := range chapters {
			chNum, ok := parseNumber(cm.Key)
			if !ok {
				doc.skip("%s: chapter key %q is not a number", m.Key, cm.Key)
				continue
			}
			verses, ok := cm.Value.(object)
			if !ok {
				doc.skip("%s %d: chapter is not an object", m.Key, chNum)
				continue
			}
			chapter := book.Chapters[chNum]
			if chapter == nil {
				chapter = make(map[int]string, len(verses))
				book.Chapters[chNum] = chapter
			}
			for _, vm := range verses {
				vNum, ok := parseNumber(vm.Key)
				if !ok {
					doc.skip("%s %d: verse key %q is not a number", m.Key, chNum, vm.Key)
					continue
				}
				text, ok := vm.Value.(string)
				if !ok {
					doc.skip("%s %d:%d: verse text is not a string", m.Key, chNum, vNum)
					continue
				}
				chapter[vNum] = text
			}
		}
	}
	return doc
}

func (d *Document) skip(format string, args ...any) {
	d.Skipped = append(d.Skipped, fmt.Sprintf(format, args...))
}

// parseNumber accepts non-negative decimal keys such as "1" or " 12 ".
func parseNumber(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
