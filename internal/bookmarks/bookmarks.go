// Package bookmarks keeps verse and prayer bookmarks as one JSON document in the
// key-value store.
package bookmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/vulgata/internal/prayers"
	"github.com/hyperjump/vulgata/internal/storage"
)

const storeKey = "bookmarks"

var (
	ErrNotFound    = errors.New("bookmark not found")
	ErrInvalidKind = errors.New("invalid bookmark")
)

// Kind is the type of bookmarked content.
type Kind string

const (
	KindVerse  Kind = "verse"
	KindPrayer Kind = "prayer"
)

// Bookmark marks a verse or a prayer. Verse fields are empty for prayer bookmarks and the
// other way round.
type Bookmark struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	Book       string `json:"book,omitempty"`
	Chapter    int    `json:"chapter,omitempty"`
	Verse      int    `json:"verse,omitempty"`
	VerseText  string `json:"verse_text,omitempty"`
	LatinText  string `json:"latin_text,omitempty"`
	PrayerID   string `json:"prayer_id,omitempty"`
	PrayerName string `json:"prayer_title,omitempty"`
	Category   string `json:"category,omitempty"`

	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Bookmark) validate() error {
	switch b.Kind {
	case KindVerse:
		if b.Book == "" || b.Chapter <= 0 || b.Verse <= 0 {
			return fmt.Errorf("%w: verse bookmark needs book, chapter and verse", ErrInvalidKind)
		}
	case KindPrayer:
		if b.PrayerID == "" {
			return fmt.Errorf("%w: prayer bookmark needs a prayer id", ErrInvalidKind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidKind, b.Kind)
	}
	return nil
}

// NewVerseBookmark creates a bookmark for a verse.
func NewVerseBookmark(book string, chapter, verse int, text, latin, note string) *Bookmark {
	return &Bookmark{
		Kind:      KindVerse,
		Book:      book,
		Chapter:   chapter,
		Verse:     verse,
		VerseText: text,
		LatinText: latin,
		Note:      note,
	}
}

// NewPrayerBookmark creates a bookmark for a prayer.
func NewPrayerBookmark(p *prayers.Prayer, note string) *Bookmark {
	return &Bookmark{
		Kind:       KindPrayer,
		PrayerID:   p.ID(),
		PrayerName: p.Title,
		Category:   p.Category,
		Note:       note,
	}
}

// Store holds the bookmark list. Every change rewrites the whole list.
type Store struct {
	kv storage.KeyValueStore

	mu        sync.Mutex
	bookmarks []*Bookmark
}

// Open loads the bookmarks saved in kv.
func Open(ctx context.Context, kv storage.KeyValueStore) (*Store, error) {
	s := &Store{kv: kv}
	raw, err := kv.Get(ctx, storeKey)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	if err := json.Unmarshal(raw, &s.bookmarks); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	return s, nil
}

// Add saves b under a new id, replacing any id it carries, and sets its creation time
// when missing.
func (s *Store) Add(ctx context.Context, b *Bookmark) (*Bookmark, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = uuid.New().String()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	next := append(append([]*Bookmark(nil), s.bookmarks...), b)
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return b, nil
}

// Remove deletes the bookmark with id.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := make([]*Bookmark, 0, len(s.bookmarks)-1)
	next = append(next, s.bookmarks[:i]...)
	next = append(next, s.bookmarks[i+1:]...)
	return s.save(ctx, next)
}

// Update replaces the bookmark with the same id.
func (s *Store) Update(ctx context.Context, b *Bookmark) error {
	if err := b.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(b.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, b.ID)
	}
	next := append([]*Bookmark(nil), s.bookmarks...)
	if b.CreatedAt.IsZero() {
		b.CreatedAt = next[i].CreatedAt
	}
	next[i] = b
	return s.save(ctx, next)
}

// Get returns the bookmark with id.
func (s *Store) Get(id string) (*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.bookmarks[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns the bookmarks in the order they were added.
func (s *Store) List() []*Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Bookmark(nil), s.bookmarks...)
}

// VerseBookmark returns the first bookmark for the verse, or nil.
func (s *Store) VerseBookmark(book string, chapter, verse int) *Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookmarks {
		if b.Kind == KindVerse && b.Book == book && b.Chapter == chapter && b.Verse == verse {
			return b
		}
	}
	return nil
}

// IsVerseBookmarked reports whether the verse has a bookmark.
func (s *Store) IsVerseBookmarked(book string, chapter, verse int) bool {
	return s.VerseBookmark(book, chapter, verse) != nil
}

// PrayerBookmark returns the first bookmark for the prayer, or nil.
func (s *Store) PrayerBookmark(prayerID string) *Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookmarks {
		if b.Kind == KindPrayer && b.PrayerID == prayerID {
			return b
		}
	}
	return nil
}

// IsPrayerBookmarked reports whether the prayer has a bookmark.
func (s *Store) IsPrayerBookmarked(prayerID string) bool {
	return s.PrayerBookmark(prayerID) != nil
}

func (s *Store) index(id string) int {
	for i, b := range s.bookmarks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// save persists next and makes it current only when the write succeeds. Callers hold
// the lock.
func (s *Store) save(ctx context.Context, next []*Bookmark) error {
	if next == nil {
		next = []*Bookmark{}
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err := s.kv.Set(ctx, storeKey, raw); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	s.bookmarks = next
	return nil
}
