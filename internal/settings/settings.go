// Package settings stores user preferences and reading progress in a key-value store.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hyperjump/vulgata/internal/config"
	"github.com/hyperjump/vulgata/internal/models"
	"github.com/hyperjump/vulgata/internal/reader"
	"github.com/hyperjump/vulgata/internal/storage"
)

const (
	keyWPM         = "settings/reader/wpm"
	keyPunctuation = "settings/reader/punctuation_pause"
	keyLanguage    = "settings/reader/language"
	keyDisplayMode = "settings/display_mode"
)

// ErrInvalidDisplayMode is returned when a display mode is not latin, english or bilingual.
var ErrInvalidDisplayMode = errors.New("invalid display mode")

// Settings are the user preferences.
type Settings struct {
	WPM              int                `json:"wpm"`
	PunctuationPause bool               `json:"punctuation_pause"`
	Language         models.Language    `json:"language"`
	DisplayMode      models.DisplayMode `json:"display_mode"`
}

// Defaults derives the initial settings from the reader configuration.
func Defaults(cfg *config.ReaderConfig) Settings {
	s := Settings{
		WPM:              reader.DefaultWPM,
		PunctuationPause: true,
		Language:         models.Latin,
		DisplayMode:      models.DisplayBilingual,
	}
	if cfg == nil {
		return s
	}
	if cfg.DefaultWPM != 0 {
		s.WPM = reader.ClampWPM(cfg.DefaultWPM)
	}
	s.PunctuationPause = cfg.PunctuationPauseOrDefault()
	if lang, err := models.ParseLanguage(cfg.Language); err == nil {
		s.Language = lang
	}
	return s
}

// Store reads and writes settings. Values that were never saved read as the defaults.
type Store struct {
	kv       storage.KeyValueStore
	defaults Settings
}

// NewStore creates a Store over kv.
func NewStore(kv storage.KeyValueStore, defaults Settings) *Store {
	return &Store{kv: kv, defaults: defaults}
}

// Get returns every setting.
func (s *Store) Get(ctx context.Context) (Settings, error) {
	var out Settings
	var err error
	if out.WPM, err = s.WPM(ctx); err != nil {
		return out, err
	}
	if out.PunctuationPause, err = s.PunctuationPause(ctx); err != nil {
		return out, err
	}
	if out.Language, err = s.Language(ctx); err != nil {
		return out, err
	}
	if out.DisplayMode, err = s.DisplayMode(ctx); err != nil {
		return out, err
	}
	return out, nil
}

// Update validates and saves every setting at once. WPM is clamped.
func (s *Store) Update(ctx context.Context, v Settings) (Settings, error) {
	v.WPM = reader.ClampWPM(v.WPM)
	lang, err := models.ParseLanguage(string(v.Language))
	if err != nil {
		return v, err
	}
	v.Language = lang
	if !v.DisplayMode.Valid() {
		return v, fmt.Errorf("%w: %q", ErrInvalidDisplayMode, v.DisplayMode)
	}
	err = s.kv.SetMany(ctx, map[string][]byte{
		keyWPM:         []byte(strconv.Itoa(v.WPM)),
		keyPunctuation: []byte(strconv.FormatBool(v.PunctuationPause)),
		keyLanguage:    []byte(v.Language),
		keyDisplayMode: []byte(v.DisplayMode),
	})
	if err != nil {
		return v, fmt.Errorf("failed to save settings: %w", err)
	}
	return v, nil
}

// WPM returns the saved reading speed.
func (s *Store) WPM(ctx context.Context) (int, error) {
	raw, ok, err := s.get(ctx, keyWPM)
	if err != nil || !ok {
		return s.defaults.WPM, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return s.defaults.WPM, nil
	}
	return reader.ClampWPM(n), nil
}

// SetWPM saves the reading speed clamped to the reader bounds and returns the saved value.
func (s *Store) SetWPM(ctx context.Context, wpm int) (int, error) {
	wpm = reader.ClampWPM(wpm)
	return wpm, s.kv.Set(ctx, keyWPM, []byte(strconv.Itoa(wpm)))
}

// PunctuationPause reports whether the reader pauses longer after punctuation.
func (s *Store) PunctuationPause(ctx context.Context) (bool, error) {
	raw, ok, err := s.get(ctx, keyPunctuation)
	if err != nil || !ok {
		return s.defaults.PunctuationPause, err
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return s.defaults.PunctuationPause, nil
	}
	return b, nil
}

// SetPunctuationPause saves the punctuation pause toggle.
func (s *Store) SetPunctuationPause(ctx context.Context, on bool) error {
	return s.kv.Set(ctx, keyPunctuation, []byte(strconv.FormatBool(on)))
}

// Language returns the saved reading language.
func (s *Store) Language(ctx context.Context) (models.Language, error) {
	raw, ok, err := s.get(ctx, keyLanguage)
	if err != nil || !ok {
		return s.defaults.Language, err
	}
	lang, err := models.ParseLanguage(raw)
	if err != nil {
		return s.defaults.Language, nil
	}
	return lang, nil
}

// SetLanguage saves the reading language.
func (s *Store) SetLanguage(ctx context.Context, lang models.Language) error {
	if _, err := models.ParseLanguage(string(lang)); err != nil {
		return err
	}
	return s.kv.Set(ctx, keyLanguage, []byte(lang))
}

// DisplayMode returns the saved display mode.
func (s *Store) DisplayMode(ctx context.Context) (models.DisplayMode, error) {
	raw, ok, err := s.get(ctx, keyDisplayMode)
	if err != nil || !ok {
		return s.defaults.DisplayMode, err
	}
	if m := models.DisplayMode(raw); m.Valid() {
		return m, nil
	}
	return s.defaults.DisplayMode, nil
}

// SetDisplayMode saves the display mode.
func (s *Store) SetDisplayMode(ctx context.Context, m models.DisplayMode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDisplayMode, m)
	}
	return s.kv.Set(ctx, keyDisplayMode, []byte(m))
}

// LoadProgress returns the saved word index for key, or 0 when none was saved.
func (s *Store) LoadProgress(key string) (int, error) {
	raw, ok, err := s.get(context.Background(), key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid progress for %s: %w", key, err)
	}
	return n, nil
}

// SaveProgress saves the word index for key.
func (s *Store) SaveProgress(key string, index int) error {
	return s.kv.Set(context.Background(), key, []byte(strconv.Itoa(index)))
}

// ProgressKeys lists every key that has saved progress.
func (s *Store) ProgressKeys(ctx context.Context) ([]string, error) {
	return s.kv.Keys(ctx, "reader/progress/")
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(raw), true, nil
}

var _ reader.ProgressStore = (*Store)(nil)
