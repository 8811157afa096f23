package reader

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/models"
	"github.com/hyperjump/vulgata/internal/prayers"
	"go.uber.org/zap"
)

const (
	MinWPM     = 10
	MaxWPM     = 999
	DefaultWPM = 250

	// DefaultSkip is the number of words SkipForward and SkipBackward move by default.
	DefaultSkip = 10

	// restartThreshold is the chapter progress above which PreviousChapter restarts the
	// current chapter instead of moving to the previous one.
	restartThreshold = 0.05
)

var (
	ErrNoBook          = errors.New("no book to read")
	ErrChapterNotFound = errors.New("chapter not found")
)

// State is the playback state of an Engine.
type State int

const (
	Idle State = iota
	Playing
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ClampWPM bounds wpm to [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	return max(MinWPM, min(wpm, MaxWPM))
}

// ProgressStore persists the reading position per content key.
type ProgressStore interface {
	LoadProgress(key string) (int, error)
	SaveProgress(key string, index int) error
}

// Snapshot is a consistent view of the engine state.
type Snapshot struct {
	Title           string          `json:"title"`
	Language        models.Language `json:"language"`
	State           State           `json:"state"`
	Index           int             `json:"index"`
	Total           int             `json:"total"`
	Item            Item            `json:"item"`
	Book            string          `json:"book,omitempty"`
	Chapter         int             `json:"chapter,omitempty"`
	Verse           int             `json:"verse,omitempty"`
	WPM             int             `json:"wpm"`
	Progress        float64         `json:"progress"`
	ChapterProgress float64         `json:"chapter_progress"`
	Remaining       time.Duration   `json:"remaining"`
	// Empty reports that there is nothing to read.
	Empty bool `json:"empty"`
}

// sourceKind records what was loaded so a language change can reload it.
type sourceKind int

const (
	sourceText sourceKind = iota
	sourceChapter
	sourceBook
	sourcePrayer
	sourcePrayers
)

type source struct {
	kind    sourceKind
	book    *models.Book
	chapter int
	prayers []*prayers.Prayer
}

// Engine paces a sequence of words. It never owns a timer: ticks are requested from its
// Scheduler, and at most one tick is pending at any time.
type Engine struct {
	scheduler   Scheduler
	progress    ProgressStore
	catalog     *bible.Catalog
	listener    func(Snapshot)
	logger      *zap.Logger
	mu          sync.Mutex
	items       []Item
	index       int
	state       State
	wpm         int
	punctuation bool
	language    models.Language
	title       string
	chapters    []ChapterMarker
	verses      []VerseMarker
	key         string
	src         source
	pending     Cancel
	generation  uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the tick scheduler. The default is TimerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithProgressStore enables saving and restoring positions.
func WithProgressStore(p ProgressStore) Option {
	return func(e *Engine) { e.progress = p }
}

// WithCatalog sets the catalog used for display titles.
func WithCatalog(c *bible.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithListener sets a callback invoked with a snapshot after every state change.
// It runs without the engine lock held.
func WithListener(fn func(Snapshot)) Option {
	return func(e *Engine) { e.listener = fn }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWPM sets the initial speed.
func WithWPM(wpm int) Option {
	return func(e *Engine) { e.wpm = ClampWPM(wpm) }
}

// WithPunctuationPause toggles longer pauses after punctuation.
func WithPunctuationPause(on bool) Option {
	return func(e *Engine) { e.punctuation = on }
}

// WithLanguage sets the language Bible and prayer content is read in.
func WithLanguage(lang models.Language) Option {
	return func(e *Engine) { e.language = lang }
}

// NewEngine creates an idle engine with no content.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		scheduler:   TimerScheduler{},
		wpm:         DefaultWPM,
		punctuation: true,
		language:    models.Latin,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// LoadText loads free text.
func (e *Engine) LoadText(text, title string) {
	e.mu.Lock()
	e.load(textItems(text), title, nil, nil, "", source{kind: sourceText})
	e.mu.Unlock()
	e.notify()
}

// LoadChapter loads one chapter of book and restores its saved position.
func (e *Engine) LoadChapter(book *models.Book, chapter int) error {
	if book == nil {
		return ErrNoBook
	}
	ch := book.Chapter(chapter)
	if ch == nil {
		return fmt.Errorf("%w: %s %d", ErrChapterNotFound, book.Name, chapter)
	}
	e.mu.Lock()
	items, verses := ChapterItems(ch, e.language, 0)
	chapters := []ChapterMarker{{Book: book.Name, Number: ch.Number, Start: 0, Count: len(items)}}
	title := fmt.Sprintf("%s %d", e.displayName(book.Name), ch.Number)
	e.load(items, title, chapters, verses, ChapterProgressKey(book.Name, ch.Number),
		source{kind: sourceChapter, book: book, chapter: ch.Number})
	e.mu.Unlock()
	e.notify()
	return nil
}

// LoadBook loads every chapter of book for continuous reading, positioned at the start of
// startChapter (or the beginning when that chapter does not exist).
func (e *Engine) LoadBook(book *models.Book, startChapter int) error {
	if book == nil {
		return ErrNoBook
	}
	e.mu.Lock()
	e.loadBook(book, startChapter)
	e.mu.Unlock()
	e.notify()
	return nil
}

func (e *Engine) loadBook(book *models.Book, startChapter int) {
	var items []Item
	var chapters []ChapterMarker
	var verses []VerseMarker
	for _, ch := range book.Chapters {
		chItems, chVerses := ChapterItems(ch, e.language, len(items))
		chapters = append(chapters, ChapterMarker{Book: book.Name, Number: ch.Number, Start: len(items), Count: len(chItems)})
		verses = append(verses, chVerses...)
		items = append(items, chItems...)
	}
	e.load(items, e.displayName(book.Name), chapters, verses, "",
		source{kind: sourceBook, book: book, chapter: startChapter})
	for _, m := range chapters {
		if m.Number == startChapter && m.Start < len(items) {
			e.index = m.Start
			break
		}
	}
}

// LoadPrayer loads a prayer and restores its saved position.
func (e *Engine) LoadPrayer(p *prayers.Prayer) {
	e.mu.Lock()
	e.load(PrayerItems(p, e.language), p.DisplayTitle(e.language), nil, nil, PrayerProgressKey(p.ID()),
		source{kind: sourcePrayer, prayers: []*prayers.Prayer{p}})
	e.mu.Unlock()
	e.notify()
}

// LoadPrayers loads several prayers back to back under one title.
func (e *Engine) LoadPrayers(ps []*prayers.Prayer, title string) {
	e.mu.Lock()
	e.loadPrayers(ps, title)
	e.mu.Unlock()
	e.notify()
}

func (e *Engine) loadPrayers(ps []*prayers.Prayer, title string) {
	var items []Item
	for _, p := range ps {
		items = append(items, PrayerItems(p, e.language)...)
	}
	e.load(items, title, nil, nil, "", source{kind: sourcePrayers, prayers: ps})
}

// load replaces the content. Callers hold the lock.
func (e *Engine) load(items []Item, title string, chapters []ChapterMarker, verses []VerseMarker, key string, src source) {
	e.stop()
	e.items = items
	e.title = title
	e.chapters = chapters
	e.verses = verses
	e.key = key
	e.src = src
	e.state = Idle
	e.index = e.restore()
	e.logger.Debug("reader content loaded",
		zap.String("title", title),
		zap.Int("words", len(items)),
		zap.Int("start", e.index))
}

// SetLanguage switches the reading language and reloads Bible or prayer content in it.
func (e *Engine) SetLanguage(lang models.Language) {
	e.mu.Lock()
	e.language = lang
	src := e.src
	switch src.kind {
	case sourceChapter:
		e.mu.Unlock()
		_ = e.LoadChapter(src.book, src.chapter)
		return
	case sourceBook:
		start := src.chapter
		if m, ok := e.currentChapter(); ok {
			start = m.Number
		}
		e.loadBook(src.book, start)
	case sourcePrayer:
		e.mu.Unlock()
		e.LoadPrayer(src.prayers[0])
		return
	case sourcePrayers:
		e.loadPrayers(src.prayers, e.title)
	}
	e.mu.Unlock()
	e.notify()
}

// Play starts or resumes playback. It does nothing when there is no content, when
// already playing, or when finished.
func (e *Engine) Play() {
	e.mu.Lock()
	if len(e.items) == 0 || e.state == Playing || e.state == Finished || e.index >= len(e.items) {
		e.mu.Unlock()
		return
	}
	e.state = Playing
	e.schedule()
	e.mu.Unlock()
	e.notify()
}

// Pause stops playback, keeping the position, and saves progress.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state == Playing {
		e.stop()
		e.state = Paused
	}
	e.save()
	e.mu.Unlock()
	e.notify()
}

// Toggle switches between playing and paused.
func (e *Engine) Toggle() {
	e.mu.Lock()
	playing := e.state == Playing
	e.mu.Unlock()
	if playing {
		e.Pause()
	} else {
		e.Play()
	}
}

// Reset returns to the first word and the idle state.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.stop()
	e.index = 0
	e.state = Idle
	e.save()
	e.mu.Unlock()
	e.notify()
}

// Close cancels any pending tick and saves progress.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stop()
	if e.state == Playing {
		e.state = Paused
	}
	e.save()
	e.mu.Unlock()
}

// SetWPM sets the speed, clamped to [MinWPM, MaxWPM]. While playing, the pending tick is
// replaced by one at the new speed.
func (e *Engine) SetWPM(wpm int) {
	e.mu.Lock()
	e.wpm = ClampWPM(wpm)
	if e.state == Playing {
		e.schedule()
	}
	e.mu.Unlock()
	e.notify()
}

// WPM returns the current speed.
func (e *Engine) WPM() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wpm
}

// SetPunctuationPause toggles longer pauses after punctuation.
func (e *Engine) SetPunctuationPause(on bool) {
	e.mu.Lock()
	e.punctuation = on
	e.mu.Unlock()
}

// SeekTo moves to fraction f of the content, where 0 is the first word and 1 the last.
func (e *Engine) SeekTo(f float64) {
	e.move(func(n int) int { return int(float64(n-1) * f) })
}

// JumpTo moves to word index i.
func (e *Engine) JumpTo(i int) {
	e.move(func(int) int { return i })
}

// SkipForward moves n words ahead.
func (e *Engine) SkipForward(n int) {
	e.move(func(int) int { return e.index + n })
}

// SkipBackward moves n words back.
func (e *Engine) SkipBackward(n int) {
	e.move(func(int) int { return e.index - n })
}

// NextWord moves one word ahead.
func (e *Engine) NextWord() { e.SkipForward(1) }

// PreviousWord moves one word back.
func (e *Engine) PreviousWord() { e.SkipBackward(1) }

// JumpToChapter moves to the start of the chapter at marker index i.
func (e *Engine) JumpToChapter(i int) {
	e.mu.Lock()
	if i < 0 || i >= len(e.chapters) {
		e.mu.Unlock()
		return
	}
	start := e.chapters[i].Start
	e.mu.Unlock()
	e.JumpTo(start)
}

// NextChapter moves to the start of the following chapter, if any.
func (e *Engine) NextChapter() {
	e.mu.Lock()
	i := e.chapterIndex()
	e.mu.Unlock()
	e.JumpToChapter(i + 1)
}

// PreviousChapter restarts the current chapter when more than 5% into it, otherwise
// moves to the start of the previous chapter.
func (e *Engine) PreviousChapter() {
	e.mu.Lock()
	i := e.chapterIndex()
	restart := e.chapterProgress() > restartThreshold
	e.mu.Unlock()
	if restart {
		e.JumpToChapter(i)
		return
	}
	e.JumpToChapter(i - 1)
}

// move repositions to the clamped index computed by target. Playback is neither started
// nor stopped, except that a finished engine becomes paused.
func (e *Engine) move(target func(n int) int) {
	e.mu.Lock()
	n := len(e.items)
	if n == 0 {
		e.mu.Unlock()
		return
	}
	e.index = max(0, min(target(n), n-1))
	if e.state == Finished {
		e.state = Paused
	}
	e.mu.Unlock()
	e.notify()
}

// schedule replaces the pending tick with one for the current word. Callers hold the lock.
func (e *Engine) schedule() {
	e.stop()
	gen := e.generation
	e.pending = e.scheduler.Schedule(e.delay(), func() { e.tick(gen) })
}

// stop cancels the pending tick. The generation bump makes a callback that already
// started a no-op. Callers hold the lock.
func (e *Engine) stop() {
	e.generation++
	if e.pending != nil {
		e.pending()
		e.pending = nil
	}
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if gen != e.generation || e.state != Playing {
		e.mu.Unlock()
		return
	}
	e.pending = nil
	if e.index < len(e.items)-1 {
		e.index++
	}
	if e.index >= len(e.items)-1 {
		e.state = Finished
		e.generation++
		e.save()
	} else {
		e.schedule()
	}
	e.mu.Unlock()
	e.notify()
}

// WordDelay is how long text stays on screen at wpm, lengthened after punctuation when
// punctuation is true.
func WordDelay(text string, wpm int, punctuation bool) time.Duration {
	d := time.Minute / time.Duration(ClampWPM(wpm))
	if punctuation {
		d = time.Duration(float64(d) * pauseFactor(text))
	}
	return d
}

// delay is the display time of the current word. Callers hold the lock.
func (e *Engine) delay() time.Duration {
	if e.index >= len(e.items) {
		return time.Minute / time.Duration(e.wpm)
	}
	return WordDelay(e.items[e.index].Text, e.wpm, e.punctuation)
}

func (e *Engine) save() {
	if e.progress == nil || e.key == "" {
		return
	}
	if err := e.progress.SaveProgress(e.key, e.index); err != nil {
		e.logger.Warn("failed to save reading progress", zap.String("key", e.key), zap.Error(err))
	}
}

func (e *Engine) restore() int {
	if e.progress == nil || e.key == "" {
		return 0
	}
	i, err := e.progress.LoadProgress(e.key)
	if err != nil {
		e.logger.Warn("failed to load reading progress", zap.String("key", e.key), zap.Error(err))
		return 0
	}
	if i > 0 && i < len(e.items) {
		return i
	}
	return 0
}

func (e *Engine) displayName(book string) string {
	if e.catalog == nil {
		return book
	}
	return e.catalog.DisplayName(book)
}

// State returns the playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Index returns the current word index.
func (e *Engine) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Len returns the number of words loaded.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

// Items returns the loaded items.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.items
}

// Chapters returns the chapter markers of the loaded content.
func (e *Engine) Chapters() []ChapterMarker {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chapters
}

// Verses returns the verse markers of the loaded content.
func (e *Engine) Verses() []VerseMarker {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.verses
}

// Progress returns the position as a fraction in [0, 1].
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progressFraction()
}

func (e *Engine) progressFraction() float64 {
	if len(e.items) < 2 {
		return 0
	}
	return float64(e.index) / float64(len(e.items)-1)
}

// CurrentChapter returns the chapter containing the current word.
func (e *Engine) CurrentChapter() (ChapterMarker, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentChapter()
}

func (e *Engine) chapterIndex() int {
	return sort.Search(len(e.chapters), func(i int) bool { return e.chapters[i].Start > e.index }) - 1
}

func (e *Engine) currentChapter() (ChapterMarker, bool) {
	i := e.chapterIndex()
	if i < 0 {
		return ChapterMarker{}, false
	}
	return e.chapters[i], true
}

// CurrentVerse returns the verse containing the current word.
func (e *Engine) CurrentVerse() (VerseMarker, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentVerse()
}

func (e *Engine) currentVerse() (VerseMarker, bool) {
	i := sort.Search(len(e.verses), func(i int) bool { return e.verses[i].Start > e.index }) - 1
	if i < 0 {
		return VerseMarker{}, false
	}
	return e.verses[i], true
}

// ChapterProgress returns the position within the current chapter as a fraction.
func (e *Engine) ChapterProgress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chapterProgress()
}

func (e *Engine) chapterProgress() float64 {
	i := e.chapterIndex()
	if i < 0 {
		return 0
	}
	start := e.chapters[i].Start
	end := len(e.items)
	if i+1 < len(e.chapters) {
		end = e.chapters[i+1].Start
	}
	if end <= start {
		return 0
	}
	return float64(e.index-start) / float64(end-start)
}

// EstimatedRemaining returns the time left at the current speed, ignoring pauses.
func (e *Engine) EstimatedRemaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining()
}

func (e *Engine) remaining() time.Duration {
	left := len(e.items) - e.index
	if left <= 0 {
		return 0
	}
	return time.Duration(left) * time.Minute / time.Duration(e.wpm)
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		Title:    e.title,
		Language: e.language,
		State:    e.state,
		Index:    e.index,
		Total:    len(e.items),
		WPM:      e.wpm,
		Empty:    len(e.items) == 0,
	}
	if s.Empty {
		return s
	}
	s.Item = e.items[e.index]
	s.Progress = e.progressFraction()
	s.ChapterProgress = e.chapterProgress()
	s.Remaining = e.remaining()
	if m, ok := e.currentChapter(); ok {
		s.Book = m.Book
		s.Chapter = m.Number
	}
	if v, ok := e.currentVerse(); ok {
		s.Verse = v.Number
	} else {
		s.Verse = s.Item.Verse
	}
	return s
}

func (e *Engine) notify() {
	if e.listener == nil {
		return
	}
	e.listener(e.Snapshot())
}
