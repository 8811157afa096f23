package reader

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hyperjump/vulgata/internal/bible"
	"github.com/hyperjump/vulgata/internal/models"
	"github.com/hyperjump/vulgata/internal/prayers"
)

// manualScheduler records scheduled callbacks so tests can fire them by hand.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	delay    time.Duration
	fn       func()
	canceled bool
}

func (s *manualScheduler) Schedule(delay time.Duration, fn func()) Cancel {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{delay: delay, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() {
		s.mu.Lock()
		task.canceled = true
		s.mu.Unlock()
	}
}

// live returns the scheduled callbacks that were not canceled.
func (s *manualScheduler) live() []*manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*manualTask
	for _, t := range s.tasks {
		if !t.canceled {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the most recent live callback and returns it, or nil when none is pending.
func (s *manualScheduler) fire(t *testing.T) *manualTask {
	t.Helper()
	live := s.live()
	if len(live) == 0 {
		return nil
	}
	task := live[len(live)-1]
	s.mu.Lock()
	task.canceled = true
	s.mu.Unlock()
	task.fn()
	return task
}

type memoryProgress map[string]int

func (m memoryProgress) LoadProgress(key string) (int, error) { return m[key], nil }
func (m memoryProgress) SaveProgress(key string, i int) error { m[key] = i; return nil }

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "verbum"
	}
	return strings.Join(w, " ")
}

func newTestEngine(opts ...Option) (*Engine, *manualScheduler) {
	s := &manualScheduler{}
	return NewEngine(append([]Option{WithScheduler(s)}, opts...)...), s
}

func testBook() *models.Book {
	return &models.Book{
		Name: "Genesis",
		Chapters: []*models.Chapter{
			{Number: 1, Verses: []*models.Verse{
				{Number: 1, Latin: "In principio creavit Deus caelum et terram.", English: "In the beginning God created heaven, and earth."},
				{Number: 2, Latin: "Terra autem erat inanis", English: "And the earth was void"},
			}},
			{Number: 2, Verses: []*models.Verse{
				{Number: 1, Latin: "Igitur perfecti sunt caeli", English: "So the heavens were finished"},
			}},
			{Number: 3, Verses: []*models.Verse{
				{Number: 1, Latin: "Sed et serpens erat callidior", English: "Now the serpent was more subtle"},
			}},
		},
	}
}

func TestEngine_EmptyContent(t *testing.T) {
	e, s := newTestEngine()
	e.LoadText("   ", "empty")
	snap := e.Snapshot()
	if !snap.Empty || snap.Total != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
	e.Play()
	e.SeekTo(0.5)
	e.SkipForward(3)
	e.NextChapter()
	e.PreviousChapter()
	if e.State() != Idle || len(s.live()) != 0 {
		t.Errorf("state = %v, scheduled = %d", e.State(), len(s.live()))
	}
	if e.Progress() != 0 || e.EstimatedRemaining() != 0 {
		t.Error("empty content should report zero progress")
	}
}

func TestEngine_SeekTo(t *testing.T) {
	e, _ := newTestEngine()
	e.LoadText(words(101), "")
	tests := []struct {
		f    float64
		want int
	}{
		{0.5, 50},
		{0, 0},
		{1, 100},
		{-1, 0},
		{2, 100},
		{0.999, 99},
	}
	for _, tt := range tests {
		e.SeekTo(tt.f)
		if got := e.Index(); got != tt.want {
			t.Errorf("SeekTo(%v) = %d, want %d", tt.f, got, tt.want)
		}
	}
	e.SeekTo(0.5)
	if got := e.Progress(); got != 0.5 {
		t.Errorf("Progress = %v, want 0.5", got)
	}
}

func TestEngine_SetWPMClamps(t *testing.T) {
	e, _ := newTestEngine()
	tests := []struct{ in, want int }{
		{5, 10},
		{5000, 999},
		{300, 300},
		{10, 10},
		{999, 999},
	}
	for _, tt := range tests {
		e.SetWPM(tt.in)
		if got := e.WPM(); got != tt.want {
			t.Errorf("SetWPM(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if NewEngine(WithWPM(1)).WPM() != MinWPM {
		t.Error("WithWPM not clamped")
	}
}

func TestEngine_PlayPauseKeepsIndex(t *testing.T) {
	e, s := newTestEngine()
	e.LoadText(words(10), "")
	e.Play()
	if e.State() != Playing {
		t.Fatalf("state = %v", e.State())
	}
	s.fire(t)
	s.fire(t)
	s.fire(t)
	if e.Index() != 3 {
		t.Fatalf("index = %d, want 3", e.Index())
	}
	e.Pause()
	if e.State() != Paused || e.Index() != 3 {
		t.Errorf("after pause: state = %v, index = %d", e.State(), e.Index())
	}
	if len(s.live()) != 0 {
		t.Error("pause left a tick pending")
	}
	e.Play()
	if e.Index() != 3 || e.State() != Playing {
		t.Errorf("after resume: state = %v, index = %d", e.State(), e.Index())
	}
}

func TestEngine_AutoStopsAtEnd(t *testing.T) {
	e, s := newTestEngine()
	e.LoadText(words(3), "")
	e.Play()
	s.fire(t)
	s.fire(t)
	if e.State() != Finished || e.Index() != 2 {
		t.Fatalf("state = %v, index = %d", e.State(), e.Index())
	}
	if len(s.live()) != 0 {
		t.Error("finished engine has a pending tick")
	}

	e.Play()
	if e.State() != Finished {
		t.Errorf("Play when finished changed state to %v", e.State())
	}

	e.SeekTo(0)
	if e.State() != Paused || e.Index() != 0 {
		t.Errorf("seek from finished: state = %v, index = %d", e.State(), e.Index())
	}
}

func TestEngine_SingleWordFinishesAfterOneTick(t *testing.T) {
	e, s := newTestEngine()
	e.LoadText("Amen", "")
	e.Play()
	if s.fire(t) == nil {
		t.Fatal("no tick scheduled")
	}
	if e.State() != Finished || e.Index() != 0 {
		t.Errorf("state = %v, index = %d", e.State(), e.Index())
	}
}

func TestEngine_SetWPMReschedulesOnce(t *testing.T) {
	e, s := newTestEngine(WithPunctuationPause(false))
	e.LoadText(words(10), "")
	e.SetWPM(60)
	e.Play()
	stale := s.live()[0]
	if stale.delay != time.Second {
		t.Errorf("delay = %v, want 1s", stale.delay)
	}

	e.SetWPM(120)
	live := s.live()
	if len(live) != 1 || live[0].delay != 500*time.Millisecond {
		t.Fatalf("live ticks = %d", len(live))
	}

	// A canceled callback that runs anyway must not advance.
	stale.fn()
	if e.Index() != 0 {
		t.Fatalf("stale tick advanced to %d", e.Index())
	}
	s.fire(t)
	if e.Index() != 1 {
		t.Errorf("index = %d, want 1", e.Index())
	}
	if len(s.live()) != 1 {
		t.Errorf("live ticks = %d, want 1", len(s.live()))
	}
}

func TestEngine_PunctuationDelay(t *testing.T) {
	e, s := newTestEngine(WithWPM(60))
	e.LoadText("Fiat lux. Et facta, est", "")
	e.JumpTo(1)
	e.Play()
	if d := s.live()[0].delay; d != 2500*time.Millisecond {
		t.Errorf("sentence delay = %v", d)
	}
	s.fire(t)
	if d := s.live()[0].delay; d != time.Second {
		t.Errorf("plain delay = %v", d)
	}
	s.fire(t)
	if d := s.live()[0].delay; d != 1500*time.Millisecond {
		t.Errorf("comma delay = %v", d)
	}

	e.Pause()
	e.SetPunctuationPause(false)
	e.JumpTo(1)
	e.Play()
	if d := s.live()[0].delay; d != time.Second {
		t.Errorf("delay with pauses off = %v", d)
	}
}

func TestEngine_Navigation(t *testing.T) {
	e, s := newTestEngine()
	e.LoadText(words(30), "")
	e.SkipForward(DefaultSkip)
	if e.Index() != 10 {
		t.Errorf("skip forward = %d", e.Index())
	}
	e.SkipBackward(25)
	if e.Index() != 0 {
		t.Errorf("skip backward = %d", e.Index())
	}
	e.NextWord()
	e.NextWord()
	e.PreviousWord()
	if e.Index() != 1 {
		t.Errorf("word steps = %d", e.Index())
	}
	e.JumpTo(100)
	if e.Index() != 29 {
		t.Errorf("JumpTo clamp = %d", e.Index())
	}
	if e.State() != Idle || len(s.live()) != 0 {
		t.Error("navigation started playback")
	}

	e.JumpTo(0)
	e.Play()
	e.SkipForward(5)
	if e.State() != Playing {
		t.Error("navigation stopped playback")
	}

	e.Reset()
	if e.Index() != 0 || e.State() != Idle || len(s.live()) != 0 {
		t.Errorf("reset: index = %d, state = %v", e.Index(), e.State())
	}
}

func TestEngine_LoadChapter(t *testing.T) {
	e, _ := newTestEngine(WithCatalog(bible.DefaultCatalog()))
	if err := e.LoadChapter(testBook(), 1); err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if snap.Total != 11 || snap.Title != "Genesis 1" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Item.Text != "In" || snap.Item.Verse != 1 || snap.Verse != 1 {
		t.Errorf("first item = %+v", snap.Item)
	}
	e.JumpTo(7)
	if v, ok := e.CurrentVerse(); !ok || v.Number != 2 || v.Start != 7 || v.Count != 4 {
		t.Errorf("verse = %+v, %v", v, ok)
	}
	if items := e.Items(); items[7].Verse != 2 || items[8].Verse != 0 {
		t.Errorf("verse numbers: %+v %+v", items[7], items[8])
	}

	if err := e.LoadChapter(testBook(), 9); !errors.Is(err, ErrChapterNotFound) {
		t.Errorf("err = %v, want ErrChapterNotFound", err)
	}
	if err := e.LoadChapter(nil, 1); !errors.Is(err, ErrNoBook) {
		t.Errorf("err = %v, want ErrNoBook", err)
	}
}

func TestEngine_LoadBookChapters(t *testing.T) {
	e, _ := newTestEngine(WithLanguage(models.English))
	if err := e.LoadBook(testBook(), 2); err != nil {
		t.Fatal(err)
	}
	chapters := e.Chapters()
	if len(chapters) != 3 || chapters[1].Start != 13 || chapters[2].Start != 18 {
		t.Fatalf("chapters = %+v", chapters)
	}
	if m, ok := e.CurrentChapter(); !ok || m.Number != 2 || e.Index() != 13 {
		t.Fatalf("start chapter = %+v, index = %d", m, e.Index())
	}

	e.NextChapter()
	if e.Index() != 18 {
		t.Errorf("next chapter index = %d", e.Index())
	}
	e.NextChapter()
	if e.Index() != 18 {
		t.Errorf("next chapter past end moved to %d", e.Index())
	}

	// At the chapter start, go back a chapter.
	e.PreviousChapter()
	if e.Index() != 13 {
		t.Errorf("previous chapter index = %d", e.Index())
	}
	// More than 5% in, restart the current chapter.
	e.JumpTo(15)
	if p := e.ChapterProgress(); p != 0.4 {
		t.Errorf("chapter progress = %v", p)
	}
	e.PreviousChapter()
	if e.Index() != 13 {
		t.Errorf("restart chapter index = %d", e.Index())
	}

	e.JumpToChapter(0)
	e.PreviousChapter()
	if e.Index() != 0 {
		t.Errorf("previous from first chapter moved to %d", e.Index())
	}
}

func TestEngine_SetLanguageReloads(t *testing.T) {
	e, _ := newTestEngine()
	if err := e.LoadBook(testBook(), 3); err != nil {
		t.Fatal(err)
	}
	if e.Snapshot().Item.Text != "Sed" {
		t.Fatalf("latin item = %+v", e.Snapshot().Item)
	}
	e.SetLanguage(models.English)
	snap := e.Snapshot()
	if snap.Language != models.English || snap.Item.Text != "Now" || snap.Chapter != 3 {
		t.Errorf("after language change: %+v", snap)
	}
}

func TestEngine_ProgressRestore(t *testing.T) {
	store := memoryProgress{}
	e, s := newTestEngine(WithProgressStore(store))
	if err := e.LoadChapter(testBook(), 1); err != nil {
		t.Fatal(err)
	}
	e.Play()
	s.fire(t)
	s.fire(t)
	e.Pause()
	key := ChapterProgressKey("Genesis", 1)
	if key != "reader/progress/bible/Genesis/1" || store[key] != 2 {
		t.Fatalf("saved %v", store)
	}

	e2, _ := newTestEngine(WithProgressStore(store))
	if err := e2.LoadChapter(testBook(), 1); err != nil {
		t.Fatal(err)
	}
	if e2.Index() != 2 || e2.State() != Idle {
		t.Errorf("restored index = %d, state = %v", e2.Index(), e2.State())
	}

	store[key] = 500
	if err := e2.LoadChapter(testBook(), 1); err != nil {
		t.Fatal(err)
	}
	if e2.Index() != 0 {
		t.Errorf("out-of-range progress restored to %d", e2.Index())
	}
}

func TestEngine_Prayers(t *testing.T) {
	store := memoryProgress{}
	p := &prayers.Prayer{
		Title:        "Angelus",
		Latin:        "Angelus Domini nuntiavit Mariae",
		English:      "The Angel of the Lord declared unto Mary",
		Instructions: "Versicle and response",
	}
	e, _ := newTestEngine(WithLanguage(models.Spanish), WithProgressStore(store))
	e.LoadPrayer(p)
	items := e.Items()
	if len(items) != 11 || !items[0].Instruction || items[3].Instruction || items[3].Text != "The" {
		t.Fatalf("items = %+v", items)
	}
	e.JumpTo(4)
	e.Pause()
	if store[PrayerProgressKey("angelus")] != 4 {
		t.Errorf("progress = %v", store)
	}

	e.LoadPrayers([]*prayers.Prayer{p, p}, "Two")
	if e.Len() != 22 || e.Snapshot().Title != "Two" || e.Index() != 0 {
		t.Errorf("prayer list: len = %d, snapshot = %+v", e.Len(), e.Snapshot())
	}
}

func TestEngine_ListenerAndRemaining(t *testing.T) {
	var snaps []Snapshot
	e, s := newTestEngine(WithWPM(60), WithListener(func(sn Snapshot) { snaps = append(snaps, sn) }))
	e.LoadText(words(5), "t")
	if got := e.EstimatedRemaining(); got != 5*time.Second {
		t.Errorf("remaining = %v", got)
	}
	e.Play()
	s.fire(t)
	if len(snaps) != 3 {
		t.Fatalf("listener called %d times", len(snaps))
	}
	last := snaps[len(snaps)-1]
	if last.Index != 1 || last.State != Playing || last.Remaining != 4*time.Second {
		t.Errorf("last snapshot = %+v", last)
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Playing: "playing", Paused: "paused", Finished: "finished"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q", s, s.String())
		}
	}
}
