package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hyperjump/vulgata/internal/reader"
	"github.com/mattn/go-isatty"
)

const (
	ansiClearLine = "\r\033[K"
	ansiFocus     = "\033[1;31m"
	ansiReset     = "\033[0m"
)

// Renderer draws speed reader snapshots on a single terminal line.
// Render is safe to call from the engine's timer goroutine.
type Renderer struct {
	mu     sync.Mutex
	w      io.Writer
	color  bool
	column int
	done   chan struct{}
	closed bool
}

// NewRenderer creates a renderer writing to w. Colour and line rewriting are enabled
// only when w is a terminal.
func NewRenderer(w io.Writer) *Renderer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{w: w, color: color, column: 12, done: make(chan struct{})}
}

// Done is closed when the reader finishes or has no content.
func (r *Renderer) Done() <-chan struct{} {
	return r.done
}

// Render draws s. It is meant to be passed to reader.WithListener.
func (r *Renderer) Render(s reader.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if s.Empty {
		fmt.Fprintln(r.w, "No content to read.")
		r.finish()
		return
	}
	line := FormatWord(s.Item.Word, r.column, r.color) + "  " + status(s)
	if r.color {
		fmt.Fprint(r.w, ansiClearLine+line)
	} else {
		fmt.Fprintln(r.w, line)
	}
	if s.State == reader.Finished {
		if r.color {
			fmt.Fprintln(r.w)
		}
		fmt.Fprintf(r.w, "Finished %s.\n", s.Title)
		r.finish()
	}
}

func (r *Renderer) finish() {
	r.closed = true
	close(r.done)
}

func status(s reader.Snapshot) string {
	var b strings.Builder
	if s.Verse > 0 {
		fmt.Fprintf(&b, "%d:%d  ", s.Chapter, s.Verse)
	}
	fmt.Fprintf(&b, "%3.0f%%  %d wpm", s.Progress*100, s.WPM)
	if s.State != reader.Playing {
		fmt.Fprintf(&b, "  [%s]", s.State)
	}
	return b.String()
}

// FormatWord pads w so its focus letter lands on column. The focus letter is
// highlighted when color is set and bracketed otherwise.
func FormatWord(w reader.Word, column int, color bool) string {
	before := w.Before()
	pad := column - utf8.RuneCountInString(before)
	if pad < 0 {
		pad = 0
	}
	letter := "[" + w.Letter() + "]"
	if color {
		letter = ansiFocus + w.Letter() + ansiReset
	} else {
		pad--
	}
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + before + letter + w.After()
}
