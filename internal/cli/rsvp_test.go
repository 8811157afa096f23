package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hyperjump/vulgata/internal/reader"
)

func TestFormatWord(t *testing.T) {
	tests := []struct {
		word  string
		color bool
		want  string
	}{
		{"principio", false, "   pr[i]ncipio"},
		{"a", false, "     [a]"},
		{"lux", true, "     l" + ansiFocus + "u" + ansiReset + "x"},
	}
	for _, tt := range tests {
		if got := FormatWord(reader.NewWord(tt.word), 6, tt.color); got != tt.want {
			t.Errorf("FormatWord(%q, %v) = %q, want %q", tt.word, tt.color, got, tt.want)
		}
	}
}

func TestFormatWord_alignsFocus(t *testing.T) {
	short := FormatWord(reader.NewWord("et"), 10, false)
	long := FormatWord(reader.NewWord("benedictionem"), 10, false)
	if strings.Index(short, "[") != strings.Index(long, "[") {
		t.Errorf("focus letters misaligned:\n%q\n%q", short, long)
	}
}

func TestRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(reader.Snapshot{State: reader.Playing, Item: reader.Item{Word: reader.NewWord("Deus")}, Chapter: 1, Verse: 1, WPM: 250, Progress: 0.5})
	if out := buf.String(); !strings.Contains(out, "D[e]us") || !strings.Contains(out, "1:1") || !strings.Contains(out, "50%") {
		t.Errorf("playing line = %q", out)
	}
	select {
	case <-r.Done():
		t.Fatal("done before finish")
	default:
	}

	r.Render(reader.Snapshot{Title: "Genesis 1", State: reader.Finished, Item: reader.Item{Word: reader.NewWord("terram.")}, Progress: 1})
	if !strings.Contains(buf.String(), "Finished Genesis 1.") {
		t.Errorf("finish output = %q", buf.String())
	}
	<-r.Done()

	before := buf.Len()
	r.Render(reader.Snapshot{State: reader.Paused})
	if buf.Len() != before {
		t.Error("rendered after finish")
	}
}

func TestRenderer_empty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Render(reader.Snapshot{Empty: true})
	<-r.Done()
	if !strings.Contains(buf.String(), "No content") {
		t.Errorf("empty output = %q", buf.String())
	}
}
