package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/ShayCichocki/knowbite/internal/page"
	"github.com/ShayCichocki/knowbite/internal/progress"
)

// Line renders the overlay as one status line that is rewritten in place:
//
//	[knowbite] 42% | Extracting transcript...
//
// It implements the bar, the label and the overlay at once.
type Line struct {
	mu      sync.Mutex
	out     io.Writer
	percent int
	text    string
	visible bool
	// width of the last line written, for clearing leftovers.
	lastLen int

	prefix *color.Color
	pct    *color.Color
}

// NewLine creates a Line writing to out.
func NewLine(out io.Writer) *Line {
	return &Line{
		out:    out,
		text:   progress.ResetText,
		prefix: color.New(color.FgCyan, color.Bold),
		pct:    color.New(color.Bold),
	}
}

// Mount registers l in doc under all overlay element ids.
func (l *Line) Mount(doc *page.Document) {
	doc.RegisterWidth(progress.BarID, l)
	doc.RegisterText(progress.TextID, l)
	doc.RegisterOverlay(page.OverlayID, l)
}

// SetWidth implements progress.WidthSink.
func (l *Line) SetWidth(percent int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.percent = max(0, min(100, percent))
	l.renderLocked()
}

// SetText implements progress.TextSink.
func (l *Line) SetText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
	l.renderLocked()
}

// Show implements page.Overlay.
func (l *Line) Show() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = true
	l.renderLocked()
}

// Hide implements page.Overlay. The current line is finished with a newline.
func (l *Line) Hide() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.visible {
		return
	}
	l.visible = false
	fmt.Fprintln(l.out)
	l.lastLen = 0
}

// Finish ends the status line, leaving it on screen.
func (l *Line) Finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastLen > 0 {
		fmt.Fprintln(l.out)
		l.lastLen = 0
	}
}

func (l *Line) renderLocked() {
	if !l.visible {
		return
	}
	plain := fmt.Sprintf("[knowbite] %d%% | %s", l.percent, l.text)
	pad := ""
	if n := l.lastLen - len(plain); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	l.lastLen = len(plain)

	fmt.Fprintf(l.out, "\r%s %s | %s%s",
		l.prefix.Sprint("[knowbite]"),
		l.pct.Sprintf("%d%%", l.percent),
		l.text,
		pad,
	)
}
