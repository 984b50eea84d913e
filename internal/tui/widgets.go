package tui

import (
	"sync"

	"github.com/ShayCichocki/knowbite/internal/page"
	"github.com/ShayCichocki/knowbite/internal/progress"
)

// Bar is a width sink holding the displayed percentage.
type Bar struct {
	mu      sync.Mutex
	percent int
}

// SetWidth implements progress.WidthSink. Values are clamped to [0, 100].
func (b *Bar) SetWidth(percent int) {
	percent = max(0, min(100, percent))
	b.mu.Lock()
	b.percent = percent
	b.mu.Unlock()
}

// Percent returns the last width written.
func (b *Bar) Percent() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.percent
}

// Label is a text sink holding the status line.
type Label struct {
	mu   sync.Mutex
	text string
}

// SetText implements progress.TextSink.
func (l *Label) SetText(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}

// Text returns the last text written.
func (l *Label) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// Overlay is the show/hide flag of the loading overlay.
type Overlay struct {
	mu      sync.Mutex
	visible bool
}

// Show implements page.Overlay.
func (o *Overlay) Show() {
	o.mu.Lock()
	o.visible = true
	o.mu.Unlock()
}

// Hide implements page.Overlay.
func (o *Overlay) Hide() {
	o.mu.Lock()
	o.visible = false
	o.mu.Unlock()
}

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

// Widgets groups the elements of the loading overlay.
type Widgets struct {
	Bar     *Bar
	Label   *Label
	Overlay *Overlay
}

// Mount creates the overlay widgets and registers them in doc under their
// element ids. The label starts with the idle message.
func Mount(doc *page.Document) *Widgets {
	w := &Widgets{
		Bar:     &Bar{},
		Label:   &Label{text: progress.ResetText},
		Overlay: &Overlay{},
	}
	doc.RegisterWidth(progress.BarID, w.Bar)
	doc.RegisterText(progress.TextID, w.Label)
	doc.RegisterOverlay(page.OverlayID, w.Overlay)
	return w
}
