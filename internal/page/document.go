// Package page hosts the loading indicator the way the dashboard page does:
// a document of sinks addressed by element id, an overlay toggle, and the
// submit handlers that start the simulator and force it to completion when
// the server answers.
package page

import (
	"sync"

	"github.com/ShayCichocki/knowbite/internal/progress"
)

// OverlayID is the element id of the loading overlay.
const OverlayID = "loading-overlay"

// Overlay is a show/hide toggle.
type Overlay interface {
	Show()
	Hide()
}

// Document is a registry of UI elements keyed by element id.
// It implements progress.SinkResolver.
type Document struct {
	mu       sync.RWMutex
	widths   map[string]progress.WidthSink
	texts    map[string]progress.TextSink
	overlays map[string]Overlay
}

var _ progress.SinkResolver = (*Document)(nil)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		widths:   make(map[string]progress.WidthSink),
		texts:    make(map[string]progress.TextSink),
		overlays: make(map[string]Overlay),
	}
}

// RegisterWidth mounts a width sink under id.
func (d *Document) RegisterWidth(id string, s progress.WidthSink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.widths[id] = s
}

// RegisterText mounts a text sink under id.
func (d *Document) RegisterText(id string, s progress.TextSink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts[id] = s
}

// RegisterOverlay mounts an overlay under id.
func (d *Document) RegisterOverlay(id string, o Overlay) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.overlays[id] = o
}

// Remove unmounts every element registered under id.
func (d *Document) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.widths, id)
	delete(d.texts, id)
	delete(d.overlays, id)
}

// WidthSink implements progress.SinkResolver.
func (d *Document) WidthSink(id string) (progress.WidthSink, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.widths[id]
	return s, ok
}

// TextSink implements progress.SinkResolver.
func (d *Document) TextSink(id string) (progress.TextSink, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.texts[id]
	return s, ok
}

// Overlay returns the overlay registered under id.
func (d *Document) Overlay(id string) (Overlay, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	o, ok := d.overlays[id]
	return o, ok
}
