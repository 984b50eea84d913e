package page

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ShayCichocki/knowbite/internal/logging"
	"github.com/ShayCichocki/knowbite/internal/progress"
	"github.com/ShayCichocki/knowbite/internal/state"
	"github.com/ShayCichocki/knowbite/internal/submit"
	"github.com/ShayCichocki/knowbite/pkg/models"
)

// Visibility is the host's view of whether the page is still on screen.
type Visibility int

const (
	Visible Visibility = iota
	// Hidden means the page is being replaced by the next one.
	Hidden
)

// Submitter sends a submission to the server. *submit.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req submit.Request) (submit.Result, error)
}

// Options configures a Page.
type Options struct {
	Document  *Document
	Simulator *progress.Simulator
	Submitter Submitter
	// Runs records submission history. Optional.
	Runs   state.RunStore
	Logger *logging.DebugLogger
}

// Page wires the loading overlay, the progress simulator and the submit
// handlers together. Build one per session and share it.
type Page struct {
	doc       *Document
	sim       *progress.Simulator
	submitter Submitter
	runs      state.RunStore
	log       *logging.DebugLogger
}

// New creates a Page.
func New(opts Options) *Page {
	return &Page{
		doc:       opts.Document,
		sim:       opts.Simulator,
		submitter: opts.Submitter,
		runs:      opts.Runs,
		log:       opts.Logger,
	}
}

// Simulator returns the page's progress simulator.
func (p *Page) Simulator() *progress.Simulator {
	return p.sim
}

// ShowLoading shows the loading overlay.
func (p *Page) ShowLoading() {
	if o, ok := p.doc.Overlay(OverlayID); ok {
		o.Show()
		return
	}
	p.log.Log("[page] overlay %s not found", OverlayID)
}

// HideLoading hides the overlay, stops the simulator and resets the bar.
func (p *Page) HideLoading() {
	if o, ok := p.doc.Overlay(OverlayID); ok {
		o.Hide()
	}
	p.sim.Stop()
	p.ResetProgress()
}

// ResetProgress puts the bar back to 0% with the idle message.
func (p *Page) ResetProgress() {
	p.render(0, progress.ResetText)
}

// VisibilityChanged handles the page being replaced. On Hidden the bar is
// forced to 100% with the loading message and the simulator stops; the
// overlay stays up until the next view takes over.
func (p *Page) VisibilityChanged(v Visibility) {
	if v != Hidden {
		return
	}
	p.sim.Stop()
	p.render(100, progress.LoadingText)
}

// StartProgress shows the overlay and starts the simulator in mode.
// It reports whether the indicator is rendering.
func (p *Page) StartProgress(mode progress.Mode) bool {
	p.ShowLoading()
	return p.sim.Start(mode)
}

// SubmitYouTube validates link and submits it with the YouTube progress
// schedule. Invalid links are rejected before anything is shown.
func (p *Page) SubmitYouTube(ctx context.Context, link string) (submit.Result, error) {
	link = strings.TrimSpace(link)
	if err := ValidateYouTubeURL(link); err != nil {
		return submit.Result{}, err
	}

	return p.run(ctx, progress.ModeYouTube, models.FileTypeYouTube, link, submit.Request{
		FileType:    string(models.FileTypeYouTube),
		YouTubeLink: link,
	})
}

// SubmitUpload validates and uploads a pdf or audio file with the upload
// progress schedule.
func (p *Page) SubmitUpload(ctx context.Context, fileType models.FileType, path string) (submit.Result, error) {
	if err := ValidateUpload(fileType, path); err != nil {
		return submit.Result{}, err
	}

	return p.run(ctx, progress.ModeUpload, fileType, path, submit.Request{
		FileType: string(fileType),
		FilePath: path,
	})
}

func (p *Page) run(ctx context.Context, mode progress.Mode, fileType models.FileType, source string, req submit.Request) (submit.Result, error) {
	rec := &models.Run{Mode: string(mode), FileType: fileType, Source: source}
	if p.runs != nil {
		if err := p.runs.CreateRun(rec); err != nil {
			// History is best effort; never block the submission on it.
			p.log.Log("[page] record run: %v", err)
			rec.ID = ""
		}
	}

	if !p.StartProgress(mode) {
		p.log.Log("[page] submitting %s without progress indicator", fileType)
	}

	res, err := p.submitter.Submit(ctx, req)
	last := p.sim.Snapshot().Percent

	if err != nil {
		p.HideLoading()
		outcome := models.RunOutcomeFailed
		if errors.Is(err, context.Canceled) {
			outcome = models.RunOutcomeCanceled
		}
		p.finish(rec, outcome, last, "", err.Error())
		p.log.Event("submission failed", "mode", string(mode), "source", source, "last_percent", last, "error", err)
		return submit.Result{}, fmt.Errorf("submit %s: %w", fileType, err)
	}

	p.VisibilityChanged(Hidden)
	p.finish(rec, models.RunOutcomeNavigated, last, res.Location, "")
	p.log.Event("submission accepted", "mode", string(mode), "source", source, "last_percent", last, "location", res.Location)
	return res, nil
}

func (p *Page) finish(rec *models.Run, outcome models.RunOutcome, last int, location, errMsg string) {
	if p.runs == nil || rec.ID == "" {
		return
	}
	if err := p.runs.FinishRun(rec.ID, outcome, last, location, errMsg); err != nil {
		p.log.Log("[page] finish run %s: %v", rec.ID, err)
	}
}

// render writes directly to the sinks, outside the simulated schedule.
func (p *Page) render(percent int, text string) {
	if bar, ok := p.doc.WidthSink(progress.BarID); ok {
		bar.SetWidth(percent)
	}
	if label, ok := p.doc.TextSink(progress.TextID); ok {
		label.SetText(text)
	}
}
