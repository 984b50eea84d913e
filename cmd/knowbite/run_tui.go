package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/knowbite/internal/logging"
	"github.com/ShayCichocki/knowbite/internal/progress"
	"github.com/ShayCichocki/knowbite/internal/submit"
	"github.com/ShayCichocki/knowbite/internal/tui"
)

type submitFunc func(ctx context.Context) (submit.Result, error)

type submitOutcome struct {
	res submit.Result
	err error
}

// runSubmission runs fn behind the loading overlay. In plain mode the page
// drives the status line directly; otherwise the TUI owns the terminal until
// fn returns or the user cancels.
func (s *session) runSubmission(ctx context.Context, title string, mode progress.Mode, fn submitFunc) (submit.Result, error) {
	if s.line != nil {
		return fn(ctx)
	}

	model := tui.NewLoading(tui.Options{
		Page:        s.page,
		Widgets:     s.widgets,
		Mode:        mode,
		Title:       title,
		RefreshRate: s.cfg.TUI.RefreshRate,
		BarWidth:    s.cfg.TUI.BarWidth,
	})
	return awaitSubmission(ctx, tea.NewProgram(model), fn, s.log)
}

// programRunner is the part of *tea.Program a submission drives.
type programRunner interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// awaitSubmission runs fn in the background while prog owns the terminal.
// If prog exits before fn returns, fn's context is canceled and its outcome
// is awaited so the request never outlives the command.
func awaitSubmission(ctx context.Context, prog programRunner, fn submitFunc, log *logging.DebugLogger) (submit.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan submitOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic in submission: %v", r)
				done <- submitOutcome{err: err}
				prog.Send(tui.DoneMsg{Err: err})
			}
		}()
		res, err := fn(ctx)
		done <- submitOutcome{res: res, err: err}
		prog.Send(tui.DoneMsg{Result: res, Err: err})
	}()

	final, err := prog.Run()
	if err != nil {
		cancel()
		<-done
		return submit.Result{}, fmt.Errorf("run tui: %w", err)
	}

	if m, ok := final.(*tui.Loading); ok && m.Done() {
		return m.Result()
	}

	// The user quit first: abandon the request and wait for it to unwind.
	log.Log("[session] submission canceled by user")
	cancel()
	out := <-done
	return out.res, out.err
}
