// Package tui renders knowbite's loading overlay in the terminal.
//
// The simulator and the page write to plain, mutex-guarded widgets
// (Bar, Label, Overlay). The bubbletea model polls those widgets every
// refresh interval instead of receiving messages, so a sink write can never
// block on the event loop:
//
//	doc := page.NewDocument()
//	w := tui.Mount(doc)
//	sim := progress.NewSimulator(progress.Options{Sinks: doc})
//	pg := page.New(page.Options{Document: doc, Simulator: sim})
//
//	m := tui.NewLoading(tui.Options{Page: pg, Widgets: w, Mode: progress.ModeYouTube})
//	program := tea.NewProgram(m)
//
//	// When the submission returns
//	program.Send(tui.DoneMsg{Result: res, Err: err})
//
// For pipes and dumb terminals, Line renders the same widgets as a single
// rewritten status line.
package tui
