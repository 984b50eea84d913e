// Package progress drives a synthetic progress indicator for operations whose
// real completion is unknown, such as a form submission that ends in a page
// navigation.
//
// A Simulator owns at most one repeating tick. Each tick advances a
// completion value with a random increment (fast below 20%, slow above 80%,
// capped at 99%) and writes the floored percentage and a mode-specific status
// message to two sinks resolved by element id.
//
// # Usage
//
//	sim := progress.NewSimulator(progress.Options{
//	    Sinks:  doc,
//	    Logger: logger,
//	})
//
//	if !sim.Start(progress.ModeYouTube) {
//	    // sinks missing; nothing is rendered, the caller carries on
//	}
//	defer sim.Stop()
//
// 100% is never produced by the simulator itself. Hosts force it when the
// real operation finishes (see the page package).
package progress
