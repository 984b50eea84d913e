// Package notify sends desktop notifications when a submission finishes.
// Summaries can take minutes, so users tend to switch away from the terminal.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/ShayCichocki/knowbite/internal/logging"
)

// Title is the application name shown on every notification.
const Title = "knowbite"

// notifyFunc is swapped out in tests. An empty icon lets the platform
// backend pick its default.
var notifyFunc = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Notifier sends desktop notifications. A nil or disabled Notifier does
// nothing.
type Notifier struct {
	enabled bool
	log     *logging.DebugLogger
}

// New creates a Notifier.
func New(enabled bool, log *logging.DebugLogger) *Notifier {
	return &Notifier{enabled: enabled, log: log}
}

// Send sends a notification with the given message.
func (n *Notifier) Send(message string) error {
	if n == nil || !n.enabled {
		return nil
	}
	n.log.Log("[notify] %q", message)
	if err := notifyFunc(Title, message); err != nil {
		n.log.Log("[notify] failed: %v", err)
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// SummaryReady announces a successful submission of source.
func (n *Notifier) SummaryReady(source, location string) error {
	return n.Send(fmt.Sprintf("Summary of %s is ready: %s", source, location))
}

// SubmissionFailed announces a failed submission of source.
func (n *Notifier) SubmissionFailed(source string, err error) error {
	return n.Send(fmt.Sprintf("Could not summarize %s: %v", source, err))
}
