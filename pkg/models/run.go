// Package models holds the data types shared between knowbite packages.
package models

import "time"

// RunOutcome describes how a submission run ended.
type RunOutcome string

const (
	// RunOutcomePending indicates the submission is still in flight.
	RunOutcomePending RunOutcome = "pending"
	// RunOutcomeNavigated indicates the server accepted the submission and
	// returned the next page.
	RunOutcomeNavigated RunOutcome = "navigated"
	// RunOutcomeFailed indicates the submission was rejected or errored.
	RunOutcomeFailed RunOutcome = "failed"
	// RunOutcomeCanceled indicates the user abandoned the submission.
	RunOutcomeCanceled RunOutcome = "canceled"
)

// Valid returns true if the outcome is a known value.
func (o RunOutcome) Valid() bool {
	switch o {
	case RunOutcomePending, RunOutcomeNavigated, RunOutcomeFailed, RunOutcomeCanceled:
		return true
	default:
		return false
	}
}

// Terminal returns true if the run has finished.
func (o RunOutcome) Terminal() bool {
	return o == RunOutcomeNavigated || o == RunOutcomeFailed || o == RunOutcomeCanceled
}

// FileType is the kind of content submitted to the server.
type FileType string

const (
	FileTypePDF     FileType = "pdf"
	FileTypeAudio   FileType = "audio"
	FileTypeYouTube FileType = "youtube"
)

// Valid returns true if the file type is a known value.
func (f FileType) Valid() bool {
	switch f {
	case FileTypePDF, FileTypeAudio, FileTypeYouTube:
		return true
	default:
		return false
	}
}

// Run records one submission and what the loading indicator showed for it.
type Run struct {
	// ID is the unique identifier for this run.
	ID string `json:"id"`
	// Mode is the progress message schedule used (generic, upload, youtube).
	Mode string `json:"mode"`
	// FileType is the submitted content kind.
	FileType FileType `json:"file_type"`
	// Source is the YouTube link or local file path.
	Source string `json:"source"`
	// StartedAt is when the submission began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the submission ended, if it has.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	// LastPercent is the last simulated percentage shown before the run ended.
	LastPercent int `json:"last_percent"`
	// Outcome is how the run ended.
	Outcome RunOutcome `json:"outcome"`
	// Location is the page the server redirected to on success.
	Location string `json:"location,omitempty"`
	// Error holds the failure message, if any.
	Error string `json:"error,omitempty"`
}

// Duration returns how long the run took, or zero while it is pending.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
