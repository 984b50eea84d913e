package progress

// Mode selects the status message schedule.
type Mode string

const (
	// ModeGeneric is the default schedule for any file submission.
	ModeGeneric Mode = "generic"
	// ModeUpload is used for document and audio uploads.
	ModeUpload Mode = "upload"
	// ModeYouTube is used when the server ingests a YouTube link.
	ModeYouTube Mode = "youtube"
)

// Valid returns true if the mode is a known value.
func (m Mode) Valid() bool {
	switch m {
	case ModeGeneric, ModeUpload, ModeYouTube:
		return true
	default:
		return false
	}
}

// Normalize maps the empty mode and unknown modes to ModeGeneric.
func (m Mode) Normalize() Mode {
	if m.Valid() {
		return m
	}
	return ModeGeneric
}

// Stage boundaries for status messages.
const (
	stageTwoAt   = 30
	stageThreeAt = 60
	stageFourAt  = 90
)

// Fixed texts written by hosts outside the simulated schedule.
const (
	// LoadingText is shown once the real operation has finished and the
	// next view is loading.
	LoadingText = "Loading..."
	// ResetText is shown when the indicator is reset to zero.
	ResetText = "Processing your file..."
)

var uploadSchedule = [4]string{
	"Uploading file...",
	"Processing content...",
	"Generating summary...",
	"Finalizing...",
}

var schedules = map[Mode][4]string{
	ModeGeneric: uploadSchedule,
	ModeUpload:  uploadSchedule,
	ModeYouTube: {
		"Contacting YouTube...",
		"Extracting transcript...",
		"Downloading audio...",
		"Finalizing...",
	},
}

// Stage returns the index (0-3) of the message range progress falls into:
// [0,30), [30,60), [60,90), [90,99].
func Stage(progress float64) int {
	switch {
	case progress < stageTwoAt:
		return 0
	case progress < stageThreeAt:
		return 1
	case progress < stageFourAt:
		return 2
	default:
		return 3
	}
}

// Message returns the status text for mode at the given progress.
func Message(mode Mode, progress float64) string {
	return schedules[mode.Normalize()][Stage(progress)]
}
