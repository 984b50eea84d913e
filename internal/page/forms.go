package page

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ShayCichocki/knowbite/pkg/models"
)

var (
	// ErrInvalidYouTubeURL is returned for links that are not YouTube URLs.
	ErrInvalidYouTubeURL = errors.New("please enter a valid YouTube URL")
	// ErrUnsupportedFileType is returned for file types other than pdf and audio.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrExtensionNotAccepted is returned when the file does not match the
	// accept list of its type.
	ErrExtensionNotAccepted = errors.New("file extension not accepted")
)

var youtubeRe = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.?be)/.+$`)

var acceptMap = map[models.FileType]string{
	models.FileTypePDF:   ".pdf,.txt",
	models.FileTypeAudio: ".mp3,.wav,.ogg,.m4a",
}

// ValidateYouTubeURL checks link against the accepted YouTube URL shapes.
func ValidateYouTubeURL(link string) error {
	if !youtubeRe.MatchString(strings.TrimSpace(link)) {
		return ErrInvalidYouTubeURL
	}
	return nil
}

// Accept returns the comma-separated extensions accepted for fileType, or ""
// for unknown types.
func Accept(fileType models.FileType) string {
	return acceptMap[fileType]
}

// ValidateUpload checks that fileType is uploadable, that path carries an
// accepted extension and that it is a regular file.
func ValidateUpload(fileType models.FileType, path string) error {
	accept := Accept(fileType)
	if accept == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, fileType)
	}

	ext := strings.ToLower(filepath.Ext(path))
	accepted := false
	for _, a := range strings.Split(accept, ",") {
		if ext == a {
			accepted = true
			break
		}
	}
	if !accepted {
		return fmt.Errorf("%w: %s expects %s, got %q", ErrExtensionNotAccepted, fileType, accept, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat upload: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("upload %s is not a regular file", path)
	}
	return nil
}
