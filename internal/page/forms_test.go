package page

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ShayCichocki/knowbite/pkg/models"
)

func TestValidateYouTubeURL(t *testing.T) {
	tests := []struct {
		link string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"http://youtube.com/watch?v=abc", true},
		{"youtube.com/watch?v=abc", true},
		{"https://youtu.be/abc", true},
		{"https://youtube.be/abc", false},
		{"https://youtube.com/", false},
		{"https://vimeo.com/123", false},
		{"", false},
		{"ftp://youtube.com/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			err := ValidateYouTubeURL(tt.link)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidYouTubeURL) {
				t.Errorf("expected ErrInvalidYouTubeURL, got %v", err)
			}
		})
	}
}

func TestAccept(t *testing.T) {
	if got := Accept(models.FileTypePDF); got != ".pdf,.txt" {
		t.Errorf("pdf accept = %q", got)
	}
	if got := Accept(models.FileTypeAudio); got != ".mp3,.wav,.ogg,.m4a" {
		t.Errorf("audio accept = %q", got)
	}
	if got := Accept(models.FileTypeYouTube); got != "" {
		t.Errorf("youtube accept = %q, want empty", got)
	}
}

func TestValidateUpload(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"doc.pdf", "notes.TXT", "song.m4a"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		fileType models.FileType
		path     string
		wantErr  error
		anyErr   bool
	}{
		{"pdf", models.FileTypePDF, "doc.pdf", nil, false},
		{"txt upper case", models.FileTypePDF, "notes.TXT", nil, false},
		{"audio", models.FileTypeAudio, "song.m4a", nil, false},
		{"audio as pdf", models.FileTypePDF, "song.m4a", ErrExtensionNotAccepted, true},
		{"youtube type", models.FileTypeYouTube, "doc.pdf", ErrUnsupportedFileType, true},
		{"missing file", models.FileTypePDF, "gone.pdf", nil, true},
		{"directory", models.FileTypePDF, ".", ErrExtensionNotAccepted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.fileType, filepath.Join(dir, tt.path))
			if !tt.anyErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
