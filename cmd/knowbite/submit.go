package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/knowbite/internal/notify"
	"github.com/ShayCichocki/knowbite/internal/page"
	"github.com/ShayCichocki/knowbite/internal/progress"
	"github.com/ShayCichocki/knowbite/internal/submit"
	"github.com/ShayCichocki/knowbite/internal/tui"
	"github.com/ShayCichocki/knowbite/pkg/models"
)

var (
	submitPlain  bool
	submitNotify bool
)

var youtubeCmd = &cobra.Command{
	Use:   "youtube [link]",
	Short: "Summarize a YouTube video",
	Long: `Submit a YouTube link to the knowbite server and show the loading overlay
until the server answers.

Without a link, prompts for one. Accepted forms include
https://www.youtube.com/watch?v=..., youtube.com/... and https://youtu.be/...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runYouTube,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <pdf|audio> <file>",
	Short: "Summarize a PDF or audio file",
	Long: `Upload a file to the knowbite server and show the loading overlay until
the server answers.

Accepted extensions:
  pdf    .pdf, .txt
  audio  .mp3, .wav, .ogg, .m4a`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(models.FileTypePDF), string(models.FileTypeAudio)},
	RunE:      runUpload,
}

func init() {
	for _, c := range []*cobra.Command{youtubeCmd, uploadCmd} {
		c.Flags().BoolVar(&submitPlain, "plain", false, "Render progress as a single status line instead of the TUI")
		c.Flags().BoolVar(&submitNotify, "notify", false, "Send a desktop notification when the server answers (overrides notify.enabled)")
	}
}

func runYouTube(cmd *cobra.Command, args []string) error {
	var link string
	if len(args) == 1 {
		link = strings.TrimSpace(args[0])
	} else {
		if submitPlain {
			return errors.New("a link is required with --plain")
		}
		var err error
		link, err = tui.PromptLink()
		if errors.Is(err, tui.ErrPromptCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	// Reject bad links before taking over the terminal.
	if err := page.ValidateYouTubeURL(link); err != nil {
		return err
	}

	return runSubmit(cmd.Context(), "Summarizing YouTube video", link, progress.ModeYouTube,
		func(ctx context.Context, pg *page.Page) (submit.Result, error) {
			return pg.SubmitYouTube(ctx, link)
		})
}

func runUpload(cmd *cobra.Command, args []string) error {
	fileType := models.FileType(strings.ToLower(args[0]))
	path := args[1]

	if err := page.ValidateUpload(fileType, path); err != nil {
		if errors.Is(err, page.ErrExtensionNotAccepted) || errors.Is(err, page.ErrUnsupportedFileType) {
			return fmt.Errorf("%w (pdf accepts %s, audio accepts %s)", err,
				page.Accept(models.FileTypePDF), page.Accept(models.FileTypeAudio))
		}
		return err
	}

	name := filepath.Base(path)
	return runSubmit(cmd.Context(), "Summarizing "+name, name, progress.ModeUpload,
		func(ctx context.Context, pg *page.Page) (submit.Result, error) {
			return pg.SubmitUpload(ctx, fileType, path)
		})
}

func runSubmit(parent context.Context, title, source string, mode progress.Mode, fn func(context.Context, *page.Page) (submit.Result, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := newSession(cfg, sessionOptions{plain: submitPlain, submit: true})
	if err != nil {
		return err
	}
	defer s.close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	res, err := s.runSubmission(ctx, title, mode, func(ctx context.Context) (submit.Result, error) {
		return fn(ctx, s.page)
	})
	if s.line != nil {
		s.line.Finish()
	}

	if errors.Is(err, context.Canceled) {
		printStatus("⚠", "Submission canceled", color.FgYellow)
		return nil
	}

	notifier := notify.New(cfg.Notify.Enabled || submitNotify, s.log)
	if err != nil {
		// Notification failures are logged by the notifier.
		_ = notifier.SubmissionFailed(source, err)
		var se *submit.StatusError
		var re *submit.RejectedError
		switch {
		case errors.As(err, &se):
			printStatus("✗", fmt.Sprintf("Server rejected the submission (HTTP %d)", se.StatusCode), color.FgRed)
		case errors.As(err, &re):
			printStatus("✗", "Server bounced the submission to "+re.Location, color.FgRed)
		}
		return err
	}

	summary := resolveLocation(cfg.Server.BaseURL, res.Location)
	_ = notifier.SummaryReady(source, summary)

	printStatus("✓", "Submitted", color.FgGreen)
	if res.Location != "" {
		fmt.Printf("  Summary: %s\n", summary)
	}
	return nil
}

// resolveLocation turns a redirect target into an absolute URL against base.
func resolveLocation(base, location string) string {
	b, err := url.Parse(base)
	if err != nil {
		return location
	}
	loc, err := url.Parse(location)
	if err != nil {
		return location
	}
	return b.ResolveReference(loc).String()
}

// printStatus prints a colored status symbol with a message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
