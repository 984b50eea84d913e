package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ShayCichocki/knowbite/internal/config"
	"github.com/ShayCichocki/knowbite/internal/logging"
	"github.com/ShayCichocki/knowbite/internal/page"
	"github.com/ShayCichocki/knowbite/internal/progress"
	"github.com/ShayCichocki/knowbite/internal/state"
	"github.com/ShayCichocki/knowbite/internal/submit"
	"github.com/ShayCichocki/knowbite/internal/tui"
)

// session holds everything one command invocation wires together.
type session struct {
	cfg  *config.Config
	log  *logging.DebugLogger
	db   *state.DB
	sim  *progress.Simulator
	page *page.Page

	// Exactly one of widgets and line is set.
	widgets *tui.Widgets
	line    *tui.Line
}

type sessionOptions struct {
	plain bool
	// submit wires the HTTP client and the run history.
	submit bool
}

func newSession(cfg *config.Config, opts sessionOptions) (*session, error) {
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		// The log is optional; keep going without it.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		logger = logging.Nop()
	}

	s := &session{cfg: cfg, log: logger}

	doc := page.NewDocument()
	if opts.plain {
		s.line = tui.NewLine(os.Stdout)
		s.line.Mount(doc)
	} else {
		s.widgets = tui.Mount(doc)
	}

	tuning := cfg.Progress.Tuning()
	s.sim = progress.NewSimulator(progress.Options{
		Sinks:  doc,
		Tuning: &tuning,
		Logger: logger,
	})

	pageOpts := page.Options{Document: doc, Simulator: s.sim, Logger: logger}

	if opts.submit {
		client, err := newSubmitClient(cfg)
		if err != nil {
			s.close()
			return nil, err
		}
		pageOpts.Submitter = client
		logger.Log("[session] submitting to %s", client.Endpoint())

		db, err := state.OpenAndMigrate(cfg.State.DBPath)
		if err != nil {
			// History is a convenience; submissions work without it.
			logger.Log("[session] run history disabled: %v", err)
		} else {
			s.db = db
			pageOpts.Runs = db
		}
	}

	s.page = page.New(pageOpts)
	return s, nil
}

func newSubmitClient(cfg *config.Config) (*submit.Client, error) {
	cookie, err := config.GetSessionCookie(cfg)
	if err != nil && !errors.Is(err, config.ErrNoSessionCookie) {
		return nil, err
	}
	if cookie != "" {
		if err := config.ValidateSessionCookie(cookie); err != nil {
			return nil, err
		}
	}

	return submit.NewClient(submit.Options{
		BaseURL:       cfg.Server.BaseURL,
		Timeout:       cfg.Server.Timeout,
		SessionCookie: cookie,
	})
}

func (s *session) close() {
	s.sim.Stop()
	if s.line != nil {
		s.line.Finish()
	}
	if s.db != nil {
		s.db.Close()
	}
	s.log.Close()
}
