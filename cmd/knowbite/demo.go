package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/knowbite/internal/config"
	"github.com/ShayCichocki/knowbite/internal/page"
	"github.com/ShayCichocki/knowbite/internal/progress"
	"github.com/ShayCichocki/knowbite/internal/tui"
)

var (
	demoMode  string
	demoWatch bool
	demoPlain bool
	demoFor   time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show the loading overlay without contacting a server",
	Long: `Run the loading overlay against nothing, to preview the progress curve
and its status messages.

Keys:
  r  restart the simulation
  s  stop it where it is
  n  simulate navigating away (jumps to 100%)
  h  hide the overlay (resets the bar)
  m  switch to the next mode
  q  quit

With --watch, edits to the config file retune the running simulation.
With --plain, runs for --for and then navigates away.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoMode, "mode", string(progress.ModeGeneric), "Message schedule: generic, upload or youtube")
	demoCmd.Flags().BoolVar(&demoWatch, "watch", false, "Reload progress tuning when the config file changes")
	demoCmd.Flags().BoolVar(&demoPlain, "plain", false, "Render a single status line instead of the TUI")
	demoCmd.Flags().DurationVar(&demoFor, "for", 8*time.Second, "How long the plain demo runs")
}

func runDemo(cmd *cobra.Command, args []string) error {
	mode := progress.Mode(demoMode)
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q (want generic, upload or youtube)", demoMode)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := newSession(cfg, sessionOptions{plain: demoPlain})
	if err != nil {
		return err
	}
	defer s.close()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	if demoWatch {
		s.watchTuning(ctx)
	}

	if !s.page.StartProgress(mode) {
		return fmt.Errorf("progress elements missing; see %s", s.log.Path())
	}

	if demoPlain {
		select {
		case <-ctx.Done():
			s.page.HideLoading()
		case <-time.After(demoFor):
			s.page.VisibilityChanged(page.Hidden)
		}
		return nil
	}

	model := tui.NewLoading(tui.Options{
		Page:        s.page,
		Widgets:     s.widgets,
		Mode:        mode,
		Demo:        true,
		Title:       "knowbite demo",
		RefreshRate: cfg.TUI.RefreshRate,
		BarWidth:    cfg.TUI.BarWidth,
	})
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// watchTuning retunes the simulator whenever the active config file changes.
func (s *session) watchTuning(ctx context.Context) {
	path := configPath
	if path == "" {
		path = config.GetProjectConfigPath()
	}
	if path == "" {
		path = config.GetUserConfigPath()
	}

	s.log.Log("[demo] watching %s", path)
	go func() {
		err := config.Watch(ctx, path,
			func(c *config.Config) {
				if err := s.sim.SetTuning(c.Progress.Tuning()); err != nil {
					s.log.Log("[demo] rejected tuning: %v", err)
					return
				}
				s.log.Event("tuning reloaded", "path", path, "ceiling", c.Progress.Ceiling)
			},
			func(err error) {
				s.log.Log("[demo] config reload: %v", err)
			},
		)
		if err != nil {
			s.log.Log("[demo] watch %s: %v", path, err)
		}
	}()
}
