package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/knowbite/internal/page"
	"github.com/ShayCichocki/knowbite/internal/progress"
	"github.com/ShayCichocki/knowbite/internal/submit"
)

const (
	defaultRefreshRate = 100 * time.Millisecond
	defaultBarWidth    = 40
)

// modeCycle is the order the demo's mode key steps through.
var modeCycle = []progress.Mode{progress.ModeGeneric, progress.ModeUpload, progress.ModeYouTube}

// DoneMsg reports that the submission returned.
type DoneMsg struct {
	Result submit.Result
	Err    error
}

// refreshMsg triggers a poll of the widgets.
type refreshMsg struct{}

// Options configures a Loading model.
type Options struct {
	Page    *page.Page
	Widgets *Widgets
	// Mode is the schedule started by the demo's restart key.
	Mode progress.Mode
	// Demo enables the r/s/n/h/m keys.
	Demo bool
	// Title is shown above the bar. Defaults to "knowbite".
	Title       string
	RefreshRate time.Duration
	BarWidth    int
}

// Loading is the bubbletea model of the loading overlay.
type Loading struct {
	page    *page.Page
	widgets *Widgets
	mode    progress.Mode
	demo    bool
	title   string
	refresh time.Duration

	keys keyMap
	bar  progressbar.Model
	spin spinner.Model

	// Polled from the widgets.
	percent int
	text    string
	visible bool
	running bool

	done     bool
	result   submit.Result
	err      error
	quitting bool

	// Styles
	titleStyle   lipgloss.Style
	boxStyle     lipgloss.Style
	textStyle    lipgloss.Style
	percentStyle lipgloss.Style
	hintStyle    lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewLoading creates the overlay model.
func NewLoading(opts Options) *Loading {
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = defaultRefreshRate
	}
	if opts.BarWidth <= 0 {
		opts.BarWidth = defaultBarWidth
	}
	if opts.Title == "" {
		opts.Title = "knowbite"
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := &Loading{
		page:    opts.Page,
		widgets: opts.Widgets,
		mode:    opts.Mode.Normalize(),
		demo:    opts.Demo,
		title:   opts.Title,
		refresh: opts.RefreshRate,
		keys:    newKeyMap(opts.Demo),
		bar: progressbar.New(
			progressbar.WithDefaultGradient(),
			progressbar.WithWidth(opts.BarWidth),
			progressbar.WithoutPercentage(),
		),
		spin: spin,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),

		boxStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2),

		textStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		percentStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m *Loading) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.tick())
}

// Update implements tea.Model.
func (m *Loading) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// Leave room for the border and padding.
		if w := msg.Width - 8; w > 0 && w < m.bar.Width {
			m.bar.Width = w
		}

	case refreshMsg:
		m.sync()
		if m.done {
			return m, nil
		}
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		m.sync()
		return m, tea.Quit
	}

	return m, nil
}

func (m *Loading) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Restart):
		m.page.StartProgress(m.mode)

	case key.Matches(msg, m.keys.Stop):
		m.page.Simulator().Stop()

	case key.Matches(msg, m.keys.Navigate):
		m.page.VisibilityChanged(page.Hidden)

	case key.Matches(msg, m.keys.Hide):
		m.page.HideLoading()

	case key.Matches(msg, m.keys.Mode):
		m.mode = nextMode(m.mode)
		m.page.StartProgress(m.mode)
	}

	m.sync()
	return m, nil
}

// View implements tea.Model.
func (m *Loading) View() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render(m.title))
	if m.demo {
		b.WriteString(m.hintStyle.Render(fmt.Sprintf("  [%s]", m.mode)))
	}
	b.WriteString("\n\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(m.errorStyle.Render("✗ " + m.err.Error()))
	case m.done:
		b.WriteString(m.successStyle.Render("✓ Submitted"))
		if m.result.Location != "" {
			b.WriteString(m.hintStyle.Render(" → " + m.result.Location))
		}
	case !m.visible:
		b.WriteString(m.hintStyle.Render("Overlay hidden"))
	default:
		indicator := m.spin.View()
		if !m.running {
			indicator = " "
		}
		b.WriteString(indicator + " " + m.textStyle.Render(m.text))
		b.WriteString("\n\n")
		b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
		b.WriteString(" " + m.percentStyle.Render(fmt.Sprintf("%3d%%", m.percent)))
	}

	out := m.boxStyle.Render(b.String())
	if !m.done {
		out += "\n" + m.hintStyle.Render(m.keys.hints())
	}
	return out + "\n"
}

// Done reports whether a DoneMsg was received.
func (m *Loading) Done() bool { return m.done }

// Quitting reports whether the user quit before the submission finished.
func (m *Loading) Quitting() bool { return m.quitting }

// Result returns the submission outcome carried by DoneMsg.
func (m *Loading) Result() (submit.Result, error) { return m.result, m.err }

// Mode returns the schedule the demo keys start.
func (m *Loading) Mode() progress.Mode { return m.mode }

func (m *Loading) sync() {
	if m.widgets != nil {
		m.percent = m.widgets.Bar.Percent()
		m.text = m.widgets.Label.Text()
		m.visible = m.widgets.Overlay.Visible()
	}
	if m.page != nil {
		m.running = m.page.Simulator().Snapshot().RunState == progress.Running
	}
}

func (m *Loading) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

func nextMode(cur progress.Mode) progress.Mode {
	for i, mode := range modeCycle {
		if mode == cur {
			return modeCycle[(i+1)%len(modeCycle)]
		}
	}
	return modeCycle[0]
}
