package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/knowbite/internal/page"
)

// ErrPromptCanceled is returned by PromptLink when the user leaves the prompt.
var ErrPromptCanceled = errors.New("prompt canceled")

// LinkSubmittedMsg is sent when the user enters a valid YouTube link.
type LinkSubmittedMsg struct {
	Link string
}

// LinkInput is a text input for a YouTube link. Invalid links stay in the
// field with the validation message underneath.
type LinkInput struct {
	input textinput.Model
	width int
	err   error
}

// NewLinkInput creates a focused LinkInput.
func NewLinkInput() *LinkInput {
	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	return &LinkInput{
		input: ti,
		width: 80,
	}
}

// SetWidth sets the width of the input field.
func (f *LinkInput) SetWidth(width int) {
	f.width = width
	f.input.Width = width - 4 // prompt and padding
}

// Err returns the validation error of the last submit attempt.
func (f *LinkInput) Err() error {
	return f.err
}

// Update handles messages for the input field.
func (f *LinkInput) Update(msg tea.Msg) (*LinkInput, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.Type == tea.KeyEnter {
			link := strings.TrimSpace(f.input.Value())
			if link == "" {
				return f, nil
			}
			if err := page.ValidateYouTubeURL(link); err != nil {
				f.err = err
				return f, nil
			}
			f.err = nil
			f.input.Reset()
			return f, func() tea.Msg {
				return LinkSubmittedMsg{Link: link}
			}
		}
		f.err = nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the input field.
func (f *LinkInput) View() string {
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(f.width - 2)

	out := boxStyle.Render(promptStyle.Render("> ") + f.input.View())
	if f.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		out += "\n" + errStyle.Render(f.err.Error())
	}
	return out
}

// linkPrompt is a one-shot program asking for a link.
type linkPrompt struct {
	field    *LinkInput
	link     string
	canceled bool
}

func (p *linkPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (p *linkPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlC {
			p.canceled = true
			return p, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 10 && msg.Width < 84 {
			p.field.SetWidth(msg.Width - 4)
		}
	case LinkSubmittedMsg:
		p.link = msg.Link
		return p, tea.Quit
	}

	var cmd tea.Cmd
	p.field, cmd = p.field.Update(msg)
	return p, cmd
}

func (p *linkPrompt) View() string {
	if p.link != "" || p.canceled {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).Render("Paste a YouTube link")
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("enter submit │ esc cancel")
	return title + "\n" + p.field.View() + "\n" + hint + "\n"
}

// PromptLink asks for a YouTube link on the terminal.
func PromptLink(opts ...tea.ProgramOption) (string, error) {
	p := &linkPrompt{field: NewLinkInput()}
	final, err := tea.NewProgram(p, opts...).Run()
	if err != nil {
		return "", err
	}
	if fp, ok := final.(*linkPrompt); !ok || fp.canceled || fp.link == "" {
		return "", ErrPromptCanceled
	}
	return p.link, nil
}
