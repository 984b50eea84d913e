package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Restart  key.Binding
	Stop     key.Binding
	Navigate key.Binding
	Hide     key.Binding
	Mode     key.Binding
	Quit     key.Binding
}

func newKeyMap(demo bool) keyMap {
	km := keyMap{
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Navigate: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "navigate away")),
		Hide:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "next mode")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	if !demo {
		for _, b := range []*key.Binding{&km.Restart, &km.Stop, &km.Navigate, &km.Hide, &km.Mode} {
			b.SetEnabled(false)
		}
		km.Quit.SetHelp("q", "cancel")
	}
	return km
}

// hints renders the enabled bindings as "r restart │ s stop │ q quit".
func (k keyMap) hints() string {
	var parts []string
	for _, b := range []key.Binding{k.Restart, k.Stop, k.Navigate, k.Hide, k.Mode, k.Quit} {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " │ ")
}
