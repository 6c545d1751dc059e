package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Screen is implemented by every top-level TUI view.
type Screen interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg asks the root model to return to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
