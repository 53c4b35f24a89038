package components

import (
	"browsd/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	text  string
	style lipgloss.Style
}

func NewStatusBar(s styles.Styles) *StatusBar {
	return &StatusBar{style: s.Status}
}

func (s *StatusBar) SetText(text string) {
	s.text = text
}

func (s *StatusBar) View() string {
	if s.text == "" {
		return ""
	}
	return s.style.Render(s.text)
}
