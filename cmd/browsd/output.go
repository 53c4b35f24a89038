package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors follow the default theme of the configuration.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dirStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// applyTheme recolors the CLI output with the configured theme.
func applyTheme() {
	if cfg == nil {
		return
	}
	successStyle = successStyle.Foreground(lipgloss.Color(cfg.Theme.Success))
	errorStyle = errorStyle.Foreground(lipgloss.Color(cfg.Theme.Error))
	warningStyle = warningStyle.Foreground(lipgloss.Color(cfg.Theme.Warning))
	infoStyle = infoStyle.Foreground(lipgloss.Color(cfg.Theme.Info))
	dirStyle = dirStyle.Foreground(lipgloss.Color(cfg.Theme.Info))
}

func printSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+message))
}

func printError(w io.Writer, message string) {
	fmt.Fprintln(w, errorStyle.Render("✗ "+message))
}

func printWarning(w io.Writer, message string) {
	fmt.Fprintln(w, warningStyle.Render("! "+message))
}

func printInfo(w io.Writer, message string) {
	fmt.Fprintln(w, infoStyle.Render("ℹ "+message))
}
