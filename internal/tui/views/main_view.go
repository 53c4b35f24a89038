package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"browsd/internal/tui/common"
	"browsd/internal/tui/components"
)

// chromeRows is the number of lines around the file list.
const chromeRows = 6

func RenderMainView(m common.ModelReader) string {
	s := m.Styles()
	var sb strings.Builder

	sb.WriteString(components.Breadcrumbs(m.CurrentDir(), s))
	sb.WriteString("\n\n")

	fileList := components.NewFileList(s)
	fileList.SetEntries(m.Entries())
	fileList.SetCursor(m.Cursor())
	if h := m.Height(); h > chromeRows {
		fileList.SetHeight(h - chromeRows)
	}
	sb.WriteString(fileList.View())

	switch m.Mode() {
	case common.Prompt:
		sb.WriteString("\n" + m.PromptView() + "\n")
	case common.Confirm:
		sb.WriteString("\n" + s.Warning.Render(fmt.Sprintf("Delete %s and everything in it? [y/N]", filepath.Base(m.ConfirmTarget()))) + "\n")
	}

	// Only the oldest error is shown; dismissing it reveals the next.
	if msg, pending := m.CurrentError(); pending > 0 {
		title := "Error"
		if pending > 1 {
			title = fmt.Sprintf("Error (1 of %d)", pending)
		}
		sb.WriteString("\n" + s.Error.Render(title+"\n"+msg) + "\n")
	}

	status := components.NewStatusBar(s)
	status.SetText(m.Status())
	if v := status.View(); v != "" {
		sb.WriteString("\n" + v)
	}
	sb.WriteString("\n" + m.HelpView())

	return s.App.Render(sb.String())
}
