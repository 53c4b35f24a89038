package components

import (
	"fmt"
	"os"
	"strings"

	"browsd/internal/browse"
	"browsd/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

// FileList renders a window of the listing around the cursor.
type FileList struct {
	entries []browse.Entry
	cursor  int
	height  int
	styles  styles.Styles
}

func NewFileList(s styles.Styles) *FileList {
	return &FileList{styles: s}
}

func (fl *FileList) SetEntries(entries []browse.Entry) {
	fl.entries = entries
}

func (fl *FileList) SetCursor(cursor int) {
	fl.cursor = cursor
}

// SetHeight limits the number of rows; zero shows everything.
func (fl *FileList) SetHeight(height int) {
	fl.height = height
}

// window returns the visible index range [start, end).
func (fl *FileList) window() (int, int) {
	n := len(fl.entries)
	if fl.height <= 0 || n <= fl.height {
		return 0, n
	}
	start := fl.cursor - fl.height/2
	if start < 0 {
		start = 0
	}
	if start+fl.height > n {
		start = n - fl.height
	}
	return start, start + fl.height
}

func (fl *FileList) View() string {
	if len(fl.entries) == 0 {
		return fl.styles.Details.Render("(empty)") + "\n"
	}

	var s strings.Builder
	start, end := fl.window()
	for i := start; i < end; i++ {
		e := fl.entries[i]

		cursor := "  "
		if i == fl.cursor {
			cursor = fl.styles.Cursor.Render("> ")
		}

		name := e.Name()
		style := fl.styles.File
		if e.IsDir() {
			name += "/"
			style = fl.styles.Directory
		}
		if e.Selected {
			style = fl.styles.Selected
		}

		s.WriteString(cursor + style.Render(fmt.Sprintf("%-40s", name)) + " " + fl.styles.Details.Render(details(e)) + "\n")
	}
	if end-start < len(fl.entries) {
		s.WriteString(fl.styles.Details.Render(fmt.Sprintf("  %d/%d", fl.cursor+1, len(fl.entries))) + "\n")
	}
	return s.String()
}

// details stats the entry lazily; only visible rows pay for it.
func details(e browse.Entry) string {
	info, err := os.Lstat(e.Path)
	if err != nil {
		return ""
	}
	if e.IsDir() {
		return fmt.Sprintf("%8s  %s", "-", humanize.Time(info.ModTime()))
	}
	return fmt.Sprintf("%8s  %s", humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
}
