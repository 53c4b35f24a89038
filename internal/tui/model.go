// Package tui is the terminal front end: a bubbletea program that shows one
// directory and keeps it current by ticking the browser.
package tui

import (
	"fmt"
	"time"

	"browsd/internal/analysis"
	"browsd/internal/browse"
	"browsd/internal/fileops"
	"browsd/internal/log"
	"browsd/internal/tui/common"
	"browsd/internal/tui/messages"
	"browsd/internal/tui/styles"
	"browsd/internal/tui/views"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTickInterval is how often queued changes are applied.
const DefaultTickInterval = 100 * time.Millisecond

type promptAction int

const (
	promptNewFile promptAction = iota
	promptNewDir
	promptRename
)

type Model struct {
	browser   *browse.Browser
	ops       fileops.Operator
	inspector *analysis.Engine

	keys     KeyMap
	help     help.Model
	input    textinput.Model
	styles   styles.Styles
	interval time.Duration

	confirmDelete bool

	// Core state
	mode        common.Mode
	cursor      int
	prompt      promptAction
	promptPath  string
	confirmPath string
	errors      []string // oldest first
	status      string
	height      int
}

// Option configures a Model.
type Option func(*Model)

// WithTickInterval sets how often the browser is ticked.
func WithTickInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithStyles replaces the default theme.
func WithStyles(s styles.Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithConfirmDelete controls whether deleting non-empty entries asks first.
func WithConfirmDelete(confirm bool) Option {
	return func(m *Model) { m.confirmDelete = confirm }
}

func New(b *browse.Browser, ops fileops.Operator, opts ...Option) *Model {
	input := textinput.New()
	input.CharLimit = 255

	m := &Model{
		browser:       b,
		ops:           ops,
		inspector:     analysis.New(),
		keys:          DefaultKeyMap(),
		help:          help.New(),
		input:         input,
		styles:        styles.Default,
		interval:      DefaultTickInterval,
		confirmDelete: true,
		mode:          common.Normal,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(b *browse.Browser, ops fileops.Operator, opts ...Option) error {
	p := tea.NewProgram(New(b, ops, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return messages.TickMsg(t)
	})
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.TickMsg:
		m.applyChanges()
		return m, m.tick()
	case messages.ErrorMsg:
		m.reportError(msg.Err)
		return m, nil
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

// applyChanges ticks the browser and keeps the cursor on the same entry.
func (m *Model) applyChanges() {
	var under string
	if e, ok := m.browser.View().At(m.cursor); ok {
		under = e.Path
	}

	res := m.browser.Tick()
	if !res.Changed() {
		return
	}
	if i := m.browser.View().Index(under); i >= 0 {
		m.cursor = i
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.browser.View().Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) reportError(err error) {
	if err == nil {
		return
	}
	log.LogWithError(err).Debug("reported to user")
	m.errors = append(m.errors, err.Error())
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case common.Prompt:
		return m.handlePromptKeys(msg)
	case common.Confirm:
		return m.handleConfirmKeys(msg)
	}

	// A pending error is dismissed before any other key takes effect.
	if len(m.errors) > 0 && key.Matches(msg, m.keys.Dismiss) {
		m.errors = m.errors[1:]
		return m, nil
	}
	return m.handleNormalKeys(msg)
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.browser.View().Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = m.browser.View().Len() - 1
		m.clampCursor()
	case key.Matches(msg, m.keys.Open):
		m.openAtCursor()
	case key.Matches(msg, m.keys.Back):
		if err := m.browser.Up(); err != nil {
			m.reportError(err)
		} else {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Select):
		if e, ok := m.browser.View().At(m.cursor); ok {
			if e.Selected {
				m.browser.View().Deselect(e.Path)
			} else {
				m.browser.View().Select(e.Path)
			}
		}
	case key.Matches(msg, m.keys.NewFile):
		m.startPrompt(promptNewFile, "", "")
	case key.Matches(msg, m.keys.NewDir):
		m.startPrompt(promptNewDir, "", "")
	case key.Matches(msg, m.keys.Rename):
		if e, ok := m.browser.View().At(m.cursor); ok {
			m.startPrompt(promptRename, e.Path, e.Name())
		}
	case key.Matches(msg, m.keys.Delete):
		m.deleteAtCursor()
	case key.Matches(msg, m.keys.Refresh):
		m.browser.Refresh()
		m.clampCursor()
		m.status = fmt.Sprintf("%d entries", m.browser.View().Len())
	case key.Matches(msg, m.keys.Info):
		m.showDetails()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) showDetails() {
	e, ok := m.browser.View().At(m.cursor)
	if !ok {
		return
	}
	d, err := m.inspector.Inspect(e.Path)
	if err != nil {
		m.reportError(err)
		return
	}
	m.status = e.Name() + ": " + d.Summary()
}

func (m *Model) openAtCursor() {
	e, ok := m.browser.View().At(m.cursor)
	if !ok {
		return
	}
	if e.IsDir() {
		if err := m.browser.Retarget(e.Path); err != nil {
			m.reportError(err)
			return
		}
		m.cursor = 0
		return
	}
	if err := m.ops.OpenFile(e.Path); err != nil {
		m.reportError(err)
		return
	}
	m.status = "opened " + e.Name()
}

func (m *Model) deleteAtCursor() {
	e, ok := m.browser.View().At(m.cursor)
	if !ok {
		return
	}
	needsConfirm, err := m.ops.NeedsConfirmation(e.Path)
	if err != nil {
		m.reportError(err)
		return
	}
	if needsConfirm && m.confirmDelete {
		m.mode = common.Confirm
		m.confirmPath = e.Path
		return
	}
	if err := m.ops.Delete(e.Path); err != nil {
		m.reportError(err)
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	path := m.confirmPath
	m.mode = common.Normal
	m.confirmPath = ""

	if msg.String() == "y" || msg.String() == "Y" {
		if err := m.ops.Delete(path); err != nil {
			m.reportError(err)
		}
	}
	return m, nil
}

func (m *Model) startPrompt(action promptAction, path, initial string) {
	m.mode = common.Prompt
	m.prompt = action
	m.promptPath = path

	switch action {
	case promptNewFile:
		m.input.Prompt = "New file: "
	case promptNewDir:
		m.input.Prompt = "New folder: "
	case promptRename:
		m.input.Prompt = "Rename to: "
	}
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.endPrompt()
		return m, nil
	case tea.KeyEnter:
		name := m.input.Value()
		action, path := m.prompt, m.promptPath
		m.endPrompt()
		m.submitPrompt(action, path, name)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endPrompt() {
	m.mode = common.Normal
	m.promptPath = ""
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) submitPrompt(action promptAction, path, name string) {
	var err error
	switch action {
	case promptNewFile:
		_, err = m.ops.CreateFile(m.browser.Dir(), name)
	case promptNewDir:
		_, err = m.ops.CreateDir(m.browser.Dir(), name)
	case promptRename:
		_, err = m.ops.Rename(path, name)
	}
	if err != nil {
		m.reportError(err)
	}
}

// Getters

func (m *Model) Entries() []browse.Entry {
	return m.browser.Entries()
}

func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

// CurrentDir returns the current directory
func (m *Model) CurrentDir() string {
	return m.browser.Dir()
}

func (m *Model) PromptView() string {
	return m.input.View()
}

func (m *Model) ConfirmTarget() string {
	return m.confirmPath
}

// CurrentError returns the oldest unread error and how many are pending.
func (m *Model) CurrentError() (string, int) {
	if len(m.errors) == 0 {
		return "", 0
	}
	return m.errors[0], len(m.errors)
}

func (m *Model) Status() string {
	return m.status
}

func (m *Model) HelpView() string {
	return m.styles.Help.Render(m.help.View(m.keys))
}

func (m *Model) Styles() styles.Styles {
	return m.styles
}

func (m *Model) Height() int {
	return m.height
}

// SetCursor moves the cursor if pos is a valid index
func (m *Model) SetCursor(pos int) {
	if pos >= 0 && pos < m.browser.View().Len() {
		m.cursor = pos
	}
}

// Selected returns the path under the cursor.
func (m *Model) Selected() (string, bool) {
	e, ok := m.browser.View().At(m.cursor)
	if !ok {
		return "", false
	}
	return e.Path, true
}
