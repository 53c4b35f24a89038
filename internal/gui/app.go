//go:build !nogui
// +build !nogui

// Package gui is the desktop front end built on fyne. A background goroutine
// ticks the browser; every access to it is serialized by App.mu.
package gui

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"browsd/internal/analysis"
	"browsd/internal/browse"
	"browsd/internal/fileops"
	"browsd/internal/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Create returns a new GUI instance
func (f *Factory) Create() (Interface, error) {
	fyneApp := app.NewWithID("io.github.browsd")
	a := NewApp(fyneApp, f.browser, f.ops,
		WithTickInterval(f.interval),
		WithNotifier(f.notifier),
		WithConfirmDelete(f.confirmDelete))
	return a, nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	ops        fileops.Operator
	inspector  *analysis.Engine

	interval      time.Duration
	confirmDelete bool
	notifier      *Notifier

	// Lock for browser, entries and dir
	mu       sync.Mutex
	browser  *browse.Browser
	entries  []browse.Entry
	dir      string
	selected int

	list   *widget.List
	crumbs *fyne.Container
	status *widget.Label

	// Errors waiting for their dialog, oldest first
	errMu        sync.Mutex
	errors       []error
	showingError bool

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures an App.
type Option func(*App)

// WithTickInterval sets how often queued changes are applied.
func WithTickInterval(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithNotifier lets the watcher wake the tick loop early.
func WithNotifier(n *Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithConfirmDelete controls whether deleting non-empty entries asks first.
func WithConfirmDelete(confirm bool) Option {
	return func(a *App) { a.confirmDelete = confirm }
}

// NewApp creates a new GUI application around b.
func NewApp(fyneApp fyne.App, b *browse.Browser, ops fileops.Operator, opts ...Option) *App {
	a := &App{
		fyneApp:       fyneApp,
		ops:           ops,
		inspector:     analysis.New(),
		interval:      100 * time.Millisecond,
		confirmDelete: true,
		browser:       b,
		selected:      -1,
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mainWindow = a.fyneApp.NewWindow("browsd")
	a.setupMainWindow()
	return a
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Run starts the GUI application
func (a *App) Run() {
	go a.loop()
	a.mainWindow.ShowAndRun()
	a.Stop()
}

// Stop ends the tick loop.
func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

func (a *App) loop() {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
		case <-a.notifier.C():
		}
		a.tick()
	}
}

// tick applies queued changes and redraws when something changed.
func (a *App) tick() bool {
	a.mu.Lock()
	res := a.browser.Tick()
	if res.Changed() {
		a.snapshotLocked()
	}
	a.mu.Unlock()

	if res.Changed() {
		a.refreshWidgets()
	}
	return res.Changed()
}

// snapshotLocked copies the browser state the widgets read. Callers hold mu.
func (a *App) snapshotLocked() {
	a.entries = a.browser.Entries()
	a.dir = a.browser.Dir()
	a.selected = -1
	for i, e := range a.entries {
		if e.Selected {
			a.selected = i
			break
		}
	}
}

// refreshWidgets must not be called with mu held: the list calls back into
// the length and update functions, which take it.
func (a *App) refreshWidgets() {
	a.mu.Lock()
	dir, n, selected := a.dir, len(a.entries), a.selected
	a.mu.Unlock()

	a.list.Refresh()
	a.setBreadcrumbs(dir)
	if selected >= 0 {
		// The status line keeps the selected entry's details.
		a.list.Select(selected)
		return
	}
	a.list.UnselectAll()
	a.status.SetText(fmt.Sprintf("%d items", n))
}

func (a *App) setupMainWindow() {
	a.mu.Lock()
	a.snapshotLocked()
	a.mu.Unlock()

	a.list = widget.NewList(
		func() int {
			a.mu.Lock()
			defer a.mu.Unlock()
			return len(a.entries)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.FileIcon()), widget.NewLabel("template"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			a.mu.Lock()
			if id < 0 || id >= len(a.entries) {
				a.mu.Unlock()
				return
			}
			e := a.entries[id]
			a.mu.Unlock()

			row := obj.(*fyne.Container)
			icon := row.Objects[0].(*widget.Icon)
			label := row.Objects[1].(*widget.Label)
			if e.IsDir() {
				icon.SetResource(theme.FolderIcon())
			} else {
				icon.SetResource(theme.FileIcon())
			}
			label.SetText(e.Name())
		},
	)
	a.list.OnSelected = func(id widget.ListItemID) {
		var path string
		a.mu.Lock()
		if id >= 0 && id < len(a.entries) {
			path = a.entries[id].Path
			a.browser.View().Select(path)
			a.snapshotLocked()
		}
		a.mu.Unlock()
		if path != "" {
			a.showDetails(path)
		}
	}
	a.list.OnUnselected = func(id widget.ListItemID) {
		a.mu.Lock()
		if id >= 0 && id < len(a.entries) {
			a.browser.View().Deselect(a.entries[id].Path)
			a.snapshotLocked()
		}
		a.mu.Unlock()
	}

	a.crumbs = container.NewHBox()
	a.status = widget.NewLabel("")

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.NavigateBackIcon(), a.goUp),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.openSelected),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { a.promptCreate(false) }),
		widget.NewToolbarAction(theme.FolderNewIcon(), func() { a.promptCreate(true) }),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.promptRename),
		widget.NewToolbarAction(theme.DeleteIcon(), a.deleteSelected),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), a.reload),
	)

	a.mainWindow.SetContent(container.NewBorder(
		container.NewVBox(toolbar, container.NewHScroll(a.crumbs)),
		a.status,
		nil,
		nil,
		a.list,
	))
	a.mainWindow.Resize(fyne.NewSize(800, 600))

	a.mainWindow.Canvas().SetOnTypedKey(func(ke *fyne.KeyEvent) {
		switch ke.Name {
		case fyne.KeyReturn, fyne.KeyEnter:
			a.openSelected()
		case fyne.KeyBackspace:
			a.goUp()
		case fyne.KeyDelete:
			a.deleteSelected()
		case fyne.KeyF2:
			a.promptRename()
		case fyne.KeyF5:
			a.reload()
		}
	})

	a.refreshWidgets()
}

func (a *App) setBreadcrumbs(dir string) {
	chain := browse.Ancestors(dir)
	objects := make([]fyne.CanvasObject, 0, len(chain))
	for i, p := range chain {
		target := p
		name := p
		if i > 0 {
			name = filepath.Base(p)
		}
		btn := widget.NewButton(name, func() { a.retarget(target) })
		if i == len(chain)-1 {
			btn.Importance = widget.HighImportance
		}
		objects = append(objects, btn)
	}
	a.crumbs.Objects = objects
	a.crumbs.Refresh()
}

// showDetails puts a one-line description of path in the status bar.
func (a *App) showDetails(path string) {
	d, err := a.inspector.Inspect(path)
	if err != nil {
		log.LogWithFields(log.F("path", path), log.F("error", err)).Debug("inspect failed")
		return
	}
	a.status.SetText(filepath.Base(path) + ": " + d.Summary())
}

// selectedEntry returns the highlighted entry.
func (a *App) selectedEntry() (browse.Entry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.browser.View().Selected()
}

func (a *App) retarget(dir string) {
	a.mu.Lock()
	err := a.browser.Retarget(dir)
	if err == nil {
		a.snapshotLocked()
	}
	a.mu.Unlock()

	if err != nil {
		a.reportError(err)
		return
	}
	a.list.ScrollToTop()
	a.refreshWidgets()
}

func (a *App) goUp() {
	a.mu.Lock()
	dir := a.browser.Dir()
	a.mu.Unlock()
	parent := filepath.Dir(dir)
	if parent != dir {
		a.retarget(parent)
	}
}

func (a *App) reload() {
	a.mu.Lock()
	a.browser.Refresh()
	a.snapshotLocked()
	a.mu.Unlock()
	a.refreshWidgets()
}

func (a *App) openSelected() {
	e, ok := a.selectedEntry()
	if !ok {
		return
	}
	if e.IsDir() {
		a.retarget(e.Path)
		return
	}
	if err := a.ops.OpenFile(e.Path); err != nil {
		a.reportError(err)
	}
}

func (a *App) promptCreate(dir bool) {
	title, what := "New file", "File name"
	if dir {
		title, what = "New folder", "Folder name"
	}
	entry := widget.NewEntry()
	dialog.ShowForm(title, "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem(what, entry)},
		func(ok bool) {
			if ok {
				a.create(dir, entry.Text)
			}
		}, a.mainWindow)
}

func (a *App) create(dir bool, name string) {
	a.mu.Lock()
	cwd := a.browser.Dir()
	a.mu.Unlock()

	var err error
	if dir {
		_, err = a.ops.CreateDir(cwd, name)
	} else {
		_, err = a.ops.CreateFile(cwd, name)
	}
	if err != nil {
		a.reportError(err)
	}
}

func (a *App) promptRename() {
	e, ok := a.selectedEntry()
	if !ok {
		return
	}
	entry := widget.NewEntry()
	entry.SetText(e.Name())
	dialog.ShowForm("Rename", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("New name", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			if _, err := a.ops.Rename(e.Path, entry.Text); err != nil {
				a.reportError(err)
			}
		}, a.mainWindow)
}

func (a *App) deleteSelected() {
	e, ok := a.selectedEntry()
	if !ok {
		return
	}
	needsConfirm, err := a.ops.NeedsConfirmation(e.Path)
	if err != nil {
		a.reportError(err)
		return
	}
	if !needsConfirm || !a.confirmDelete {
		a.remove(e.Path)
		return
	}

	kind := "file"
	if e.IsDir() {
		kind = "folder"
	}
	dialog.ShowConfirm("Delete "+kind,
		fmt.Sprintf("Delete %s %q and everything in it?", kind, e.Name()),
		func(ok bool) {
			if ok {
				a.remove(e.Path)
			}
		}, a.mainWindow)
}

func (a *App) remove(path string) {
	if err := a.ops.Delete(path); err != nil {
		a.reportError(err)
	}
}

// reportError queues err and shows it once earlier errors are dismissed.
func (a *App) reportError(err error) {
	log.LogWithError(err).Debug("reported to user")
	a.errMu.Lock()
	a.errors = append(a.errors, err)
	a.errMu.Unlock()
	a.showNextError()
}

func (a *App) showNextError() {
	a.errMu.Lock()
	if a.showingError || len(a.errors) == 0 {
		a.errMu.Unlock()
		return
	}
	err := a.errors[0]
	a.errors = a.errors[1:]
	a.showingError = true
	a.errMu.Unlock()

	d := dialog.NewError(err, a.mainWindow)
	d.SetOnClosed(func() {
		a.errMu.Lock()
		a.showingError = false
		a.errMu.Unlock()
		a.showNextError()
	})
	d.Show()
}

// pendingErrors counts errors not yet on screen.
func (a *App) pendingErrors() int {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return len(a.errors)
}

// ShowError displays an error message
func (a *App) ShowError(message string, err error) {
	log.Errorf("%s: %v", message, err)
	a.reportError(fmt.Errorf("%s: %w", message, err))
}

// ShowInfo displays an information message
func (a *App) ShowInfo(message string) {
	log.Info(message)
	dialog.ShowInformation("Info", message, a.mainWindow)
}
