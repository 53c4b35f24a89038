package browse

import (
	"io"
	"os"
	"path/filepath"

	"browsd/internal/errors"
	"browsd/internal/log"
	"browsd/internal/watch"
)

// DefaultMaxChangesPerTick bounds how much work one Tick does after a burst.
const DefaultMaxChangesPerTick = 64

// Lister produces the children of a directory.
type Lister func(dir string, filter *Filter) ([]Entry, error)

// Browser is the UI-side session: the directory being shown, its cached
// view and the watcher feeding it. It is not safe for concurrent use; a UI
// calls it from its own loop only.
type Browser struct {
	watcher    watch.Watcher
	view       *View
	dir        string
	filter     *Filter
	list       Lister
	maxPerTick int
}

// Option configures a Browser.
type Option func(*Browser)

// WithFilter hides entries the filter rejects.
func WithFilter(f *Filter) Option {
	return func(b *Browser) { b.filter = f }
}

// WithLister replaces ListChildren.
func WithLister(l Lister) Option {
	return func(b *Browser) { b.list = l }
}

// WithMaxChangesPerTick sets how many queued changes Tick applies. Zero or
// less drains the queue completely.
func WithMaxChangesPerTick(n int) Option {
	return func(b *Browser) { b.maxPerTick = n }
}

// New builds a browser over dir. w must already be watching dir.
func New(dir string, w watch.Watcher, opts ...Option) (*Browser, error) {
	b := &Browser{
		watcher:    w,
		view:       NewView(nil),
		dir:        filepath.Clean(dir),
		list:       ListChildren,
		maxPerTick: DefaultMaxChangesPerTick,
	}
	for _, opt := range opts {
		opt(b)
	}

	entries, err := b.list(b.dir, b.filter)
	if err != nil {
		return nil, err
	}
	b.view.Replace(entries)
	return b, nil
}

// Dir returns the directory being browsed.
func (b *Browser) Dir() string {
	return b.dir
}

// View exposes the cached listing for rendering and selection.
func (b *Browser) View() *View {
	return b.view
}

// Entries returns a copy of the listing.
func (b *Browser) Entries() []Entry {
	return b.view.Entries()
}

// Retarget switches to dir. On failure the current directory, watch and
// listing are left exactly as they were.
func (b *Browser) Retarget(dir string) error {
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("directory not found", dir, errors.FileNotFound, err)
		}
		return errors.NewFileError("cannot open directory", dir, errors.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", dir, errors.NotDirectory, nil)
	}

	if err := b.watcher.Watch(dir); err != nil {
		return err
	}

	b.dir = dir
	b.relist(false)
	return nil
}

// Up moves to the parent directory. It is a no-op at the root.
func (b *Browser) Up() error {
	parent := filepath.Dir(b.dir)
	if parent == b.dir {
		return nil
	}
	return b.Retarget(parent)
}

// Refresh re-lists the current directory, keeping the selection when the
// selected entry is still there.
func (b *Browser) Refresh() {
	b.relist(true)
}

func (b *Browser) relist(keepSelection bool) {
	selected, hadSelection := b.view.Selected()

	entries, err := b.list(b.dir, b.filter)
	if err != nil {
		log.LogWithError(err).Warn("listing failed, showing an empty directory")
		entries = nil
	}
	b.view.Replace(entries)

	if keepSelection && hadSelection {
		b.view.Select(selected.Path)
	}
}

// PollChange takes one queued change without blocking.
func (b *Browser) PollChange() (watch.Change, bool) {
	return b.watcher.LookForChanges()
}

// TickResult reports what one Tick did.
type TickResult struct {
	Applied   int
	Rescanned bool
}

// Changed reports whether the listing may look different.
func (r TickResult) Changed() bool {
	return r.Applied > 0 || r.Rescanned
}

// Tick applies queued changes to the view, at most the configured number.
// An Unknown change flushes the rest of the queue and re-lists once.
func (b *Browser) Tick() TickResult {
	var res TickResult
	for b.maxPerTick <= 0 || res.Applied < b.maxPerTick {
		c, ok := b.PollChange()
		if !ok {
			break
		}
		res.Applied++
		if b.Apply(c) {
			res.Rescanned = true
			break
		}
	}
	return res
}

// Apply applies one change taken from the watcher. It reports whether the
// change forced a full re-list, in which case everything still queued has
// been discarded.
func (b *Browser) Apply(c watch.Change) (rescanned bool) {
	c, ok := b.admit(c)
	if !ok {
		return false
	}
	if !b.view.Apply(c) {
		return false
	}
	dropped := b.flush()
	log.LogWithFields(log.F("dir", b.dir), log.F("dropped", dropped)).Debug("rescan requested")
	b.Refresh()
	return true
}

// flush discards queued changes; a full re-list supersedes them.
func (b *Browser) flush() int {
	if d, ok := b.watcher.(interface{ Discard() int }); ok {
		return d.Discard()
	}
	n := 0
	for {
		if _, ok := b.watcher.LookForChanges(); !ok {
			return n
		}
		n++
	}
}

// admit drops changes that do not belong in this listing: paths outside the
// current directory (late events from a previous watch) and filtered names.
func (b *Browser) admit(c watch.Change) (watch.Change, bool) {
	switch c.Op {
	case watch.Unknown:
		return c, true
	case watch.Rename:
		fromOK := b.owns(c.From) && b.filter.Allows(c.From)
		toOK := b.owns(c.To) && b.filter.Allows(c.To)
		switch {
		case fromOK && toOK:
			return c, true
		case fromOK:
			return watch.RemoveChange(c.From), true
		case toOK:
			kind, exists := watch.StatProbe(c.To)
			if !exists {
				return c, false
			}
			return watch.CreateChange(kind, c.To), true
		}
		return c, false
	default:
		return c, b.owns(c.Path) && b.filter.Allows(c.Path)
	}
}

func (b *Browser) owns(path string) bool {
	return filepath.Dir(path) == b.dir
}

// Close stops the watcher if it can be stopped.
func (b *Browser) Close() error {
	if c, ok := b.watcher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
