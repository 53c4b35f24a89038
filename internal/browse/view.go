// Package browse holds the cached listing of one directory and keeps it in
// step with the changes reported by the watch package.
package browse

import (
	"path/filepath"

	"browsd/internal/watch"
)

// Entry is one child of the browsed directory. Selection is stored on the
// entry itself so it follows the entry when others are inserted or removed.
type Entry struct {
	Path     string
	Kind     watch.EntryKind
	Selected bool
}

// Name returns the base name of the entry.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == watch.Directory
}

// View is the ordered, in-memory listing. Entries keep discovery order and
// are matched by path, never by index.
type View struct {
	entries []Entry
}

// NewView returns a view holding entries.
func NewView(entries []Entry) *View {
	v := &View{}
	v.Replace(entries)
	return v
}

// Apply mutates the view according to c. It returns true when c is
// watch.Unknown: the caller must then re-list the directory and Replace the
// view wholesale. Changes naming paths the view does not hold are ignored.
func (v *View) Apply(c watch.Change) (rescan bool) {
	switch c.Op {
	case watch.Unknown:
		return true

	case watch.Create:
		// Duplicate notifications are kept as duplicate entries.
		v.entries = append(v.entries, Entry{Path: c.Path, Kind: c.Kind})

	case watch.Remove:
		if i := v.Index(c.Path); i >= 0 {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
		}

	case watch.Rename:
		if i := v.Index(c.From); i >= 0 {
			v.entries[i] = Entry{Path: c.To, Kind: v.entries[i].Kind}
		}

	case watch.Modify:
		// nothing to update in a name-only listing
	}
	return false
}

// Replace discards the view and installs entries.
func (v *View) Replace(entries []Entry) {
	v.entries = make([]Entry, len(entries))
	copy(v.entries, entries)
}

// Entries returns a copy of the current listing.
func (v *View) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Len returns the number of entries.
func (v *View) Len() int {
	return len(v.entries)
}

// At returns the entry at index i.
func (v *View) At(i int) (Entry, bool) {
	if i < 0 || i >= len(v.entries) {
		return Entry{}, false
	}
	return v.entries[i], true
}

// Index returns the position of the first entry with path, or -1.
func (v *View) Index(path string) int {
	for i := range v.entries {
		if v.entries[i].Path == path {
			return i
		}
	}
	return -1
}

// Select marks the entry with path as the only selected entry.
func (v *View) Select(path string) bool {
	i := v.Index(path)
	if i < 0 {
		return false
	}
	v.ClearSelection()
	v.entries[i].Selected = true
	return true
}

// Deselect clears the selection flag on path.
func (v *View) Deselect(path string) {
	if i := v.Index(path); i >= 0 {
		v.entries[i].Selected = false
	}
}

// ClearSelection deselects everything.
func (v *View) ClearSelection() {
	for i := range v.entries {
		v.entries[i].Selected = false
	}
}

// Selected returns the selected entry, if any.
func (v *View) Selected() (Entry, bool) {
	for _, e := range v.entries {
		if e.Selected {
			return e, true
		}
	}
	return Entry{}, false
}
