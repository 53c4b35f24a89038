package watch

import "fmt"

// Op identifies what a Change describes.
type Op int

const (
	// Unknown means the cached listing is stale and must be rebuilt from disk.
	Unknown Op = iota
	Create
	Remove
	Rename
	Modify
)

func (o Op) String() string {
	switch o {
	case Unknown:
		return "unknown"
	case Create:
		return "create"
	case Remove:
		return "remove"
	case Rename:
		return "rename"
	case Modify:
		return "modify"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// EntryKind is the kind of a created entry.
type EntryKind int

const (
	File EntryKind = iota
	Directory
)

func (k EntryKind) String() string {
	if k == Directory {
		return "directory"
	}
	return "file"
}

// Change is a normalized, backend independent filesystem change.
//
// Path is set for Create, Remove and Modify. From and To are set for Rename.
// Kind is only meaningful for Create. Unknown carries no path.
type Change struct {
	Op   Op
	Kind EntryKind
	Path string
	From string
	To   string
}

// UnknownChange asks the consumer to discard its cache and re-list.
func UnknownChange() Change { return Change{Op: Unknown} }

// CreateChange reports a new entry of the given kind.
func CreateChange(kind EntryKind, path string) Change {
	return Change{Op: Create, Kind: kind, Path: path}
}

// RemoveChange reports that path is gone.
func RemoveChange(path string) Change { return Change{Op: Remove, Path: path} }

// RenameChange reports that from is now called to.
func RenameChange(from, to string) Change { return Change{Op: Rename, From: from, To: to} }

// ModifyChange reports a content or metadata change on path.
func ModifyChange(path string) Change { return Change{Op: Modify, Path: path} }

func (c Change) String() string {
	switch c.Op {
	case Unknown:
		return "unknown"
	case Create:
		return fmt.Sprintf("create %s %s", c.Kind, c.Path)
	case Rename:
		return fmt.Sprintf("rename %s -> %s", c.From, c.To)
	default:
		return fmt.Sprintf("%s %s", c.Op, c.Path)
	}
}
