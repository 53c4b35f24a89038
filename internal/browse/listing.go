package browse

import (
	"os"
	"path/filepath"

	"browsd/internal/errors"
	"browsd/internal/watch"
)

// ListChildren returns the immediate children of dir allowed by filter, in
// the order the directory yields them. Entries that cannot be inspected are
// skipped silently.
func ListChildren(dir string, filter *Filter) ([]Entry, error) {
	f, err := os.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("directory not found", dir, errors.FileNotFound, err)
		}
		if os.IsPermission(err) {
			return nil, errors.NewFileError("cannot read directory", dir, errors.FileAccessDenied, err)
		}
		return nil, errors.Wrapf(err, "cannot read directory %s", dir)
	}
	defer f.Close()

	// ReadDir on the handle keeps the on-disk order instead of sorting.
	dirEntries, err := f.ReadDir(-1)
	if err != nil && len(dirEntries) == 0 {
		return nil, errors.Wrapf(err, "cannot read directory %s", dir)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := filepath.Join(dir, de.Name())
		if !filter.Allows(path) {
			continue
		}
		kind, ok := entryKind(path, de)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Path: path, Kind: kind})
	}
	return entries, nil
}

// entryKind resolves symlinks so a link to a directory browses like one.
func entryKind(path string, de os.DirEntry) (watch.EntryKind, bool) {
	if de.Type()&os.ModeSymlink == 0 {
		if de.IsDir() {
			return watch.Directory, true
		}
		return watch.File, true
	}
	info, err := os.Stat(path)
	if err != nil {
		// dangling link
		if _, lerr := os.Lstat(path); lerr == nil {
			return watch.File, true
		}
		return watch.File, false
	}
	if info.IsDir() {
		return watch.Directory, true
	}
	return watch.File, true
}

// Ancestors returns dir and each of its parents, root first.
func Ancestors(dir string) []string {
	dir = filepath.Clean(dir)
	var chain []string
	for {
		chain = append([]string{dir}, chain...)
		parent := filepath.Dir(dir)
		if parent == dir {
			return chain
		}
		dir = parent
	}
}
