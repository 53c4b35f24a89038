// Package fileops performs the edits a user can make from the browser:
// create, rename, delete and open. It never touches the cached listing; the
// watcher reports the result back like any other change.
package fileops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"browsd/internal/errors"
	"browsd/internal/log"
)

// Operator defines the file operations available to the user interfaces.
// This allows for dependency injection in tests.
type Operator interface {
	// CreateFile creates an empty file named name inside dir
	CreateFile(dir, name string) (string, error)

	// CreateDir creates a directory named name inside dir
	CreateDir(dir, name string) (string, error)

	// Rename gives path a new base name within the same directory
	Rename(path, newName string) (string, error)

	// NeedsConfirmation reports whether deleting path could lose data
	NeedsConfirmation(path string) (bool, error)

	// Delete removes path; non-empty directories are removed recursively
	Delete(path string) error

	// OpenFile hands a file to the system's default application
	OpenFile(path string) error
}

// Engine is the Operator working on the real filesystem.
type Engine struct {
	opener func(path string) *exec.Cmd
}

// Ensure Engine implements the Operator interface
var _ Operator = (*Engine)(nil)

// New creates an engine that opens files with the platform opener.
func New() *Engine {
	return &Engine{opener: systemOpener}
}

// validateName rejects names that would escape the directory.
func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.NewFileError("name cannot be empty", name, errors.InvalidPath, nil)
	case name == "." || name == "..":
		return errors.NewFileError("reserved name", name, errors.InvalidPath, nil)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return errors.NewFileError("name cannot contain a path separator", name, errors.InvalidPath, nil)
	}
	return nil
}

func wrapOpError(msg, path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return errors.NewFileError(msg, path, errors.FileNotFound, err)
	case os.IsPermission(err):
		return errors.NewFileError(msg, path, errors.FileAccessDenied, err)
	case os.IsExist(err):
		return errors.NewFileError(msg, path, errors.FileCreateFailed, err)
	}
	return errors.NewFileError(msg, path, errors.FileOperationFailed, err)
}

// CreateFile creates an empty file. An existing file is never truncated.
func (e *Engine) CreateFile(dir, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", wrapOpError("cannot create file", path, err)
	}
	if err := f.Close(); err != nil {
		return "", wrapOpError("cannot create file", path, err)
	}
	log.Debugf("Created file %s", path)
	return path, nil
}

// CreateDir creates a single directory.
func (e *Engine) CreateDir(dir, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.Mkdir(path, 0755); err != nil {
		return "", wrapOpError("cannot create directory", path, err)
	}
	log.Debugf("Created directory %s", path)
	return path, nil
}

// Rename renames path in place. Renaming onto an existing entry fails
// instead of replacing it.
func (e *Engine) Rename(path, newName string) (string, error) {
	if err := validateName(newName); err != nil {
		return "", err
	}
	cleanSrc := filepath.Clean(path)
	dest := filepath.Join(filepath.Dir(cleanSrc), newName)
	if dest == cleanSrc {
		return dest, nil
	}

	if _, err := os.Lstat(cleanSrc); err != nil {
		return "", wrapOpError("cannot rename", cleanSrc, err)
	}
	if _, err := os.Lstat(dest); err == nil {
		return "", errors.NewFileError("destination already exists", dest, errors.FileOperationFailed, nil)
	}

	if err := os.Rename(cleanSrc, dest); err != nil {
		return "", wrapOpError("cannot rename", cleanSrc, err)
	}
	log.Debugf("Renamed %s -> %s", cleanSrc, dest)
	return dest, nil
}

// NeedsConfirmation is true for files with content and for directories that
// are not empty. Anything else can be deleted straight away.
func (e *Engine) NeedsConfirmation(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, wrapOpError("cannot inspect", path, err)
	}
	if !info.IsDir() {
		return info.Mode().IsRegular() && info.Size() > 0, nil
	}

	d, err := os.Open(path)
	if err != nil {
		return false, wrapOpError("cannot inspect", path, err)
	}
	defer d.Close()
	names, err := d.Readdirnames(1)
	if err != nil && len(names) == 0 {
		// io.EOF: empty directory
		return false, nil
	}
	return len(names) > 0, nil
}

// Delete removes path. Directories go recursively, so callers check
// NeedsConfirmation first.
func (e *Engine) Delete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return wrapOpError("cannot delete", path, err)
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return wrapOpError("cannot delete", path, err)
	}
	log.Debugf("Deleted %s", path)
	return nil
}

// OpenFile starts the platform opener on path without waiting for it.
func (e *Engine) OpenFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return wrapOpError("cannot open", path, err)
	}
	cmd := e.opener(path)
	if cmd == nil {
		return errors.NewFileError(fmt.Sprintf("no opener for %s", runtime.GOOS), path, errors.FileOperationFailed, nil)
	}
	if err := cmd.Start(); err != nil {
		return errors.NewFileError("cannot open", path, errors.FileOperationFailed, err)
	}
	// reap the child so it does not linger as a zombie
	go func() { _ = cmd.Wait() }()
	return nil
}

func systemOpener(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path)
	}
	return nil
}
