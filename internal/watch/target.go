package watch

import (
	"io/fs"
	"syscall"

	"browsd/internal/errors"
	"browsd/internal/log"

	"github.com/fsnotify/fsnotify"
)

// TargetManager owns the backend watch and the directory it currently points
// at. Retarget is all-or-nothing. It is used from the UI goroutine only.
type TargetManager struct {
	backend Backend
	current string
}

// NewTargetManager wraps backend. Nothing is watched until the first Retarget.
func NewTargetManager(backend Backend) *TargetManager {
	return &TargetManager{backend: backend}
}

// Current returns the directory being watched, or "" before the first
// successful Retarget.
func (m *TargetManager) Current() string {
	return m.current
}

// Retarget stops watching the current directory and starts watching
// newPath. If newPath cannot be watched the previous target stays current
// and the returned error is a *errors.WatchError.
func (m *TargetManager) Retarget(newPath string) error {
	old := m.current
	if old != "" {
		if err := m.backend.Remove(old); err != nil {
			// the old directory may already be gone
			log.LogWithFields(log.F("path", old), log.F("error", err)).Debug("unwatch failed")
		}
	}

	if err := m.backend.Add(newPath); err != nil {
		retargets.WithLabelValues("failed").Inc()
		werr := translateWatchError(newPath, err)
		if old != "" {
			if rerr := m.backend.Add(old); rerr != nil {
				log.LogWithFields(log.F("path", old), log.F("error", rerr)).Warn("could not restore previous watch")
			}
		}
		return werr
	}

	m.current = newPath
	retargets.WithLabelValues("ok").Inc()
	log.LogWithFields(log.F("path", newPath)).Debug("watching directory")
	return nil
}

// translateWatchError sorts backend errors into the three watch error kinds.
func translateWatchError(path string, err error) *errors.WatchError {
	var pathErr *fs.PathError
	var errno syscall.Errno

	switch {
	case errors.Is(err, fsnotify.ErrClosed), errors.Is(err, fsnotify.ErrNonExistentWatch):
		return errors.NewWatchError(path, errors.WatchInternal, err)
	case errors.As(err, &pathErr), errors.As(err, &errno):
		return errors.NewWatchError(path, errors.WatchIO, err)
	default:
		return errors.NewWatchError(path, errors.WatchGeneric, err)
	}
}
