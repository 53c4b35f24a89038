package watch

import (
	"fmt"
	"sync"

	"browsd/internal/log"
)

// Watcher is everything a UI needs from the watch subsystem: point it at a
// directory and poll for changes once per tick.
type Watcher interface {
	Watch(path string) error
	LookForChanges() (Change, bool)
}

// FileSystemWatcher classifies backend events on the backend's goroutine and
// queues the resulting changes for the UI.
type FileSystemWatcher struct {
	backend Backend
	target  *TargetManager
	queue   *ChangeQueue

	// Lock for closed; everything else is either immutable or owned by one side
	mutex  sync.Mutex
	closed bool
}

// Option configures a FileSystemWatcher.
type Option func(*watcherOptions)

type watcherOptions struct {
	factory  BackendFactory
	onChange func()
	probe    KindProbe
}

// WithBackend selects a registered backend by name.
func WithBackend(name string) Option {
	return func(o *watcherOptions) {
		if factory, err := LookupBackend(name); err == nil {
			o.factory = factory
		} else {
			log.Warnf("%v, falling back to %s", err, BackendFsnotify)
		}
	}
}

// WithBackendFactory supplies the backend directly.
func WithBackendFactory(factory BackendFactory) Option {
	return func(o *watcherOptions) { o.factory = factory }
}

// WithOnChange registers a callback run on the backend goroutine after
// changes were queued, so a UI can wake up and redraw.
func WithOnChange(fn func()) Option {
	return func(o *watcherOptions) { o.onChange = fn }
}

// WithKindProbe replaces the os.Stat probe used for creations of unknown kind.
func WithKindProbe(probe KindProbe) Option {
	return func(o *watcherOptions) { o.probe = probe }
}

// NewFileSystemWatcher starts a backend and watches path.
func NewFileSystemWatcher(path string, opts ...Option) (*FileSystemWatcher, error) {
	o := &watcherOptions{factory: newFsnotifyBackend, probe: StatProbe}
	for _, opt := range opts {
		opt(o)
	}

	w := &FileSystemWatcher{queue: NewChangeQueue()}

	// The pairing state lives in this closure; only the backend goroutine
	// ever calls it.
	state := &PairingState{}
	deliver := func(ev RawEvent) {
		rawEvents.WithLabelValues(rawKindLabel(ev)).Inc()
		changes, violated := classify(ev, state, o.probe)
		if violated {
			protocolViolations.Inc()
		}
		if len(changes) == 0 {
			return
		}
		for _, c := range changes {
			classifiedChanges.WithLabelValues(c.Op.String()).Inc()
		}
		w.queue.Push(changes...)
		if o.onChange != nil {
			o.onChange()
		}
	}
	onError := func(err error) {
		// Dropped: a later rescan or real event resynchronizes the view.
		backendErrors.Inc()
		log.LogWithFields(log.F("error", err)).Warn("watch backend error")
	}

	backend, err := o.factory(deliver, onError)
	if err != nil {
		return nil, err
	}
	w.backend = backend
	w.target = NewTargetManager(backend)

	if err := w.target.Retarget(path); err != nil {
		backend.Close()
		return nil, err
	}
	return w, nil
}

func rawKindLabel(ev RawEvent) string {
	if ev.NeedsRescan {
		return "rescan"
	}
	return ev.Kind.String()
}

// Watch switches the watched directory. On error nothing changes.
func (w *FileSystemWatcher) Watch(path string) error {
	w.mutex.Lock()
	closed := w.closed
	w.mutex.Unlock()
	if closed {
		return fmt.Errorf("watcher is closed")
	}
	return w.target.Retarget(path)
}

// LookForChanges returns the oldest queued change without blocking.
func (w *FileSystemWatcher) LookForChanges() (Change, bool) {
	return w.queue.TryTake()
}

// Discard drops every queued change. Used after a full rescan, which
// supersedes anything still waiting.
func (w *FileSystemWatcher) Discard() int {
	return w.queue.Drain()
}

// Pending returns the number of queued changes.
func (w *FileSystemWatcher) Pending() int {
	return w.queue.Len()
}

// Current returns the watched directory.
func (w *FileSystemWatcher) Current() string {
	return w.target.Current()
}

// Close stops the backend. Queued changes can still be read.
func (w *FileSystemWatcher) Close() error {
	w.mutex.Lock()
	if w.closed {
		w.mutex.Unlock()
		return nil
	}
	w.closed = true
	w.mutex.Unlock()
	return w.backend.Close()
}
