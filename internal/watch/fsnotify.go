package watch

import (
	"errors"
	"fmt"
	"sync"

	"browsd/internal/log"

	"github.com/fsnotify/fsnotify"
)

// fsnotifyBackend is the portable backend. fsnotify reports the old name of a
// rename as Rename and the new name, if it stayed in the directory, as a
// Create with no kind, so renames surface as remove + create.
type fsnotifyBackend struct {
	fsWatcher *fsnotify.Watcher
	deliver   func(RawEvent)
	onError   func(error)

	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
}

func newFsnotifyBackend(deliver func(RawEvent), onError func(error)) (Backend, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	b := &fsnotifyBackend{
		fsWatcher: fsWatcher,
		deliver:   deliver,
		onError:   onError,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	go b.loop()
	return b, nil
}

func (b *fsnotifyBackend) Add(path string) error {
	return b.fsWatcher.Add(path)
}

func (b *fsnotifyBackend) Remove(path string) error {
	return b.fsWatcher.Remove(path)
}

func (b *fsnotifyBackend) Close() error {
	var err error
	b.once.Do(func() {
		close(b.stopChan)
		err = b.fsWatcher.Close()
		<-b.done
	})
	return err
}

func (b *fsnotifyBackend) loop() {
	defer close(b.done)
	log.Debug("fsnotify event loop started")

	for {
		select {
		case event, ok := <-b.fsWatcher.Events:
			if !ok {
				return
			}
			for _, raw := range translateFsnotify(event) {
				b.deliver(raw)
			}

		case err, ok := <-b.fsWatcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				b.deliver(RescanEvent())
				continue
			}
			if b.onError != nil {
				b.onError(err)
			}

		case <-b.stopChan:
			return
		}
	}
}

// translateFsnotify splits an fsnotify event into raw events, one per op bit.
func translateFsnotify(event fsnotify.Event) []RawEvent {
	var raws []RawEvent
	paths := []string{event.Name}

	if event.Has(fsnotify.Create) {
		raws = append(raws, RawEvent{Kind: RawCreateAny, Paths: paths})
	}
	if event.Has(fsnotify.Write) {
		raws = append(raws, RawEvent{Kind: RawModifyData, Paths: paths})
	}
	if event.Has(fsnotify.Chmod) {
		raws = append(raws, RawEvent{Kind: RawModifyMetadata, Paths: paths})
	}
	if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
		raws = append(raws, RawEvent{Kind: RawRemove, Paths: paths})
	}
	return raws
}
