//go:build linux

package watch

import (
	"sync"
	"time"

	"browsd/internal/log"

	"github.com/syncthing/notify"
	"golang.org/x/sys/unix"
)

// notify does not block on sending to the channel, so it must be buffered.
// When the buffer fills up events have been lost and a rescan is requested.
var notifyBuffer = 500

var notifyEvents = []notify.Event{
	notify.InCreate,
	notify.InDelete,
	notify.InModify,
	notify.InAttrib,
	notify.InCloseWrite,
	notify.InMovedFrom,
	notify.InMovedTo,
}

// moveTimeout is how long one half of a move waits for its partner. A half
// that times out was a move into or out of the watched directory.
var moveTimeout = 100 * time.Millisecond

// notifyBackend talks to inotify through syncthing/notify. Unlike fsnotify it
// says whether a created entry is a directory, and the two halves of a rename
// carry a shared cookie, so renames can be reported as such.
type notifyBackend struct {
	events  chan notify.EventInfo
	deliver func(RawEvent)
	moves   *movePairer

	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
}

func newNotifyBackend(deliver func(RawEvent), onError func(error)) (Backend, error) {
	b := &notifyBackend{
		events:   make(chan notify.EventInfo, notifyBuffer),
		deliver:  deliver,
		moves:    newMovePairer(),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.loop()
	return b, nil
}

func (b *notifyBackend) Add(path string) error {
	if err := notify.Watch(path, b.events, notifyEvents...); err != nil {
		notify.Stop(b.events)
		return err
	}
	return nil
}

// Remove stops every watch on the channel; the backend only ever holds one.
func (b *notifyBackend) Remove(path string) error {
	notify.Stop(b.events)
	return nil
}

func (b *notifyBackend) Close() error {
	b.once.Do(func() {
		notify.Stop(b.events)
		close(b.stopChan)
		<-b.done
	})
	return nil
}

func (b *notifyBackend) loop() {
	defer close(b.done)

	expiry := time.NewTimer(moveTimeout)
	expiry.Stop()
	var expiryC <-chan time.Time

	for {
		if len(b.events) == cap(b.events) {
		outer:
			for {
				select {
				case <-b.events:
				default:
					break outer
				}
			}
			log.Debug("notify: event buffer overflow, requesting rescan")
			b.moves.Reset()
			b.deliver(RescanEvent())
		}

		select {
		case ei := <-b.events:
			b.handle(ei, time.Now())
		case now := <-expiryC:
			expiryC = nil
			for _, raw := range b.moves.Expire(now, moveTimeout) {
				b.deliver(raw)
			}
		case <-b.stopChan:
			return
		}

		if expiryC == nil && b.moves.Len() > 0 {
			expiry.Reset(moveTimeout)
			expiryC = expiry.C
		}
	}
}

func (b *notifyBackend) handle(ei notify.EventInfo, now time.Time) {
	sys, ok := ei.Sys().(*unix.InotifyEvent)
	if !ok {
		return
	}
	mask := sys.Mask

	if mask&unix.IN_Q_OVERFLOW == 0 && mask&(unix.IN_MOVED_FROM|unix.IN_MOVED_TO) != 0 {
		half := moveHalf{
			path:  ei.Path(),
			from:  mask&unix.IN_MOVED_FROM != 0,
			isDir: mask&unix.IN_ISDIR != 0,
			seen:  now,
		}
		for _, raw := range b.moves.Add(sys.Cookie, half) {
			b.deliver(raw)
		}
		return
	}

	if raw, ok := translateInotifyMask(mask, ei.Path()); ok {
		if raw.NeedsRescan {
			b.moves.Reset()
		}
		b.deliver(raw)
	}
}

// translateInotifyMask handles everything except move halves, which go
// through the movePairer.
func translateInotifyMask(mask uint32, path string) (RawEvent, bool) {
	paths := []string{path}
	isDir := mask&unix.IN_ISDIR != 0

	switch {
	case mask&unix.IN_Q_OVERFLOW != 0:
		return RescanEvent(), true
	case mask&unix.IN_CREATE != 0:
		if isDir {
			return RawEvent{Kind: RawCreateDirectory, Paths: paths}, true
		}
		return RawEvent{Kind: RawCreateFile, Paths: paths}, true
	case mask&unix.IN_DELETE != 0:
		return RawEvent{Kind: RawRemove, Paths: paths}, true
	case mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) != 0:
		return RawEvent{Kind: RawModifyData, Paths: paths}, true
	case mask&unix.IN_ATTRIB != 0:
		return RawEvent{Kind: RawModifyMetadata, Paths: paths}, true
	}
	return RawEvent{}, false
}
