package gui

import (
	"time"

	"browsd/internal/browse"
	"browsd/internal/fileops"
)

// Interface defines the contract for GUI operations
type Interface interface {
	Run()
	ShowError(title string, err error)
	ShowInfo(message string)
}

// Factory creates GUI instances
type Factory struct {
	browser       *browse.Browser
	ops           fileops.Operator
	notifier      *Notifier
	interval      time.Duration
	confirmDelete bool
}

// NewFactory creates a new GUI factory
func NewFactory(b *browse.Browser, ops fileops.Operator, notifier *Notifier, interval time.Duration, confirmDelete bool) *Factory {
	return &Factory{
		browser:       b,
		ops:           ops,
		notifier:      notifier,
		interval:      interval,
		confirmDelete: confirmDelete,
	}
}

// Notifier coalesces change notifications from the watcher into at most one
// pending wake-up for the tick loop.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a notifier with room for one pending wake-up.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify never blocks; it is called from the watcher's goroutine.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// C is closed over by the tick loop. A nil notifier yields a nil channel,
// which never fires.
func (n *Notifier) C() <-chan struct{} {
	if n == nil {
		return nil
	}
	return n.ch
}
