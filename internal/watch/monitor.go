package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"browsd/internal/log"
)

// MonitorStatus represents the current status of a monitor
type MonitorStatus struct {
	Running          bool      // Whether the monitor loop is active
	Directory        string    // Directory being watched, if known
	LastActivity     time.Time // Time the last change was handed out
	ChangesProcessed int       // Total changes handed to the callback
}

// Monitor drains a Watcher on a fixed interval and hands every change to a
// callback. It is the headless counterpart of a UI tick loop.
type Monitor struct {
	watcher  Watcher
	interval time.Duration

	// Statistics
	processed    int
	lastActivity time.Time

	// Callback for every change taken from the queue
	callback func(Change)

	// Lock for modifications
	mutex sync.RWMutex

	running bool
}

// NewMonitor creates a monitor polling w every interval.
func NewMonitor(w Watcher, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Monitor{
		watcher:  w,
		interval: interval,
	}
}

// SetCallback sets a function to be called for each change
func (m *Monitor) SetCallback(cb func(Change)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.callback = cb
}

// Run polls until ctx is cancelled. Only one Run may be active at a time.
func (m *Monitor) Run(ctx context.Context) error {
	m.mutex.Lock()
	if m.running {
		m.mutex.Unlock()
		return fmt.Errorf("monitor is already running")
	}
	m.running = true
	m.mutex.Unlock()

	defer func() {
		m.mutex.Lock()
		m.running = false
		m.mutex.Unlock()
	}()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.LogWithFields(log.F("interval", m.interval)).Debug("monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Debug("monitor stopped")
			return nil
		case <-ticker.C:
			m.drain()
		}
	}
}

// drain hands out everything currently queued.
func (m *Monitor) drain() int {
	n := 0
	for {
		c, ok := m.watcher.LookForChanges()
		if !ok {
			return n
		}
		n++

		m.mutex.Lock()
		m.processed++
		m.lastActivity = time.Now()
		cb := m.callback
		m.mutex.Unlock()

		if cb != nil {
			cb(c)
		}
	}
}

// Status returns the current status of the monitor
func (m *Monitor) Status() MonitorStatus {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	status := MonitorStatus{
		Running:          m.running,
		LastActivity:     m.lastActivity,
		ChangesProcessed: m.processed,
	}
	if cw, ok := m.watcher.(interface{ Current() string }); ok {
		status.Directory = cw.Current()
	}
	return status
}
