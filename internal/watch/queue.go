package watch

import "sync"

// ChangeQueue is an unbounded FIFO carrying changes from the backend
// goroutine to the UI. Push never blocks and TryTake never waits.
type ChangeQueue struct {
	mu      sync.Mutex
	changes []Change
}

// NewChangeQueue returns an empty queue.
func NewChangeQueue() *ChangeQueue {
	return &ChangeQueue{}
}

// Push appends changes in order.
func (q *ChangeQueue) Push(changes ...Change) {
	if len(changes) == 0 {
		return
	}
	q.mu.Lock()
	q.changes = append(q.changes, changes...)
	depth := len(q.changes)
	q.mu.Unlock()
	queueDepth.Set(float64(depth))
}

// TryTake removes and returns the oldest change, if there is one.
func (q *ChangeQueue) TryTake() (Change, bool) {
	q.mu.Lock()
	if len(q.changes) == 0 {
		q.mu.Unlock()
		return Change{}, false
	}
	c := q.changes[0]
	q.changes[0] = Change{}
	q.changes = q.changes[1:]
	if len(q.changes) == 0 {
		// release the backing array after a burst
		q.changes = nil
	}
	depth := len(q.changes)
	q.mu.Unlock()
	queueDepth.Set(float64(depth))
	return c, true
}

// Drain discards everything queued and returns how many changes were dropped.
func (q *ChangeQueue) Drain() int {
	q.mu.Lock()
	n := len(q.changes)
	q.changes = nil
	q.mu.Unlock()
	queueDepth.Set(0)
	return n
}

// Len returns the number of queued changes.
func (q *ChangeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.changes)
}
