package watch

import (
	"sort"
	"time"
)

// moveHalf is one side of an inotify move.
type moveHalf struct {
	path  string
	from  bool
	isDir bool
	seen  time.Time
}

// unmatched is what a lone half means for the watched directory: a source
// without destination left it, a destination without source entered it.
func (h moveHalf) unmatched() RawEvent {
	paths := []string{h.path}
	switch {
	case h.from:
		return RawEvent{Kind: RawRemove, Paths: paths}
	case h.isDir:
		return RawEvent{Kind: RawCreateDirectory, Paths: paths}
	default:
		return RawEvent{Kind: RawCreateFile, Paths: paths}
	}
}

// movePairer joins the two halves of inotify moves on their cookie. The
// halves may arrive in either order, and a half whose partner is outside the
// watched directory never gets one. It is owned by the backend goroutine.
type movePairer struct {
	halves map[uint32]moveHalf
}

func newMovePairer() *movePairer {
	return &movePairer{halves: make(map[uint32]moveHalf)}
}

// Add records h and returns the raw events that became deliverable: a
// RawRenameBoth when h completes a pair. A half that repeats the direction of
// one already waiting under the same cookie releases the older one unmatched.
func (p *movePairer) Add(cookie uint32, h moveHalf) []RawEvent {
	other, ok := p.halves[cookie]
	if !ok {
		p.halves[cookie] = h
		return nil
	}
	if other.from == h.from {
		p.halves[cookie] = h
		return []RawEvent{other.unmatched()}
	}

	delete(p.halves, cookie)
	from, to := other, h
	if h.from {
		from, to = h, other
	}
	return []RawEvent{{Kind: RawRenameBoth, Paths: []string{from.path, to.path}}}
}

// Expire releases every half that has waited at least maxAge, oldest first.
func (p *movePairer) Expire(now time.Time, maxAge time.Duration) []RawEvent {
	var expired []moveHalf
	for cookie, h := range p.halves {
		if now.Sub(h.seen) >= maxAge {
			expired = append(expired, h)
			delete(p.halves, cookie)
		}
	}
	sort.SliceStable(expired, func(i, j int) bool { return expired[i].seen.Before(expired[j].seen) })

	raws := make([]RawEvent, 0, len(expired))
	for _, h := range expired {
		raws = append(raws, h.unmatched())
	}
	return raws
}

// Len returns the number of halves waiting for a partner.
func (p *movePairer) Len() int {
	return len(p.halves)
}

// Reset forgets every waiting half. Used when a rescan supersedes them.
func (p *movePairer) Reset() {
	p.halves = make(map[uint32]moveHalf)
}
