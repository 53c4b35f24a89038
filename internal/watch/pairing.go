package watch

// PairingState holds the source path of a rename reported in two halves
// while waiting for its destination. It belongs to the goroutine that
// receives backend events and must not be shared.
type PairingState struct {
	pendingFrom string
	pending     bool
}

// Pending returns the stored rename source, if any.
func (s *PairingState) Pending() (string, bool) {
	return s.pendingFrom, s.pending
}

func (s *PairingState) store(path string) {
	s.pendingFrom = path
	s.pending = true
}

func (s *PairingState) take() (string, bool) {
	from, ok := s.pendingFrom, s.pending
	s.Reset()
	return from, ok
}

// Reset drops any in-flight rename.
func (s *PairingState) Reset() {
	s.pendingFrom = ""
	s.pending = false
}
