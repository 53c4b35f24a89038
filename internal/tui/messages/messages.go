package messages

import "time"

// TickMsg asks the model to apply queued filesystem changes.
type TickMsg time.Time

type ErrorMsg struct {
	Err error
}

type DirectoryChangeMsg struct {
	Path  string
	Error error
}
