//go:build !linux

package watch

import "fmt"

// The notify backend relies on inotify's split rename events; elsewhere use fsnotify.
func newNotifyBackend(deliver func(RawEvent), onError func(error)) (Backend, error) {
	return nil, fmt.Errorf("the %q watch backend is only available on linux", BackendNotify)
}
