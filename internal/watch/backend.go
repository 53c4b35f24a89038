package watch

import (
	"fmt"
	"sort"
)

// Backend is a platform watch mechanism. Implementations observe single
// directories non-recursively and hand every notification to the deliver
// function they were built with, always from the same goroutine.
type Backend interface {
	Add(path string) error
	Remove(path string) error
	Close() error
}

// BackendFactory builds a Backend that reports to deliver. onError receives
// delivery errors that could not be turned into events.
type BackendFactory func(deliver func(RawEvent), onError func(error)) (Backend, error)

const (
	BackendFsnotify = "fsnotify"
	BackendNotify   = "notify"
)

var backends = map[string]BackendFactory{
	BackendFsnotify: newFsnotifyBackend,
	BackendNotify:   newNotifyBackend,
}

// LookupBackend returns the factory registered under name.
func LookupBackend(name string) (BackendFactory, error) {
	if name == "" {
		name = BackendFsnotify
	}
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown watch backend %q (available: %v)", name, BackendNames())
	}
	return factory, nil
}

// BackendNames lists the registered backends.
func BackendNames() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
