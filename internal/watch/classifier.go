package watch

import (
	"os"

	"browsd/internal/log"
)

// KindProbe tells whether path currently exists and whether it is a
// directory. It is used only when a backend reports a creation without a kind.
type KindProbe func(path string) (kind EntryKind, exists bool)

// StatProbe is the default KindProbe, backed by os.Stat.
func StatProbe(path string) (EntryKind, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return File, false
	}
	if info.IsDir() {
		return Directory, true
	}
	return File, true
}

// Classify turns one raw backend event into zero or more changes. state is
// consulted and updated for renames reported in two halves. probe may be nil,
// in which case StatProbe is used.
func Classify(ev RawEvent, state *PairingState, probe KindProbe) []Change {
	changes, _ := classify(ev, state, probe)
	return changes
}

// classify also reports whether the event broke the rename protocol.
func classify(ev RawEvent, state *PairingState, probe KindProbe) ([]Change, bool) {
	if ev.NeedsRescan {
		state.Reset()
		return []Change{UnknownChange()}, false
	}

	switch ev.Kind {
	case RawCreateFile:
		return perPath(ev.Paths, func(p string) Change { return CreateChange(File, p) }), false

	case RawCreateDirectory:
		return perPath(ev.Paths, func(p string) Change { return CreateChange(Directory, p) }), false

	case RawCreateAny:
		if probe == nil {
			probe = StatProbe
		}
		var changes []Change
		for _, p := range ev.Paths {
			// Gone already: whatever removed it will be reported on its own.
			if kind, ok := probe(p); ok {
				changes = append(changes, CreateChange(kind, p))
			}
		}
		return changes, false

	case RawModifyData, RawModifySize, RawModifyMetadata, RawModifyAny:
		return perPath(ev.Paths, ModifyChange), false

	case RawRenameFrom:
		if len(ev.Paths) != 1 {
			return violation(state, "rename-from with %d paths", len(ev.Paths))
		}
		if stale, ok := state.Pending(); ok {
			log.LogWithFields(log.F("stale", stale), log.F("from", ev.Paths[0])).
				Warn("rename-from while another rename is pending, forcing rescan")
			state.store(ev.Paths[0])
			return []Change{UnknownChange()}, true
		}
		state.store(ev.Paths[0])
		return nil, false

	case RawRenameTo:
		if len(ev.Paths) != 1 {
			return violation(state, "rename-to with %d paths", len(ev.Paths))
		}
		from, ok := state.take()
		if !ok {
			return violation(state, "rename-to %s without rename-from", ev.Paths[0])
		}
		return []Change{RenameChange(from, ev.Paths[0])}, false

	case RawRenameBoth:
		if len(ev.Paths) != 2 {
			return violation(state, "rename-both with %d paths", len(ev.Paths))
		}
		return []Change{RenameChange(ev.Paths[0], ev.Paths[1])}, false

	case RawRemove:
		return perPath(ev.Paths, RemoveChange), false
	}

	return nil, false
}

func perPath(paths []string, fn func(string) Change) []Change {
	if len(paths) == 0 {
		return nil
	}
	changes := make([]Change, 0, len(paths))
	for _, p := range paths {
		changes = append(changes, fn(p))
	}
	return changes
}

func violation(state *PairingState, format string, args ...interface{}) ([]Change, bool) {
	log.Warnf("rename protocol violation: "+format, args...)
	state.Reset()
	return []Change{UnknownChange()}, true
}
