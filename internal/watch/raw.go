package watch

// RawKind is the backend's own description of what happened, before
// normalization. Backends translate into these; the classifier only
// recognizes the kinds listed here.
type RawKind int

const (
	RawOther RawKind = iota
	RawAccess
	RawCreateFile
	RawCreateDirectory
	// RawCreateAny is a creation where the backend did not say file or directory.
	RawCreateAny
	RawModifyData
	RawModifySize
	RawModifyMetadata
	RawModifyAny
	// RawRenameFrom carries the old name of a rename reported in two halves.
	RawRenameFrom
	// RawRenameTo carries the new name matching the last RawRenameFrom.
	RawRenameTo
	// RawRenameBoth carries both names in a single event: [from, to].
	RawRenameBoth
	RawRemove
)

var rawKindNames = map[RawKind]string{
	RawOther:           "other",
	RawAccess:          "access",
	RawCreateFile:      "create-file",
	RawCreateDirectory: "create-directory",
	RawCreateAny:       "create-any",
	RawModifyData:      "modify-data",
	RawModifySize:      "modify-size",
	RawModifyMetadata:  "modify-metadata",
	RawModifyAny:       "modify-any",
	RawRenameFrom:      "rename-from",
	RawRenameTo:        "rename-to",
	RawRenameBoth:      "rename-both",
	RawRemove:          "remove",
}

func (k RawKind) String() string {
	if name, ok := rawKindNames[k]; ok {
		return name
	}
	return "other"
}

// RawEvent is one notification as delivered by a Backend.
type RawEvent struct {
	Kind  RawKind
	Paths []string
	// NeedsRescan is the backend admitting it lost track (overflow,
	// coalescing). It overrides Kind.
	NeedsRescan bool
}

// RescanEvent is a raw event that only carries the rescan flag.
func RescanEvent() RawEvent {
	return RawEvent{NeedsRescan: true}
}
