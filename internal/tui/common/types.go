package common

import (
	"browsd/internal/browse"
	"browsd/internal/tui/styles"
)

type Mode int

const (
	Normal Mode = iota
	Prompt
	Confirm
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Entries() []browse.Entry
	Cursor() int
	Mode() Mode
	CurrentDir() string
	PromptView() string
	ConfirmTarget() string
	CurrentError() (string, int)
	Status() string
	HelpView() string
	Styles() styles.Styles
	Height() int
}
