package browse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Filter decides which children are shown. Patterns use gobwas/glob syntax
// and are matched against the base name.
type Filter struct {
	showHidden bool
	patterns   []glob.Glob
	raw        []string
}

// NewFilter compiles the ignore patterns.
func NewFilter(showHidden bool, ignore []string) (*Filter, error) {
	f := &Filter{showHidden: showHidden}
	for _, p := range ignore {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, g)
		f.raw = append(f.raw, p)
	}
	return f, nil
}

// Allows reports whether path should appear in the listing. A nil filter
// allows everything.
func (f *Filter) Allows(path string) bool {
	if f == nil {
		return true
	}
	name := filepath.Base(path)
	if !f.showHidden && strings.HasPrefix(name, ".") {
		return false
	}
	for _, g := range f.patterns {
		if g.Match(name) {
			return false
		}
	}
	return true
}

// Patterns returns the ignore patterns as given.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.raw...)
}
