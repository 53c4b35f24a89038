package components

import (
	"path/filepath"
	"strings"

	"browsd/internal/browse"
	"browsd/internal/tui/styles"
)

// Breadcrumbs renders dir as its chain of parents.
func Breadcrumbs(dir string, s styles.Styles) string {
	chain := browse.Ancestors(dir)
	parts := make([]string, 0, len(chain))
	for i, p := range chain {
		name := filepath.Base(p)
		if i == 0 {
			name = p
		}
		if i == len(chain)-1 {
			parts = append(parts, s.Title.Render(name))
			continue
		}
		parts = append(parts, s.Breadcrumb.Render(name))
	}
	return strings.Join(parts, s.Details.Render(" › "))
}
