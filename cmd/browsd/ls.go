package main

import (
	"fmt"
	"os"
	"sort"

	"browsd/internal/analysis"
	"browsd/internal/browse"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewLsCmd creates a one-shot listing command
func NewLsCmd() *cobra.Command {
	var (
		all    bool
		sorted bool
		long   bool
	)

	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List a directory the way the browser shows it",
		Long:  `Print the children of a directory after hidden-file and ignore filtering, without watching it.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(args)
			if err != nil {
				return err
			}
			if all {
				cfg.Browser.ShowHidden = true
			}
			filter, err := newFilter()
			if err != nil {
				return err
			}

			entries, err := browse.ListChildren(dir, filter)
			if err != nil {
				return err
			}
			if sorted {
				sort.SliceStable(entries, func(i, j int) bool {
					return entries[i].Name() < entries[j].Name()
				})
			}

			var inspector *analysis.Engine
			if long {
				inspector = analysis.New()
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s\n", details(e, inspector), displayName(e))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden entries")
	cmd.Flags().BoolVarP(&sorted, "sort", "s", false, "sort by name instead of directory order")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "include the detected content type")

	return cmd
}

func displayName(e browse.Entry) string {
	if e.IsDir() {
		return dirStyle.Render(e.Name() + "/")
	}
	return e.Name()
}

// details renders size and age, plus the content type when inspector is set.
func details(e browse.Entry, inspector *analysis.Engine) string {
	info, err := os.Stat(e.Path)
	if err != nil {
		return dimStyle.Render(fmt.Sprintf("%8s  %-14s", "?", ""))
	}
	size := "-"
	if !info.IsDir() {
		size = humanize.Bytes(uint64(info.Size()))
	}
	line := fmt.Sprintf("%8s  %-14s", size, humanize.Time(info.ModTime()))
	if inspector != nil {
		contentType := "?"
		if d, err := inspector.Inspect(e.Path); err == nil {
			contentType = d.ContentType
		}
		line += fmt.Sprintf("  %-24s", contentType)
	}
	return dimStyle.Render(line)
}
