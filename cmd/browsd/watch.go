package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"browsd/internal/browse"
	"browsd/internal/debugsrv"
	"browsd/internal/watch"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var (
		metricsAddr string
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Print changes to a directory as they are classified",
		Long: `Watch a directory and print every create, remove, rename and modify as the
browser would apply it. With --metrics-addr the watcher metrics and a JSON
snapshot of the listing are served over HTTP.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = cfg.Metrics.Addr
			}
			if !cmd.Flags().Changed("interval") {
				interval = tickInterval()
			}

			b, w, err := openBrowser(args)
			if err != nil {
				return err
			}
			defer b.Close()

			out := cmd.OutOrStdout()
			session := &watchSession{id: uuid.NewString(), browser: b, out: out}
			mon := watch.NewMonitor(w, interval)
			mon.SetCallback(session.handle)

			printSuccess(out, fmt.Sprintf("Watching %s (%d entries). Press Ctrl+C to stop.", b.Dir(), len(b.Entries())))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return mon.Run(gctx) })
			if metricsAddr != "" {
				srv := debugsrv.New(session.snapshot(mon, w), watch.Collectors()...)
				g.Go(func() error { return srv.ListenAndServe(gctx, metricsAddr) })
				printInfo(out, fmt.Sprintf("Serving metrics on http://%s/metrics", metricsAddr))
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve metrics and /state on this address (default from config)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "how often queued changes are drained (default from config)")

	return cmd
}

// watchSession mirrors the browser state for the monitor goroutine and the
// debug server's request goroutines.
type watchSession struct {
	id      string
	mu      sync.Mutex
	browser *browse.Browser
	out     io.Writer
}

func (s *watchSession) handle(c watch.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(s.out, formatChange(s.browser.Dir(), time.Now(), c))
	if s.browser.Apply(c) {
		fmt.Fprintln(s.out, dimStyle.Render(fmt.Sprintf("  re-listed: %d entries", len(s.browser.Entries()))))
	}
}

func (s *watchSession) snapshot(mon *watch.Monitor, w *watch.FileSystemWatcher) debugsrv.StateFunc {
	return func() debugsrv.State {
		status := mon.Status()

		s.mu.Lock()
		defer s.mu.Unlock()

		entries := s.browser.Entries()
		st := debugsrv.State{
			Session:          s.id,
			Directory:        s.browser.Dir(),
			Entries:          make([]debugsrv.Entry, 0, len(entries)),
			Pending:          w.Pending(),
			ChangesProcessed: status.ChangesProcessed,
			LastActivity:     status.LastActivity,
		}
		for _, e := range entries {
			st.Entries = append(st.Entries, debugsrv.Entry{
				Name:     e.Name(),
				Path:     e.Path,
				Kind:     e.Kind.String(),
				Selected: e.Selected,
			})
		}
		return st
	}
}

// formatChange renders c with paths relative to dir where possible.
func formatChange(dir string, at time.Time, c watch.Change) string {
	rel := func(p string) string {
		if r, err := filepath.Rel(dir, p); err == nil && !strings.HasPrefix(r, "..") {
			return r
		}
		return p
	}

	stamp := dimStyle.Render(at.Format("15:04:05"))
	op := fmt.Sprintf("%-7s", c.Op)
	switch c.Op {
	case watch.Create:
		name := rel(c.Path)
		if c.Kind == watch.Directory {
			name = dirStyle.Render(name + "/")
		}
		return fmt.Sprintf("%s %s %s", stamp, successStyle.Render(op), name)
	case watch.Remove:
		return fmt.Sprintf("%s %s %s", stamp, errorStyle.Render(op), rel(c.Path))
	case watch.Rename:
		return fmt.Sprintf("%s %s %s -> %s", stamp, infoStyle.Render(op), rel(c.From), rel(c.To))
	case watch.Modify:
		return fmt.Sprintf("%s %s %s", stamp, op, rel(c.Path))
	default:
		return fmt.Sprintf("%s %s %s", stamp, warningStyle.Render(op), "listing is stale, re-listing")
	}
}
