package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"browsd/internal/browse"
	"browsd/internal/config"
	"browsd/internal/log"
	"browsd/internal/watch"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// interactiveAnnotation marks commands that own the terminal. Their log
// output must not reach stdout.
const interactiveAnnotation = "interactive"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "browsd [directory]",
		Short: "A live directory browser",
		Long: `browsd shows the contents of one directory and keeps the listing in step
with the filesystem as files are created, renamed and removed.

Run without a subcommand to start the terminal browser.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{interactiveAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			applyTheme()
			configureLogging(cmd)
			return nil
		},
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/browsd/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewLsCmd())

	return rootCmd
}

// loadConfig fills cfg. A config file named on the command line must load;
// a broken default file only produces a warning.
func loadConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
		if err != nil {
			return fmt.Errorf("loading %s: %w", cfgFile, err)
		}
		return nil
	}

	cfg, err = config.LoadConfig()
	if err != nil {
		printWarning(cmd.ErrOrStderr(), fmt.Sprintf("Warning: %v", err))
		printInfo(cmd.ErrOrStderr(), "Using default settings.")
		cfg = config.New()
	}
	return nil
}

func configureLogging(cmd *cobra.Command) {
	var out io.Writer = cmd.ErrOrStderr()
	if cmd.Annotations[interactiveAnnotation] == "true" {
		out = io.Discard
	}

	opts := []log.Option{log.WithOutput(out), log.WithLevel(cfg.Log.Level)}
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFile(cfg.Log.File))
	}
	log.Configure(opts...)
	if debug {
		log.SetDebug(true)
	}
}

// resolveDir picks the directory to open: the argument, then the configured
// start directory, then the working directory.
func resolveDir(args []string) (string, error) {
	dir := cfg.Browser.StartDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("error resolving directory: %w", err)
	}
	return abs, nil
}

func newFilter() (*browse.Filter, error) {
	return browse.NewFilter(cfg.Browser.ShowHidden, cfg.Browser.Ignore)
}

func tickInterval() time.Duration {
	return time.Duration(cfg.Watch.TickIntervalMs) * time.Millisecond
}

// openBrowser starts a watcher on the resolved directory and lists it.
// The caller owns the returned browser and must Close it; closing the
// browser stops the watcher.
func openBrowser(args []string, opts ...watch.Option) (*browse.Browser, *watch.FileSystemWatcher, error) {
	dir, err := resolveDir(args)
	if err != nil {
		return nil, nil, err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("cannot browse %s: not a readable directory", dir)
	}

	filter, err := newFilter()
	if err != nil {
		return nil, nil, err
	}

	opts = append([]watch.Option{watch.WithBackend(cfg.Watch.Backend)}, opts...)
	w, err := watch.NewFileSystemWatcher(dir, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("error starting watcher: %w", err)
	}

	b, err := browse.New(dir, w,
		browse.WithFilter(filter),
		browse.WithMaxChangesPerTick(cfg.Watch.MaxChangesPerTick))
	if err != nil {
		w.Close()
		return nil, nil, err
	}
	log.LogWithFields(log.F("dir", dir), log.F("backend", cfg.Watch.Backend)).Info("browsing")
	return b, w, nil
}
