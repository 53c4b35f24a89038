package main

import (
	"browsd/internal/fileops"
	"browsd/internal/tui"
	"browsd/internal/tui/styles"

	"github.com/spf13/cobra"
)

// NewTUICmd creates the terminal browser command
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:         "tui [directory]",
		Short:       "Browse a directory in the terminal",
		Long:        `Start the terminal browser on a directory (default: the configured start directory).`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE:        runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	b, _, err := openBrowser(args)
	if err != nil {
		return err
	}
	defer b.Close()

	return tui.Run(b, fileops.New(),
		tui.WithTickInterval(tickInterval()),
		tui.WithStyles(styles.New(themePalette())),
		tui.WithConfirmDelete(cfg.Browser.ConfirmDelete))
}

func themePalette() styles.Palette {
	return styles.Palette{
		Primary:  cfg.Theme.Primary,
		Success:  cfg.Theme.Success,
		Warning:  cfg.Theme.Warning,
		Error:    cfg.Theme.Error,
		Info:     cfg.Theme.Info,
		Emphasis: cfg.Theme.Emphasis,
		Border:   cfg.Theme.Border,
	}
}
