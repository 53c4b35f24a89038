package main

import (
	"fmt"

	"browsd/internal/fileops"
	"browsd/internal/gui"
	"browsd/internal/watch"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the GUI command for the CLI
func NewGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:         "gui [directory]",
		Short:       "Browse a directory in a desktop window",
		Long:        `Launch the graphical browser. Not available in builds tagged nogui.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return fmt.Errorf("GUI not available in this build")
			}

			notifier := gui.NewNotifier()
			b, _, err := openBrowser(args, watch.WithOnChange(notifier.Notify))
			if err != nil {
				return err
			}
			defer b.Close()

			app, err := gui.NewFactory(b, fileops.New(), notifier, tickInterval(), cfg.Browser.ConfirmDelete).Create()
			if err != nil {
				return fmt.Errorf("error launching GUI: %w", err)
			}
			app.Run()
			return nil
		},
	}
}
