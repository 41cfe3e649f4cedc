package main

import (
	"os"
	"path/filepath"

	"kingview/internal/gui"

	"github.com/spf13/cobra"
)

// NewViewCmd creates the view command: the desktop window.
func NewViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [folder or image]",
		Short: "Open the desktop viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := gui.NewApp(cfg)

			target := ""
			if len(args) > 0 {
				target = args[0]
			} else if wd, err := os.Getwd(); err == nil {
				target = wd
			}

			if target != "" {
				if info, err := os.Stat(target); err == nil && !info.IsDir() {
					// A file argument opens its folder with the file selected.
					app.RunWithFile(target)
					return nil
				}
				abs, err := filepath.Abs(target)
				if err == nil {
					target = abs
				}
			}

			app.Run(target)
			return nil
		},
	}
}
