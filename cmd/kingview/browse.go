package main

import (
	"os"
	"path/filepath"

	"kingview/internal/tui"

	"github.com/spf13/cobra"
)

// NewBrowseCmd creates the browse command: the terminal frontend.
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [folder]",
		Short: "Browse a folder's images in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := "."
			if len(args) > 0 {
				folder = args[0]
			}
			abs, err := filepath.Abs(folder)
			if err != nil {
				return err
			}
			if _, err := os.Stat(abs); err != nil {
				return err
			}
			return tui.Run(cfg, abs)
		},
	}
}
