package main

import (
	"fmt"
	"path/filepath"

	"kingview/internal/scan"

	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command: list the viewable images in a folder
// without opening a frontend.
func NewScanCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "scan [folder]",
		Short: "List the supported images in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := "."
			if len(args) > 0 {
				folder = args[0]
			}

			res, err := scan.New(cfg.IncludeGlobs()).Scan(folder, "")
			if err != nil {
				return err
			}

			if len(res.Files) == 0 {
				fmt.Println("No supported images found in this folder.")
				return nil
			}

			for _, f := range res.Files {
				if long {
					fmt.Println(f)
				} else {
					fmt.Println(filepath.Base(f))
				}
			}
			fmt.Printf("\n%d images in %s\n", len(res.Files), res.Folder)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "print absolute paths")
	return cmd
}
