package main

import (
	"fmt"

	"kingview/internal/config"
	"kingview/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "kingview",
		Short:   "A fast image viewer for large folders",
		Version: version,
		Long: `King Viewer browses folders of images with asynchronous decoding,
neighbor preloading, and a bounded in-memory cache, so navigation stays
responsive even when individual files are slow to decode.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDebug(debug)

			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				fmt.Printf("Warning: %v\n", err)
				fmt.Println("Using default settings.")
				cfg = config.New()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/kingview/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewViewCmd())
	rootCmd.AddCommand(NewBrowseCmd())
	rootCmd.AddCommand(NewScanCmd())

	return rootCmd
}
