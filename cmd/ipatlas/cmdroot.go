// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/siemens/ipatlas/atlas"
	"github.com/siemens/ipatlas/config"
	"github.com/siemens/ipatlas/coverage"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

var (
	debug        *bool
	settingsPath *string
	coveragePath *string
	mapsDir      *string
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "ipatlas [flags] [command]",
		Short: "ipatlas pings the whole IPv4 address space and maps the results into an atlas of tile images",
		Long: `ipatlas pings the whole IPv4 address space and maps the results into an
atlas of 64 tile images. Scans can be stopped at any time and later resumed
where they left off. Without a command, ipatlas shows an interactive menu.`,
		Version:      "0.9",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd.Context(), newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}
	// Sets up the flags.
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	settingsPath = rootCmd.PersistentFlags().String(
		"settings", config.DefaultPath, "settings file with thread amounts")
	coveragePath = rootCmd.PersistentFlags().String(
		"coverage", coverage.DefaultPath, "file keeping track of the address ranges already scanned")
	mapsDir = rootCmd.PersistentFlags().String(
		"maps", "maps", "directory with the map1.png to map64.png tile images")

	rootCmd.AddCommand(
		newScanCmd(),
		newStitchCmd(),
		newResetCmd(),
		newSettingsCmd(),
		newLocateCmd(),
	)
	return
}

// tileStore returns the store for the tiles in the maps directory.
func tileStore() atlas.Store {
	return &atlas.DirStore{Dir: *mapsDir}
}
