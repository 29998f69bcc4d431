// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"

	"github.com/siemens/ipatlas/config"
	"github.com/siemens/ipatlas/mapper"
	"github.com/siemens/ipatlas/stats"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "reset all tile images and forget all scanned address ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reset(cmd.Context(), newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}
}

// reset all tiles to the background and the coverage to none.
func reset(ctx context.Context, con *console) error {
	settings, err := config.Load(*settingsPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*mapsDir, 0o755); err != nil {
		return err
	}
	con.Printf("%s tiles in %s...\n", headingStyle.Styled("Resetting"), *mapsDir)
	m := mapper.New(nil, tileStore(),
		mapper.WithThreads(settings.Active()),
		mapper.WithCoveragePath(*coveragePath),
		mapper.WithProgress(con.out, stats.DefaultInterval))
	return m.Reset(ctx)
}
