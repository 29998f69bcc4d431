// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/siemens/ipatlas/atlas"

	"github.com/spf13/cobra"
)

// DefaultShrink is the default factor for shrinking the stitched atlas.
const DefaultShrink = 8

func newStitchCmd() *cobra.Command {
	var shrink int
	var output string
	cmd := &cobra.Command{
		Use:   "stitch",
		Short: "stitch the 64 tile images into a single atlas image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return stitch(cmd.Context(), newConsole(cmd.InOrStdin(), cmd.OutOrStdout()), output, shrink)
		},
	}
	cmd.Flags().IntVar(&shrink, "shrink", DefaultShrink,
		"shrink the atlas by this factor; 1 keeps the full 65536x65536 pixels")
	cmd.Flags().StringVarP(&output, "output", "o", "map.png",
		"atlas image file to write")
	return cmd
}

// stitch the tiles into the specified output image file, which only gets
// replaced after the new atlas image has been completely written.
func stitch(ctx context.Context, con *console, output string, shrink int) error {
	con.Printf("%s tiles from %s into %s...\n",
		headingStyle.Styled("Stitching"), *mapsDir, output)
	tmp, err := os.CreateTemp(filepath.Dir(output), ".stitch-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := atlas.Stitch(ctx, tileStore(), tmp, shrink); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot stitch atlas: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		return err
	}
	size := atlas.Size / shrink
	con.Printf("Saved %dx%d atlas %s\n", size, size, output)
	return nil
}
